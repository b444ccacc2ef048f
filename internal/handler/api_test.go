package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rewear-hq/rewear/internal/config"
	"github.com/rewear-hq/rewear/internal/database"
	"github.com/rewear-hq/rewear/internal/handler"
	"github.com/rewear-hq/rewear/internal/middleware"
	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/repository"
	"github.com/rewear-hq/rewear/internal/router"
	"github.com/rewear-hq/rewear/internal/utils"
)

// testServer wires the full HTTP surface over an in-memory database, with
// the cache and rate limiter disabled (no Redis in tests). Broker publishes
// run in the background and fail harmlessly without RabbitMQ.
type testServer struct {
	e   *echo.Echo
	db  *sql.DB
	cfg config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := database.NewTestDB(t)
	cfg := config.Config{
		Env: "test", JWTSecret: "test-secret",
		AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: bcrypt.MinCost,
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	items := repository.NewItemRepo(db)
	offers := repository.NewOfferRepo(db)
	swaps := repository.NewSwapRepo(db)
	ecoRepo := repository.NewEcoRepo(db)
	badges := repository.NewBadgeRepo(db)
	notifs := repository.NewNotificationRepo(db)
	rewards := repository.NewRewardRepo(db)

	e := echo.New()
	noCache := middleware.NewRedisCache(config.CacheConfig{}, nil)
	noLimit := middleware.NewTokenBucket(config.RateLimitConfig{}, nil)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret, noLimit)
	router.RegisterCatalog(e, handler.NewItemHandler(items, users, ecoRepo, badges, notifs), cfg.JWTSecret, noCache)
	router.RegisterSwaps(e,
		handler.NewOfferHandler(offers, items, swaps, notifs),
		handler.NewSwapHandler(swaps, items, users, ecoRepo, badges, notifs),
		cfg.JWTSecret)
	rewardH := handler.NewRewardHandler(rewards, users, notifs)
	notifH := handler.NewNotificationHandler(notifs)
	router.RegisterEngagement(e,
		handler.NewProfileHandler(ecoRepo, badges),
		notifH, rewardH, cfg.JWTSecret)
	router.RegisterAdmin(e, rewardH, notifH, cfg.JWTSecret)

	return &testServer{e: e, db: db, cfg: cfg}
}

// do performs a JSON request and decodes the response envelope.
func (s *testServer) do(t *testing.T, method, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var envelope map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), "body: %s", rec.Body.String())
	}
	return rec.Code, envelope
}

func dataOf(t *testing.T, envelope map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "envelope: %v", envelope)
	return data
}

// register creates an account and returns its access token and user ID.
func (s *testServer) register(t *testing.T, email string) (string, uint64) {
	t.Helper()
	code, envelope := s.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, code, "envelope: %v", envelope)
	data := dataOf(t, envelope)
	user := data["user"].(map[string]interface{})
	access := data["access"].(map[string]interface{})
	return access["token"].(string), uint64(user["id"].(float64))
}

// listItem creates a listing and returns its ID and computed point value.
func (s *testServer) listItem(t *testing.T, token, title, category, condition, material string) (uint64, int) {
	t.Helper()
	code, envelope := s.do(t, http.MethodPost, "/v1/items", token, map[string]string{
		"title": title, "category": category, "condition": condition, "material": material,
	})
	require.Equal(t, http.StatusCreated, code, "envelope: %v", envelope)
	data := dataOf(t, envelope)
	return uint64(data["id"].(float64)), int(data["eco_points_value"].(float64))
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	token, uid := s.register(t, "alice@example.com")
	require.NotZero(t, uid)

	// Duplicate registration conflicts.
	code, _ := s.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "alice@example.com", "password": "other",
	})
	assert.Equal(t, http.StatusConflict, code)

	// The access token works on the protected profile endpoint.
	code, envelope := s.do(t, http.MethodGet, "/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice@example.com", dataOf(t, envelope)["email"])

	// No token, bad password.
	code, _ = s.do(t, http.MethodGet, "/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = s.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	// Login and rotate the refresh token; the old one dies with the rotation.
	code, envelope = s.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, code)
	oldRefresh := dataOf(t, envelope)["refresh"].(map[string]interface{})["token"].(string)

	code, _ = s.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": oldRefresh})
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": oldRefresh})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestItemListingAndBrowse(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "alice@example.com")

	// Point values come from the material/condition tables at listing time.
	jeansID, jeansPoints := s.listItem(t, token, "Blue jeans", "Jeans", "Good", "Denim")
	assert.Equal(t, 81, jeansPoints)
	_, shirtPoints := s.listItem(t, token, "White shirt", "Shirt", "New", "Cotton")
	assert.Equal(t, 100, shirtPoints)

	// Listing without a token or without required fields fails.
	code, _ := s.do(t, http.MethodPost, "/v1/items", "", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = s.do(t, http.MethodPost, "/v1/items", token, map[string]string{"title": "No material"})
	assert.Equal(t, http.StatusBadRequest, code)

	// The catalog is public.
	code, envelope := s.do(t, http.MethodGet, "/v1/items", "", nil)
	require.Equal(t, http.StatusOK, code)
	items := dataOf(t, envelope)["items"].([]interface{})
	assert.Len(t, items, 2)

	code, envelope = s.do(t, http.MethodGet, "/v1/items/"+strconv.FormatUint(jeansID, 10), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Blue jeans", dataOf(t, envelope)["title"])

	// An edit recomputes the point value.
	code, envelope = s.do(t, http.MethodPut, "/v1/items/"+strconv.FormatUint(jeansID, 10), token, map[string]string{
		"title": "Blue jeans", "category": "Jeans", "condition": "Worn", "material": "Denim",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(35), dataOf(t, envelope)["eco_points_value"])

	// Soft removal takes it out of the catalog; a second edit conflicts.
	code, _ = s.do(t, http.MethodDelete, "/v1/items/"+strconv.FormatUint(jeansID, 10), token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodPut, "/v1/items/"+strconv.FormatUint(jeansID, 10), token, map[string]string{
		"title": "Blue jeans", "category": "Jeans", "condition": "Good", "material": "Denim",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, envelope = s.do(t, http.MethodGet, "/v1/items", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, dataOf(t, envelope)["items"].([]interface{}), 1)
}

func TestSwapLifecycle(t *testing.T) {
	s := newTestServer(t)
	aliceToken, aliceID := s.register(t, "alice@example.com")
	bobToken, bobID := s.register(t, "bob@example.com")
	carolToken, _ := s.register(t, "carol@example.com")

	jeansID, _ := s.listItem(t, aliceToken, "Blue jeans", "Jeans", "Good", "Denim")
	shirtID, _ := s.listItem(t, bobToken, "White shirt", "Shirt", "New", "Cotton")

	// Bob offers his shirt for Alice's jeans.
	code, envelope := s.do(t, http.MethodPost, "/v1/offers", bobToken, map[string]interface{}{
		"requested_item_id": jeansID, "offered_item_ids": []uint64{shirtID},
	})
	require.Equal(t, http.StatusCreated, code, "envelope: %v", envelope)
	offerID := uint64(dataOf(t, envelope)["id"].(float64))
	offerPath := "/v1/offers/" + strconv.FormatUint(offerID, 10)

	// Alice sees it incoming; Carol is not a party.
	code, envelope = s.do(t, http.MethodGet, "/v1/offers?box=incoming", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, dataOf(t, envelope)["offers"].([]interface{}), 1)
	code, _ = s.do(t, http.MethodGet, offerPath, carolToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	// Only the recipient may accept.
	code, _ = s.do(t, http.MethodPost, offerPath+"/accept", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, envelope = s.do(t, http.MethodPost, offerPath+"/accept", aliceToken, nil)
	require.Equal(t, http.StatusOK, code, "envelope: %v", envelope)
	swap := dataOf(t, envelope)
	assert.Equal(t, model.SwapInProgress, swap["status"])
	swapID := uint64(swap["id"].(float64))
	swapPath := "/v1/swaps/" + strconv.FormatUint(swapID, 10)

	// Accepting again conflicts; the items left circulation.
	code, _ = s.do(t, http.MethodPost, offerPath+"/accept", aliceToken, nil)
	assert.Equal(t, http.StatusConflict, code)
	code, envelope = s.do(t, http.MethodGet, "/v1/items/"+strconv.FormatUint(jeansID, 10), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.ItemSwapped, dataOf(t, envelope)["status"])

	// Completion credits each giver with their item's points.
	code, envelope = s.do(t, http.MethodPost, swapPath+"/complete", bobToken, nil)
	require.Equal(t, http.StatusOK, code, "envelope: %v", envelope)
	data := dataOf(t, envelope)
	assert.Equal(t, model.SwapCompleted, data["swap"].(map[string]interface{})["status"])
	awarded := data["points_awarded"].(map[string]interface{})
	assert.Equal(t, float64(81), awarded[strconv.FormatUint(aliceID, 10)])
	assert.Equal(t, float64(100), awarded[strconv.FormatUint(bobID, 10)])

	// Double completion conflicts, so points are never awarded twice.
	code, _ = s.do(t, http.MethodPost, swapPath+"/complete", aliceToken, nil)
	assert.Equal(t, http.StatusConflict, code)

	// Stats reflect the exchange: each party banks their item's impact.
	code, envelope = s.do(t, http.MethodGet, "/v1/users/me/stats", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	stats := dataOf(t, envelope)
	assert.Equal(t, float64(1), stats["completed_swaps"])
	assert.Equal(t, float64(81), stats["eco_points"])
	assert.Equal(t, float64(7000), stats["water_saved_liters"])
	assert.Equal(t, 8.0, stats["co2_saved_kg"])

	code, envelope = s.do(t, http.MethodGet, "/v1/users/me/stats", bobToken, nil)
	require.Equal(t, http.StatusOK, code)
	stats = dataOf(t, envelope)
	assert.Equal(t, float64(100), stats["eco_points"])
	assert.Equal(t, float64(2700), stats["water_saved_liters"])

	// First milestones landed for both parties.
	code, envelope = s.do(t, http.MethodGet, "/v1/users/me/badges", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	var types []string
	for _, b := range envelope["data"].([]interface{}) {
		types = append(types, b.(map[string]interface{})["type"].(string))
	}
	assert.Contains(t, types, "first_swap")
	assert.Contains(t, types, "first_listing")

	// Bob was told at every step.
	code, envelope = s.do(t, http.MethodGet, "/v1/notifications", bobToken, nil)
	require.Equal(t, http.StatusOK, code)
	notifs := dataOf(t, envelope)["notifications"].([]interface{})
	var kinds []string
	for _, n := range notifs {
		kinds = append(kinds, n.(map[string]interface{})["type"].(string))
	}
	assert.Contains(t, kinds, model.NotifySwapResponse)
	assert.Contains(t, kinds, model.NotifySwapCompleted)
}

func TestSwapCancelReturnsItems(t *testing.T) {
	s := newTestServer(t)
	aliceToken, _ := s.register(t, "alice@example.com")
	bobToken, _ := s.register(t, "bob@example.com")

	jeansID, _ := s.listItem(t, aliceToken, "Blue jeans", "Jeans", "Good", "Denim")
	shirtID, _ := s.listItem(t, bobToken, "White shirt", "Shirt", "New", "Cotton")

	code, envelope := s.do(t, http.MethodPost, "/v1/offers", bobToken, map[string]interface{}{
		"requested_item_id": jeansID, "offered_item_ids": []uint64{shirtID},
	})
	require.Equal(t, http.StatusCreated, code)
	offerID := uint64(dataOf(t, envelope)["id"].(float64))

	code, envelope = s.do(t, http.MethodPost, "/v1/offers/"+strconv.FormatUint(offerID, 10)+"/accept", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	swapID := uint64(dataOf(t, envelope)["id"].(float64))
	swapPath := "/v1/swaps/" + strconv.FormatUint(swapID, 10)

	code, _ = s.do(t, http.MethodPost, swapPath+"/cancel", bobToken, nil)
	require.Equal(t, http.StatusOK, code)

	// Items are back in circulation, the swap is settled for good.
	code, envelope = s.do(t, http.MethodGet, "/v1/items/"+strconv.FormatUint(jeansID, 10), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.ItemAvailable, dataOf(t, envelope)["status"])
	code, _ = s.do(t, http.MethodPost, swapPath+"/complete", aliceToken, nil)
	assert.Equal(t, http.StatusConflict, code)

	// A cancelled swap never produced points.
	code, envelope = s.do(t, http.MethodGet, "/v1/users/me/stats", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), dataOf(t, envelope)["eco_points"])
}

func TestOfferCounterFlow(t *testing.T) {
	s := newTestServer(t)
	aliceToken, _ := s.register(t, "alice@example.com")
	bobToken, _ := s.register(t, "bob@example.com")

	jeansID, _ := s.listItem(t, aliceToken, "Blue jeans", "Jeans", "Good", "Denim")
	bagID, _ := s.listItem(t, aliceToken, "Canvas bag", "Accessories", "Good", "Cotton")
	shirtID, _ := s.listItem(t, bobToken, "White shirt", "Shirt", "New", "Cotton")

	code, envelope := s.do(t, http.MethodPost, "/v1/offers", bobToken, map[string]interface{}{
		"requested_item_id": jeansID, "offered_item_ids": []uint64{shirtID},
	})
	require.Equal(t, http.StatusCreated, code)
	originalID := uint64(dataOf(t, envelope)["id"].(float64))
	originalPath := "/v1/offers/" + strconv.FormatUint(originalID, 10)

	// Alice counters: her bag for Bob's shirt.
	code, envelope = s.do(t, http.MethodPost, originalPath+"/counter", aliceToken, map[string]interface{}{
		"requested_item_id": shirtID, "offered_item_ids": []uint64{bagID},
	})
	require.Equal(t, http.StatusCreated, code, "envelope: %v", envelope)
	counter := dataOf(t, envelope)
	assert.Equal(t, model.OfferPending, counter["status"])
	assert.Equal(t, float64(originalID), counter["supersedes_offer_id"])
	counterID := uint64(counter["id"].(float64))

	// The original closed as countered and cannot be accepted anymore.
	code, envelope = s.do(t, http.MethodGet, originalPath, bobToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.OfferCountered, dataOf(t, envelope)["status"])
	code, _ = s.do(t, http.MethodPost, originalPath+"/accept", aliceToken, nil)
	assert.Equal(t, http.StatusConflict, code)

	// Bob, now the recipient, accepts the counter.
	code, envelope = s.do(t, http.MethodPost, "/v1/offers/"+strconv.FormatUint(counterID, 10)+"/accept", bobToken, nil)
	require.Equal(t, http.StatusOK, code, "envelope: %v", envelope)
	assert.Equal(t, model.SwapInProgress, dataOf(t, envelope)["status"])
}

func TestRewardFlow(t *testing.T) {
	s := newTestServer(t)
	aliceToken, _ := s.register(t, "alice@example.com")

	// Admins come from the startup seed, not registration.
	adminID, err := repository.NewUserRepo(s.db).Create(
		context.Background(), "admin@rewear.test", "adminpw", "Admin", model.RoleAdmin, bcrypt.MinCost)
	require.NoError(t, err)
	adminAccess, err := utils.NewAccessToken(s.cfg.JWTSecret, adminID, model.RoleAdmin, 15)
	require.NoError(t, err)
	adminToken := adminAccess.Token

	// Catalog management is admin-only.
	code, _ := s.do(t, http.MethodPost, "/v1/admin/rewards", aliceToken, map[string]interface{}{
		"partner": "GreenThreads", "title": "10% off", "cost_points": 50,
	})
	assert.Equal(t, http.StatusForbidden, code)
	code, envelope := s.do(t, http.MethodPost, "/v1/admin/rewards", adminToken, map[string]interface{}{
		"partner": "GreenThreads", "title": "10% off", "cost_points": 50,
	})
	require.Equal(t, http.StatusCreated, code, "envelope: %v", envelope)
	rewardID := uint64(dataOf(t, envelope)["id"].(float64))
	redeemPath := "/v1/rewards/" + strconv.FormatUint(rewardID, 10) + "/redeem"

	// Broke users cannot redeem.
	code, _ = s.do(t, http.MethodPost, redeemPath, aliceToken, nil)
	assert.Equal(t, http.StatusConflict, code)

	// A donation funds the balance: jeans are worth 81 points.
	jeansID, _ := s.listItem(t, aliceToken, "Blue jeans", "Jeans", "Good", "Denim")
	code, envelope = s.do(t, http.MethodPost, "/v1/items/"+strconv.FormatUint(jeansID, 10)+"/donate", aliceToken, nil)
	require.Equal(t, http.StatusOK, code, "envelope: %v", envelope)
	donation := dataOf(t, envelope)
	assert.Equal(t, float64(81), donation["points_awarded"])
	assert.Equal(t, float64(7000), donation["water_saved_l"])

	code, envelope = s.do(t, http.MethodPost, redeemPath, aliceToken, nil)
	require.Equal(t, http.StatusOK, code, "envelope: %v", envelope)
	assert.Equal(t, float64(50), dataOf(t, envelope)["points_spent"])

	code, envelope = s.do(t, http.MethodGet, "/v1/auth/me", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(31), dataOf(t, envelope)["eco_points"])

	code, envelope = s.do(t, http.MethodGet, "/v1/rewards/redemptions", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, dataOf(t, envelope)["redemptions"].([]interface{}), 1)

	// Deactivated rewards stop redeeming and leave the public catalog.
	code, _ = s.do(t, http.MethodPut, "/v1/admin/rewards/"+strconv.FormatUint(rewardID, 10)+"/active", adminToken,
		map[string]interface{}{"is_active": false})
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodPost, redeemPath, aliceToken, nil)
	assert.Equal(t, http.StatusConflict, code)
	code, envelope = s.do(t, http.MethodGet, "/v1/rewards", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, envelope["data"].([]interface{}))
}

func TestNotificationFeed(t *testing.T) {
	s := newTestServer(t)
	aliceToken, _ := s.register(t, "alice@example.com")
	bobToken, _ := s.register(t, "bob@example.com")

	jeansID, _ := s.listItem(t, aliceToken, "Blue jeans", "Jeans", "Good", "Denim")
	shirtID, _ := s.listItem(t, bobToken, "White shirt", "Shirt", "New", "Cotton")

	code, _ := s.do(t, http.MethodPost, "/v1/offers", bobToken, map[string]interface{}{
		"requested_item_id": jeansID, "offered_item_ids": []uint64{shirtID},
	})
	require.Equal(t, http.StatusCreated, code)

	// Alice has the badge notification from listing plus the offer, newest
	// first.
	code, envelope := s.do(t, http.MethodGet, "/v1/notifications?unread=true", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	data := dataOf(t, envelope)
	notifs := data["notifications"].([]interface{})
	require.Len(t, notifs, 2)
	assert.Equal(t, float64(2), data["unread_count"])
	first := notifs[0].(map[string]interface{})
	assert.Equal(t, model.NotifySwapOffer, first["type"])
	assert.Equal(t, model.NotifyBadgeAwarded, notifs[1].(map[string]interface{})["type"])
	noteID := uint64(first["id"].(float64))

	// One read, then everything.
	code, _ = s.do(t, http.MethodPost, "/v1/notifications/"+strconv.FormatUint(noteID, 10)+"/read", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	code, envelope = s.do(t, http.MethodPost, "/v1/notifications/read-all", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), dataOf(t, envelope)["marked"])

	code, envelope = s.do(t, http.MethodGet, "/v1/notifications", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), dataOf(t, envelope)["unread_count"])
}

func TestAdminNotificationPurge(t *testing.T) {
	s := newTestServer(t)
	aliceToken, _ := s.register(t, "alice@example.com")
	bobToken, _ := s.register(t, "bob@example.com")

	adminID, err := repository.NewUserRepo(s.db).Create(
		context.Background(), "admin@rewear.test", "adminpw", "Admin", model.RoleAdmin, bcrypt.MinCost)
	require.NoError(t, err)
	adminAccess, err := utils.NewAccessToken(s.cfg.JWTSecret, adminID, model.RoleAdmin, 15)
	require.NoError(t, err)
	adminToken := adminAccess.Token

	// An offer leaves Alice with listing-badge and offer notifications.
	jeansID, _ := s.listItem(t, aliceToken, "Blue jeans", "Jeans", "Good", "Denim")
	shirtID, _ := s.listItem(t, bobToken, "White shirt", "Shirt", "New", "Cotton")
	code, _ := s.do(t, http.MethodPost, "/v1/offers", bobToken, map[string]interface{}{
		"requested_item_id": jeansID, "offered_item_ids": []uint64{shirtID},
	})
	require.Equal(t, http.StatusCreated, code)
	code, _ = s.do(t, http.MethodPost, "/v1/notifications/read-all", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)

	// Regular users cannot purge, and the window must parse.
	code, _ = s.do(t, http.MethodDelete, "/v1/admin/notifications?days=0", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(t, http.MethodDelete, "/v1/admin/notifications?days=soon", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	// A zero-day window deletes everything already read; Bob's unread badge
	// notification survives.
	code, envelope := s.do(t, http.MethodDelete, "/v1/admin/notifications?days=0", adminToken, nil)
	require.Equal(t, http.StatusOK, code, "envelope: %v", envelope)
	assert.Equal(t, float64(2), dataOf(t, envelope)["purged"])

	code, envelope = s.do(t, http.MethodGet, "/v1/notifications", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, dataOf(t, envelope)["notifications"].([]interface{}))
	code, envelope = s.do(t, http.MethodGet, "/v1/notifications", bobToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), dataOf(t, envelope)["unread_count"])
}
