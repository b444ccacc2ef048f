package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rewear-hq/rewear/internal/badge"
	"github.com/rewear-hq/rewear/internal/repository"
	"github.com/rewear-hq/rewear/internal/utils"
)

// ProfileHandler serves the eco side of a user's profile: aggregate stats,
// the impact ledger and earned badges.
type ProfileHandler struct {
	Eco    *repository.EcoRepo
	Badges *repository.BadgeRepo
}

func NewProfileHandler(ecoRepo *repository.EcoRepo, badges *repository.BadgeRepo) *ProfileHandler {
	return &ProfileHandler{Eco: ecoRepo, Badges: badges}
}

// Stats handles GET /v1/users/me/stats.
func (h *ProfileHandler) Stats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	stats, err := h.Eco.StatsForUser(c.Request().Context(), userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "user not found")
		}
		return fail(c, http.StatusInternalServerError, "load stats failed")
	}
	return respond(c, http.StatusOK, "ok", stats)
}

type badgeResp struct {
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AwardedAt   time.Time `json:"awarded_at"`
}

// MyBadges handles GET /v1/users/me/badges, joining the stored rows with
// the static catalog for display names.
func (h *ProfileHandler) MyBadges(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	earned, err := h.Badges.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list badges failed")
	}

	byType := make(map[string]badge.Definition, len(badge.Definitions))
	for _, def := range badge.Definitions {
		byType[def.Type] = def
	}
	out := make([]badgeResp, 0, len(earned))
	for _, b := range earned {
		def := byType[b.BadgeType]
		out = append(out, badgeResp{Type: b.BadgeType, Name: def.Name, Description: def.Description, AwardedAt: b.AwardedAt})
	}
	return respond(c, http.StatusOK, "ok", out)
}

// BadgeCatalog handles GET /v1/badges, the full static catalog with
// thresholds.
func (h *ProfileHandler) BadgeCatalog(c echo.Context) error {
	return respond(c, http.StatusOK, "ok", badge.Definitions)
}

type ecoEntryResp struct {
	ID               uint64    `json:"id"`
	SwapID           *uint64   `json:"swap_id,omitempty"`
	ItemID           uint64    `json:"item_id"`
	PointsAwarded    int       `json:"points_awarded"`
	WaterSavedLiters int       `json:"water_saved_liters"`
	CO2SavedKg       float64   `json:"co2_saved_kg"`
	CreatedAt        time.Time `json:"created_at"`
}

// EcoHistory handles GET /v1/users/me/eco-history, the append-only impact
// ledger newest first.
func (h *ProfileHandler) EcoHistory(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	page := utils.ParsePage(c.QueryParam("page"), c.QueryParam("limit"))
	entries, total, err := h.Eco.ListByUser(c.Request().Context(), userID, page)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list eco history failed")
	}
	out := make([]ecoEntryResp, len(entries))
	for i, e := range entries {
		out[i] = ecoEntryResp{
			ID: e.ID, SwapID: e.SwapID, ItemID: e.ItemID, PointsAwarded: e.PointsAwarded,
			WaterSavedLiters: e.WaterSavedLiters, CO2SavedKg: e.CO2SavedKg, CreatedAt: e.CreatedAt,
		}
	}
	return respond(c, http.StatusOK, "ok", echo.Map{
		"entries":    out,
		"pagination": pageMeta(page.Page, page.Limit, total),
	})
}
