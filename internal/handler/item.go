package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rewear-hq/rewear/internal/eco"
	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/policy"
	"github.com/rewear-hq/rewear/internal/repository"
	"github.com/rewear-hq/rewear/internal/utils"
)

// ItemHandler bundles dependencies for listing management: the catalog
// itself plus the ledger, badge and notification repos that donation
// touches.
type ItemHandler struct {
	Items  *repository.ItemRepo
	Users  *repository.UserRepo
	Eco    *repository.EcoRepo
	Badges *repository.BadgeRepo
	Notifs *repository.NotificationRepo
}

func NewItemHandler(items *repository.ItemRepo, users *repository.UserRepo, ecoRepo *repository.EcoRepo, badges *repository.BadgeRepo, notifs *repository.NotificationRepo) *ItemHandler {
	return &ItemHandler{Items: items, Users: users, Eco: ecoRepo, Badges: badges, Notifs: notifs}
}

// ----- DTOs -----

type itemReq struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	Category           string `json:"category"`
	Condition          string `json:"condition"`
	Size               string `json:"size"`
	Material           string `json:"material"`
	PriceEstimateCents uint32 `json:"price_estimate_cents"`
	ImageURL           string `json:"image_url"`
}

type itemResp struct {
	ID                 uint64    `json:"id"`
	OwnerID            uint64    `json:"owner_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	Condition          string    `json:"condition"`
	Size               string    `json:"size"`
	Material           string    `json:"material"`
	PriceEstimateCents uint32    `json:"price_estimate_cents"`
	ImageURL           string    `json:"image_url"`
	EcoPointsValue     int       `json:"eco_points_value"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toItemResp(it *model.Item) itemResp {
	return itemResp{
		ID: it.ID, OwnerID: it.OwnerID, Title: it.Title, Description: it.Description,
		Category: it.Category, Condition: it.Condition, Size: it.Size, Material: it.Material,
		PriceEstimateCents: it.PriceEstimateCents, ImageURL: it.ImageURL,
		EcoPointsValue: it.EcoPointsValue, Status: it.Status,
		CreatedAt: it.CreatedAt, UpdatedAt: it.UpdatedAt,
	}
}

func toItemResps(items []model.Item) []itemResp {
	out := make([]itemResp, len(items))
	for i := range items {
		out[i] = toItemResp(&items[i])
	}
	return out
}

func (r *itemReq) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.TrimSpace(r.Category)
	r.Condition = strings.TrimSpace(r.Condition)
	r.Material = strings.TrimSpace(r.Material)
	switch {
	case r.Title == "":
		return "title is required"
	case r.Category == "":
		return "category is required"
	case r.Condition == "":
		return "condition is required"
	case r.Material == "":
		return "material is required"
	}
	return ""
}

// Create handles POST /v1/items. The eco-point value is computed from
// material and condition at listing time and stored with the item.
func (h *ItemHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var req itemReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	it := &model.Item{
		OwnerID:            userID,
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		Condition:          req.Condition,
		Size:               req.Size,
		Material:           req.Material,
		PriceEstimateCents: req.PriceEstimateCents,
		ImageURL:           req.ImageURL,
		EcoPointsValue:     eco.Points(req.Material, req.Condition),
		Status:             model.ItemAvailable,
	}
	ctx := c.Request().Context()
	if err := h.Items.Create(ctx, it); err != nil {
		return fail(c, http.StatusInternalServerError, "create item failed")
	}

	awardNewBadges(ctx, h.Eco, h.Badges, h.Notifs, userID)
	return respond(c, http.StatusCreated, "item listed", toItemResp(it))
}

// Browse handles GET /v1/items, the public catalog. Only available items
// are shown unless a status filter says otherwise.
func (h *ItemHandler) Browse(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		status = model.ItemAvailable
	}
	f := repository.BrowseFilter{
		Category: c.QueryParam("category"),
		Size:     c.QueryParam("size"),
		Status:   status,
		Page:     utils.ParsePage(c.QueryParam("page"), c.QueryParam("limit")),
	}
	items, total, err := h.Items.Browse(c.Request().Context(), f)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "browse failed")
	}
	return respond(c, http.StatusOK, "ok", echo.Map{
		"items":      toItemResps(items),
		"pagination": pageMeta(f.Page.Page, f.Page.Limit, total),
	})
}

// Get handles GET /v1/items/:id.
func (h *ItemHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	it, err := h.Items.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "item not found")
		}
		return fail(c, http.StatusInternalServerError, "load item failed")
	}
	return respond(c, http.StatusOK, "ok", toItemResp(it))
}

// MyItems handles GET /v1/users/me/items, the owner's own listings across
// all statuses.
func (h *ItemHandler) MyItems(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	f := repository.BrowseFilter{
		OwnerID: userID,
		Status:  c.QueryParam("status"),
		Page:    utils.ParsePage(c.QueryParam("page"), c.QueryParam("limit")),
	}
	items, total, err := h.Items.Browse(c.Request().Context(), f)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "browse failed")
	}
	return respond(c, http.StatusOK, "ok", echo.Map{
		"items":      toItemResps(items),
		"pagination": pageMeta(f.Page.Page, f.Page.Limit, total),
	})
}

// Update handles PUT /v1/items/:id. Only available items can be edited; the
// point value is recomputed when material or condition change.
func (h *ItemHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	var req itemReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx := c.Request().Context()
	it, err := h.Items.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "item not found")
		}
		return fail(c, http.StatusInternalServerError, "load item failed")
	}
	if err := policy.CanManageItem(userID, getRole(c), it); err != nil {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	if it.Status != model.ItemAvailable {
		return fail(c, http.StatusConflict, "item is not available")
	}

	it.Title = req.Title
	it.Description = req.Description
	it.Category = req.Category
	it.Condition = req.Condition
	it.Size = req.Size
	it.Material = req.Material
	it.PriceEstimateCents = req.PriceEstimateCents
	it.ImageURL = req.ImageURL
	it.EcoPointsValue = eco.Points(req.Material, req.Condition)
	if err := h.Items.Update(ctx, it); err != nil {
		return fail(c, http.StatusInternalServerError, "update item failed")
	}
	return respond(c, http.StatusOK, "item updated", toItemResp(it))
}

// Remove handles DELETE /v1/items/:id as a soft removal so historical
// offers keep a valid reference. Only an available item can be removed.
func (h *ItemHandler) Remove(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	it, err := h.Items.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "item not found")
		}
		return fail(c, http.StatusInternalServerError, "load item failed")
	}
	if err := policy.CanManageItem(userID, getRole(c), it); err != nil {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	if err := h.Items.SetStatusCAS(ctx, id, model.ItemAvailable, model.ItemRemoved); err != nil {
		if err == repository.ErrItemUnavailable {
			return fail(c, http.StatusConflict, "item is not available")
		}
		return fail(c, http.StatusInternalServerError, "remove item failed")
	}
	return respond(c, http.StatusOK, "item removed", nil)
}

// Donate handles POST /v1/items/:id/donate. In one transaction the item
// leaves circulation, a ledger row with no swap reference is appended and
// the owner is credited the item's point value.
func (h *ItemHandler) Donate(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	it, err := h.Items.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "item not found")
		}
		return fail(c, http.StatusInternalServerError, "load item failed")
	}
	if err := policy.CanManageItem(userID, getRole(c), it); err != nil {
		return fail(c, http.StatusForbidden, "forbidden")
	}

	tx, err := h.Items.DB().BeginTx(ctx, nil)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Items.SetStatusCASTx(ctx, tx, []uint64{id}, model.ItemAvailable, model.ItemDonated); err != nil {
		if err == repository.ErrItemUnavailable {
			return fail(c, http.StatusConflict, "item is not available")
		}
		return fail(c, http.StatusInternalServerError, "donate failed")
	}
	impact := eco.ImpactFor(it.Category)
	entry := &model.EcoImpact{
		UserID:           it.OwnerID,
		ItemID:           it.ID,
		PointsAwarded:    it.EcoPointsValue,
		WaterSavedLiters: impact.WaterSavedLiters,
		CO2SavedKg:       impact.CO2SavedKg,
	}
	if err := h.Eco.InsertTx(ctx, tx, entry); err != nil {
		return fail(c, http.StatusInternalServerError, "donate failed")
	}
	if err := h.Users.AddPointsTx(ctx, tx, it.OwnerID, it.EcoPointsValue); err != nil {
		return fail(c, http.StatusInternalServerError, "donate failed")
	}
	if err := tx.Commit(); err != nil {
		return fail(c, http.StatusInternalServerError, "failed to commit transaction")
	}
	committed = true

	awardNewBadges(ctx, h.Eco, h.Badges, h.Notifs, it.OwnerID)
	return respond(c, http.StatusOK, "item donated", echo.Map{
		"item_id":        it.ID,
		"points_awarded": it.EcoPointsValue,
		"water_saved_l":  impact.WaterSavedLiters,
		"co2_saved_kg":   impact.CO2SavedKg,
	})
}
