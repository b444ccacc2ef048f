package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rewear-hq/rewear/internal/eco"
	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/policy"
	"github.com/rewear-hq/rewear/internal/queue"
	"github.com/rewear-hq/rewear/internal/repository"
	"github.com/rewear-hq/rewear/internal/utils"
)

// SwapHandler bundles dependencies for swap settlement. Completion is the
// only place eco points are awarded for exchanges, inside one transaction
// with the compare-and-set status flip that makes double awards impossible.
type SwapHandler struct {
	Swaps  *repository.SwapRepo
	Items  *repository.ItemRepo
	Users  *repository.UserRepo
	Eco    *repository.EcoRepo
	Badges *repository.BadgeRepo
	Notifs *repository.NotificationRepo
}

func NewSwapHandler(swaps *repository.SwapRepo, items *repository.ItemRepo, users *repository.UserRepo, ecoRepo *repository.EcoRepo, badges *repository.BadgeRepo, notifs *repository.NotificationRepo) *SwapHandler {
	return &SwapHandler{Swaps: swaps, Items: items, Users: users, Eco: ecoRepo, Badges: badges, Notifs: notifs}
}

// ----- DTOs -----

type swapResp struct {
	ID          uint64     `json:"id"`
	OfferID     uint64     `json:"offer_id"`
	Reference   string     `json:"reference"`
	FromUserID  uint64     `json:"from_user_id"`
	ToUserID    uint64     `json:"to_user_id"`
	FromItemIDs []uint64   `json:"from_item_ids"`
	ToItemID    uint64     `json:"to_item_id"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toSwapResp(s *model.Swap) swapResp {
	return swapResp{
		ID: s.ID, OfferID: s.OfferID, Reference: s.Reference,
		FromUserID: s.FromUserID, ToUserID: s.ToUserID,
		FromItemIDs: s.FromItemIDs, ToItemID: s.ToItemID,
		Status: s.Status, CompletedAt: s.CompletedAt,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

// List handles GET /v1/swaps with an optional status filter.
func (h *SwapHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	page := utils.ParsePage(c.QueryParam("page"), c.QueryParam("limit"))
	swaps, total, err := h.Swaps.ListForUser(c.Request().Context(), userID, c.QueryParam("status"), page)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list swaps failed")
	}
	out := make([]swapResp, len(swaps))
	for i := range swaps {
		out[i] = toSwapResp(&swaps[i])
	}
	return respond(c, http.StatusOK, "ok", echo.Map{
		"swaps":      out,
		"pagination": pageMeta(page.Page, page.Limit, total),
	})
}

// Get handles GET /v1/swaps/:id, visible to the two parties and admins.
func (h *SwapHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	swap, err := h.Swaps.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "swap not found")
		}
		return fail(c, http.StatusInternalServerError, "load swap failed")
	}
	if err := policy.CanViewSwap(userID, getRole(c), swap); err != nil {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	return respond(c, http.StatusOK, "ok", toSwapResp(swap))
}

// Complete handles POST /v1/swaps/:id/complete. One transaction flips the
// swap to completed, appends a ledger row per item crediting its giver and
// adds the point totals to both balances. The guarded flip means a retry or
// a race loses cleanly with 409 and no second award.
func (h *SwapHandler) Complete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	swap, err := h.Swaps.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "swap not found")
		}
		return fail(c, http.StatusInternalServerError, "load swap failed")
	}
	if err := policy.CanSettleSwap(userID, swap); err != nil {
		return fail(c, http.StatusForbidden, "forbidden")
	}

	tx, err := h.Swaps.DB().BeginTx(ctx, nil)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	completedAt := time.Now().UTC()
	if err := h.Swaps.CompleteCASTx(ctx, tx, id, completedAt); err != nil {
		if err == repository.ErrConflict {
			return fail(c, http.StatusConflict, "swap is not in progress")
		}
		return fail(c, http.StatusInternalServerError, "complete failed")
	}

	// Each item credits the user who gave it away.
	givers := make(map[uint64]uint64, len(swap.FromItemIDs)+1)
	for _, itemID := range swap.FromItemIDs {
		givers[itemID] = swap.FromUserID
	}
	givers[swap.ToItemID] = swap.ToUserID

	totals := map[uint64]int{}
	for itemID, giverID := range givers {
		it, err := h.Items.GetByIDTx(ctx, tx, itemID)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "complete failed")
		}
		impact := eco.ImpactFor(it.Category)
		swapID := swap.ID
		entry := &model.EcoImpact{
			UserID:           giverID,
			SwapID:           &swapID,
			ItemID:           itemID,
			PointsAwarded:    it.EcoPointsValue,
			WaterSavedLiters: impact.WaterSavedLiters,
			CO2SavedKg:       impact.CO2SavedKg,
		}
		if err := h.Eco.InsertTx(ctx, tx, entry); err != nil {
			return fail(c, http.StatusInternalServerError, "complete failed")
		}
		totals[giverID] += it.EcoPointsValue
	}
	for uid, points := range totals {
		if points == 0 {
			continue
		}
		if err := h.Users.AddPointsTx(ctx, tx, uid, points); err != nil {
			return fail(c, http.StatusInternalServerError, "complete failed")
		}
	}
	if err := tx.Commit(); err != nil {
		return fail(c, http.StatusInternalServerError, "failed to commit transaction")
	}
	committed = true

	for _, uid := range []uint64{swap.FromUserID, swap.ToUserID} {
		awardNewBadges(ctx, h.Eco, h.Badges, h.Notifs, uid)
		notify(ctx, h.Notifs, uid, model.NotifySwapCompleted,
			"Swap "+swap.Reference+" completed",
			queue.NotificationEvent{SwapID: swap.ID})
	}

	swap.Status = model.SwapCompleted
	swap.CompletedAt = &completedAt
	return respond(c, http.StatusOK, "swap completed", echo.Map{
		"swap":           toSwapResp(swap),
		"points_awarded": totals,
	})
}

// Cancel handles POST /v1/swaps/:id/cancel. The swap flips to cancelled and
// every involved item returns to circulation; no points or ledger rows are
// ever produced by a cancelled swap.
func (h *SwapHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	swap, err := h.Swaps.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "swap not found")
		}
		return fail(c, http.StatusInternalServerError, "load swap failed")
	}
	if err := policy.CanSettleSwap(userID, swap); err != nil {
		return fail(c, http.StatusForbidden, "forbidden")
	}

	tx, err := h.Swaps.DB().BeginTx(ctx, nil)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Swaps.CancelCASTx(ctx, tx, id); err != nil {
		if err == repository.ErrConflict {
			return fail(c, http.StatusConflict, "swap is not in progress")
		}
		return fail(c, http.StatusInternalServerError, "cancel failed")
	}
	allItems := append(append([]uint64{}, swap.FromItemIDs...), swap.ToItemID)
	if err := h.Items.RestoreStatusTx(ctx, tx, allItems, model.ItemAvailable); err != nil {
		return fail(c, http.StatusInternalServerError, "cancel failed")
	}
	if err := tx.Commit(); err != nil {
		return fail(c, http.StatusInternalServerError, "failed to commit transaction")
	}
	committed = true

	other := swap.FromUserID
	if userID == swap.FromUserID {
		other = swap.ToUserID
	}
	notify(ctx, h.Notifs, other, model.NotifySwapResponse,
		"Swap "+swap.Reference+" was cancelled",
		queue.NotificationEvent{SwapID: swap.ID})
	return respond(c, http.StatusOK, "swap cancelled", nil)
}
