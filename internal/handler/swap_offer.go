package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/policy"
	"github.com/rewear-hq/rewear/internal/queue"
	"github.com/rewear-hq/rewear/internal/repository"
	"github.com/rewear-hq/rewear/internal/utils"
)

// OfferHandler bundles dependencies for the swap-offer lifecycle. Accepting
// an offer is the only place a swap is created, inside one transaction with
// the guarded item flips.
type OfferHandler struct {
	Offers *repository.OfferRepo
	Items  *repository.ItemRepo
	Swaps  *repository.SwapRepo
	Notifs *repository.NotificationRepo
}

func NewOfferHandler(offers *repository.OfferRepo, items *repository.ItemRepo, swaps *repository.SwapRepo, notifs *repository.NotificationRepo) *OfferHandler {
	return &OfferHandler{Offers: offers, Items: items, Swaps: swaps, Notifs: notifs}
}

// ----- DTOs -----

type offerReq struct {
	RequestedItemID uint64   `json:"requested_item_id"`
	OfferedItemIDs  []uint64 `json:"offered_item_ids"`
	Message         string   `json:"message"`
}

type offerResp struct {
	ID                uint64    `json:"id"`
	FromUserID        uint64    `json:"from_user_id"`
	ToUserID          uint64    `json:"to_user_id"`
	RequestedItemID   uint64    `json:"requested_item_id"`
	OfferedItemIDs    []uint64  `json:"offered_item_ids"`
	Status            string    `json:"status"`
	Message           string    `json:"message"`
	SupersedesOfferID *uint64   `json:"supersedes_offer_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toOfferResp(o *model.SwapOffer) offerResp {
	return offerResp{
		ID: o.ID, FromUserID: o.FromUserID, ToUserID: o.ToUserID,
		RequestedItemID: o.RequestedItemID, OfferedItemIDs: o.OfferedItemIDs,
		Status: o.Status, Message: o.Message, SupersedesOfferID: o.SupersedesOfferID,
		CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt,
	}
}

// offerErrReply maps the offer-validation sentinels onto HTTP responses.
func offerErrReply(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrSelfOffer),
		errors.Is(err, repository.ErrNoOfferedItems),
		errors.Is(err, repository.ErrWrongOwner):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrItemUnavailable),
		errors.Is(err, repository.ErrDuplicatePending):
		return fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusConflict, "offer is not pending")
	}
	return fail(c, http.StatusInternalServerError, "operation failed")
}

func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// Create handles POST /v1/offers. The recipient is derived from the
// requested item's owner; all preconditions are enforced inside the
// creation transaction.
func (h *OfferHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var req offerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.RequestedItemID == 0 {
		return fail(c, http.StatusBadRequest, "requested_item_id is required")
	}
	req.OfferedItemIDs = dedupe(req.OfferedItemIDs)
	if len(req.OfferedItemIDs) == 0 {
		return fail(c, http.StatusBadRequest, "offered_item_ids is required")
	}

	ctx := c.Request().Context()
	requested, err := h.Items.GetByID(ctx, req.RequestedItemID)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "requested item not found")
		}
		return fail(c, http.StatusInternalServerError, "load item failed")
	}

	offer := &model.SwapOffer{
		FromUserID:      userID,
		ToUserID:        requested.OwnerID,
		RequestedItemID: req.RequestedItemID,
		Message:         req.Message,
		OfferedItemIDs:  req.OfferedItemIDs,
	}
	if err := h.Offers.Create(ctx, offer); err != nil {
		return offerErrReply(c, err)
	}

	notify(ctx, h.Notifs, offer.ToUserID, model.NotifySwapOffer,
		"You received a swap offer for \""+requested.Title+"\"",
		queue.NotificationEvent{OfferID: offer.ID})
	return respond(c, http.StatusCreated, "offer created", toOfferResp(offer))
}

// List handles GET /v1/offers with an optional box=incoming|outgoing
// filter.
func (h *OfferHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	box := c.QueryParam("box")
	if box != "" && box != "incoming" && box != "outgoing" {
		return fail(c, http.StatusBadRequest, "box must be incoming or outgoing")
	}
	page := utils.ParsePage(c.QueryParam("page"), c.QueryParam("limit"))
	offers, total, err := h.Offers.ListForUser(c.Request().Context(), userID, box, page)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list offers failed")
	}
	out := make([]offerResp, len(offers))
	for i := range offers {
		out[i] = toOfferResp(&offers[i])
	}
	return respond(c, http.StatusOK, "ok", echo.Map{
		"offers":     out,
		"pagination": pageMeta(page.Page, page.Limit, total),
	})
}

// Get handles GET /v1/offers/:id, visible to the two parties and admins.
func (h *OfferHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	offer, err := h.Offers.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "offer not found")
		}
		return fail(c, http.StatusInternalServerError, "load offer failed")
	}
	if err := policy.CanViewOffer(userID, getRole(c), offer); err != nil {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	return respond(c, http.StatusOK, "ok", toOfferResp(offer))
}

// Accept handles POST /v1/offers/:id/accept. In a single transaction the
// offer leaves pending, every involved item flips available→swapped under
// a guard, and the swap is created in_progress. Any stale read fails the
// whole transaction, so two recipients can never allocate the same item.
func (h *OfferHandler) Accept(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	offer, err := h.Offers.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "offer not found")
		}
		return fail(c, http.StatusInternalServerError, "load offer failed")
	}
	if err := policy.CanRespondToOffer(userID, offer); err != nil {
		return fail(c, http.StatusForbidden, "forbidden")
	}

	tx, err := h.Offers.DB().BeginTx(ctx, nil)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Offers.CASStatusTx(ctx, tx, id, model.OfferPending, model.OfferAccepted); err != nil {
		if err == repository.ErrConflict {
			return fail(c, http.StatusConflict, "offer is not pending")
		}
		return fail(c, http.StatusInternalServerError, "accept failed")
	}
	allItems := append(append([]uint64{}, offer.OfferedItemIDs...), offer.RequestedItemID)
	if err := h.Items.SetStatusCASTx(ctx, tx, allItems, model.ItemAvailable, model.ItemSwapped); err != nil {
		if err == repository.ErrItemUnavailable {
			return fail(c, http.StatusConflict, "an item in this offer is no longer available")
		}
		return fail(c, http.StatusInternalServerError, "accept failed")
	}
	swap := &model.Swap{
		OfferID:     offer.ID,
		Reference:   uuid.NewString(),
		FromUserID:  offer.FromUserID,
		ToUserID:    offer.ToUserID,
		FromItemIDs: offer.OfferedItemIDs,
		ToItemID:    offer.RequestedItemID,
	}
	if err := h.Swaps.CreateTx(ctx, tx, swap); err != nil {
		return fail(c, http.StatusInternalServerError, "accept failed")
	}
	if err := tx.Commit(); err != nil {
		return fail(c, http.StatusInternalServerError, "failed to commit transaction")
	}
	committed = true

	notify(ctx, h.Notifs, offer.FromUserID, model.NotifySwapResponse,
		"Your swap offer was accepted",
		queue.NotificationEvent{OfferID: offer.ID, SwapID: swap.ID})
	return respond(c, http.StatusOK, "offer accepted", toSwapResp(swap))
}

// Reject handles POST /v1/offers/:id/reject.
func (h *OfferHandler) Reject(c echo.Context) error {
	return h.respondToOffer(c, model.OfferRejected)
}

// Cancel handles POST /v1/offers/:id/cancel, available to the sender.
func (h *OfferHandler) Cancel(c echo.Context) error {
	return h.respondToOffer(c, model.OfferCancelled)
}

// respondToOffer covers the two single-row terminal transitions. Reject is
// the recipient's move, cancel the sender's; both require pending.
func (h *OfferHandler) respondToOffer(c echo.Context, to string) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	offer, err := h.Offers.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "offer not found")
		}
		return fail(c, http.StatusInternalServerError, "load offer failed")
	}
	if to == model.OfferCancelled {
		err = policy.CanCancelOffer(userID, offer)
	} else {
		err = policy.CanRespondToOffer(userID, offer)
	}
	if err != nil {
		return fail(c, http.StatusForbidden, "forbidden")
	}

	if err := h.Offers.CASStatus(ctx, id, model.OfferPending, to); err != nil {
		if err == repository.ErrConflict {
			return fail(c, http.StatusConflict, "offer is not pending")
		}
		return fail(c, http.StatusInternalServerError, "update offer failed")
	}

	if to == model.OfferRejected {
		notify(ctx, h.Notifs, offer.FromUserID, model.NotifySwapResponse,
			"Your swap offer was rejected",
			queue.NotificationEvent{OfferID: offer.ID})
	} else {
		notify(ctx, h.Notifs, offer.ToUserID, model.NotifySwapResponse,
			"A swap offer for your item was withdrawn",
			queue.NotificationEvent{OfferID: offer.ID})
	}
	return respond(c, http.StatusOK, "offer "+to, nil)
}

// Counter handles POST /v1/offers/:id/counter. The original offer closes as
// countered and a fresh pending offer opens in the opposite direction,
// linked through supersedes_offer_id, all in one transaction. The counter
// names the items the recipient now offers and the sender's item they want
// in return.
func (h *OfferHandler) Counter(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	var req offerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.RequestedItemID == 0 {
		return fail(c, http.StatusBadRequest, "requested_item_id is required")
	}
	req.OfferedItemIDs = dedupe(req.OfferedItemIDs)
	if len(req.OfferedItemIDs) == 0 {
		return fail(c, http.StatusBadRequest, "offered_item_ids is required")
	}

	ctx := c.Request().Context()
	original, err := h.Offers.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "offer not found")
		}
		return fail(c, http.StatusInternalServerError, "load offer failed")
	}
	if err := policy.CanRespondToOffer(userID, original); err != nil {
		return fail(c, http.StatusForbidden, "forbidden")
	}

	replacement := &model.SwapOffer{
		FromUserID:      original.ToUserID,
		ToUserID:        original.FromUserID,
		RequestedItemID: req.RequestedItemID,
		Message:         req.Message,
		OfferedItemIDs:  req.OfferedItemIDs,
	}
	if err := h.Offers.Counter(ctx, id, replacement); err != nil {
		return offerErrReply(c, err)
	}

	notify(ctx, h.Notifs, replacement.ToUserID, model.NotifySwapOffer,
		"Your swap offer was countered",
		queue.NotificationEvent{OfferID: replacement.ID})
	return respond(c, http.StatusCreated, "counter offer created", toOfferResp(replacement))
}
