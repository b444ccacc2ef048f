package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/queue"
	"github.com/rewear-hq/rewear/internal/repository"
	"github.com/rewear-hq/rewear/internal/utils"
)

// RewardHandler serves the partner reward catalog and redemptions. The
// redemption debit is a guarded update in the same transaction as the
// redemption record, so a balance can never go negative even under
// concurrent redeems.
type RewardHandler struct {
	Rewards *repository.RewardRepo
	Users   *repository.UserRepo
	Notifs  *repository.NotificationRepo
}

func NewRewardHandler(rewards *repository.RewardRepo, users *repository.UserRepo, notifs *repository.NotificationRepo) *RewardHandler {
	return &RewardHandler{Rewards: rewards, Users: users, Notifs: notifs}
}

// ----- DTOs -----

type rewardResp struct {
	ID          uint64 `json:"id"`
	Partner     string `json:"partner"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CostPoints  int    `json:"cost_points"`
	IsActive    bool   `json:"is_active"`
}

func toRewardResp(r *model.Reward) rewardResp {
	return rewardResp{ID: r.ID, Partner: r.Partner, Title: r.Title, Description: r.Description, CostPoints: r.CostPoints, IsActive: r.IsActive}
}

type redemptionResp struct {
	ID          uint64    `json:"id"`
	RewardID    uint64    `json:"reward_id"`
	PointsSpent int       `json:"points_spent"`
	CreatedAt   time.Time `json:"created_at"`
}

// List handles GET /v1/rewards, the active catalog.
func (h *RewardHandler) List(c echo.Context) error {
	rewards, err := h.Rewards.ListActive(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list rewards failed")
	}
	out := make([]rewardResp, len(rewards))
	for i := range rewards {
		out[i] = toRewardResp(&rewards[i])
	}
	return respond(c, http.StatusOK, "ok", out)
}

// Redeem handles POST /v1/rewards/:id/redeem. The guarded debit and the
// redemption record commit together or not at all.
func (h *RewardHandler) Redeem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	reward, err := h.Rewards.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "reward not found")
		}
		return fail(c, http.StatusInternalServerError, "load reward failed")
	}
	if !reward.IsActive {
		return fail(c, http.StatusConflict, "reward is not active")
	}

	tx, err := h.Rewards.DB().BeginTx(ctx, nil)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to start transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Users.SpendPointsTx(ctx, tx, userID, reward.CostPoints); err != nil {
		if err == repository.ErrInsufficientPoints {
			return fail(c, http.StatusConflict, "insufficient eco points")
		}
		return fail(c, http.StatusInternalServerError, "redeem failed")
	}
	red := &model.RewardRedemption{RewardID: reward.ID, UserID: userID, PointsSpent: reward.CostPoints}
	if err := h.Rewards.InsertRedemptionTx(ctx, tx, red); err != nil {
		return fail(c, http.StatusInternalServerError, "redeem failed")
	}
	if err := tx.Commit(); err != nil {
		return fail(c, http.StatusInternalServerError, "failed to commit transaction")
	}
	committed = true

	notify(ctx, h.Notifs, userID, model.NotifyRewardRedeemed,
		"You redeemed \""+reward.Title+"\" for "+strconv.Itoa(reward.CostPoints)+" points",
		queue.NotificationEvent{RewardID: reward.ID})
	return respond(c, http.StatusOK, "reward redeemed", redemptionResp{
		ID: red.ID, RewardID: red.RewardID, PointsSpent: red.PointsSpent, CreatedAt: red.CreatedAt,
	})
}

// Redemptions handles GET /v1/rewards/redemptions, the caller's history.
func (h *RewardHandler) Redemptions(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	page := utils.ParsePage(c.QueryParam("page"), c.QueryParam("limit"))
	list, total, err := h.Rewards.ListRedemptionsByUser(c.Request().Context(), userID, page)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list redemptions failed")
	}
	out := make([]redemptionResp, len(list))
	for i, red := range list {
		out[i] = redemptionResp{ID: red.ID, RewardID: red.RewardID, PointsSpent: red.PointsSpent, CreatedAt: red.CreatedAt}
	}
	return respond(c, http.StatusOK, "ok", echo.Map{
		"redemptions": out,
		"pagination":  pageMeta(page.Page, page.Limit, total),
	})
}

// ----- admin catalog management -----

type rewardReq struct {
	Partner     string `json:"partner"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CostPoints  int    `json:"cost_points"`
	IsActive    *bool  `json:"is_active"`
}

// CreateReward handles POST /v1/admin/rewards.
func (h *RewardHandler) CreateReward(c echo.Context) error {
	var req rewardReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Partner = strings.TrimSpace(req.Partner)
	req.Title = strings.TrimSpace(req.Title)
	if req.Partner == "" || req.Title == "" {
		return fail(c, http.StatusBadRequest, "partner and title are required")
	}
	if req.CostPoints <= 0 {
		return fail(c, http.StatusBadRequest, "cost_points must be positive")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	rw := &model.Reward{Partner: req.Partner, Title: req.Title, Description: req.Description, CostPoints: req.CostPoints, IsActive: active}
	if err := h.Rewards.Create(c.Request().Context(), rw); err != nil {
		return fail(c, http.StatusInternalServerError, "create reward failed")
	}
	return respond(c, http.StatusCreated, "reward created", toRewardResp(rw))
}

// SetRewardActive handles PUT /v1/admin/rewards/:id/active.
func (h *RewardHandler) SetRewardActive(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if err := h.Rewards.SetActive(c.Request().Context(), id, req.IsActive); err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "reward not found")
		}
		return fail(c, http.StatusInternalServerError, "update reward failed")
	}
	return respond(c, http.StatusOK, "reward updated", nil)
}
