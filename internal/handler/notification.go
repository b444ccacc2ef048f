package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rewear-hq/rewear/internal/model"
	"github.com/rewear-hq/rewear/internal/repository"
	"github.com/rewear-hq/rewear/internal/utils"
)

// NotificationHandler serves a user's in-app notification feed.
type NotificationHandler struct {
	Notifs *repository.NotificationRepo
}

func NewNotificationHandler(notifs *repository.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{Notifs: notifs}
}

type notificationResp struct {
	ID        uint64    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationResp(n *model.Notification) notificationResp {
	return notificationResp{ID: n.ID, Type: n.Type, Message: n.Message, IsRead: n.IsRead, CreatedAt: n.CreatedAt}
}

// List handles GET /v1/notifications; unread=true narrows to unread ones.
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	unreadOnly := c.QueryParam("unread") == "true"
	page := utils.ParsePage(c.QueryParam("page"), c.QueryParam("limit"))

	ctx := c.Request().Context()
	list, total, err := h.Notifs.ListByUser(ctx, userID, unreadOnly, page)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list notifications failed")
	}
	unread, err := h.Notifs.UnreadCount(ctx, userID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list notifications failed")
	}
	out := make([]notificationResp, len(list))
	for i := range list {
		out[i] = toNotificationResp(&list[i])
	}
	return respond(c, http.StatusOK, "ok", echo.Map{
		"notifications": out,
		"unread_count":  unread,
		"pagination":    pageMeta(page.Page, page.Limit, total),
	})
}

// MarkRead handles POST /v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if err := h.Notifs.MarkRead(c.Request().Context(), userID, id); err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "notification not found")
		}
		return fail(c, http.StatusInternalServerError, "mark read failed")
	}
	return respond(c, http.StatusOK, "notification read", nil)
}

// defaultRetentionDays is how far back read notifications are kept when the
// purge is invoked without an explicit window.
const defaultRetentionDays = 30

// PurgeRead handles DELETE /v1/admin/notifications. Read notifications
// created before the retention window are deleted; unread ones are kept
// regardless of age. Admin-only maintenance action.
func (h *NotificationHandler) PurgeRead(c echo.Context) error {
	days := defaultRetentionDays
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return fail(c, http.StatusBadRequest, "days must be a non-negative integer")
		}
		days = n
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	purged, err := h.Notifs.PurgeOlderThan(c.Request().Context(), cutoff)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "purge failed")
	}
	return respond(c, http.StatusOK, "notifications purged", echo.Map{"purged": purged})
}

// MarkAllRead handles POST /v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	n, err := h.Notifs.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "mark all read failed")
	}
	return respond(c, http.StatusOK, "notifications read", echo.Map{"marked": n})
}
