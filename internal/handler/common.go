// Package handler implements the HTTP endpoints. Handlers assume JWT
// authentication and role checks were already applied by middleware, run
// multi-step writes inside transactions and translate repository sentinel
// errors into HTTP statuses.
package handler

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rewear-hq/rewear/internal/queue"
	"github.com/rewear-hq/rewear/internal/repository"
)

// Every endpoint responds with the same envelope: success flag, a short
// message and an optional data payload.

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "message": message, "data": data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message, "data": nil})
}

// getUserID extracts the authenticated user's ID from the context. JWT
// claims decode numbers as float64, so several representations are
// accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole returns the caller's role claim, empty when unauthenticated.
func getRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

// pathID parses a numeric path parameter, rejecting zero.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// notify stores an in-app notification and publishes the matching broker
// event in the background. Both are best effort: a notification failure is
// logged, never surfaced to the request that triggered it.
func notify(ctx context.Context, repo *repository.NotificationRepo, userID uint64, ntype, message string, ev queue.NotificationEvent) {
	n, err := repo.Insert(ctx, userID, ntype, message)
	if err != nil {
		log.Printf("notify: insert failed for user %d: %v", userID, err)
		return
	}
	ev.NotificationID = n.ID
	ev.UserID = userID
	ev.Type = ntype
	ev.Message = message
	ev.CreatedAt = n.CreatedAt.Format(time.RFC3339)
	go func() { _ = queue.PublishNotification(context.Background(), ev) }()
}

// pageMeta is the standard pagination block attached to list payloads.
func pageMeta(page, limit, total int) echo.Map {
	return echo.Map{"page": page, "limit": limit, "total": total}
}
