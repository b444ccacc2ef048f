package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rewear-hq/rewear/internal/handler"
	"github.com/rewear-hq/rewear/internal/middleware"
	"github.com/rewear-hq/rewear/internal/model"
)

// RegisterEngagement registers profile stats, badges, notifications and
// rewards. The badge catalog and active reward list are public; the rest is
// per-user and needs a JWT.
func RegisterEngagement(e *echo.Echo, profile *handler.ProfileHandler, notifs *handler.NotificationHandler, rewards *handler.RewardHandler, jwtSecret string) {
	e.GET("/v1/badges", profile.BadgeCatalog)
	e.GET("/v1/rewards", rewards.List)

	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.GET("/users/me/stats", profile.Stats)
	g.GET("/users/me/badges", profile.MyBadges)
	g.GET("/users/me/eco-history", profile.EcoHistory)

	g.GET("/notifications", notifs.List)
	g.POST("/notifications/:id/read", notifs.MarkRead)
	g.POST("/notifications/read-all", notifs.MarkAllRead)

	g.POST("/rewards/:id/redeem", rewards.Redeem)
	g.GET("/rewards/redemptions", rewards.Redemptions)
}

// RegisterAdmin registers the maintenance endpoints, limited to the ADMIN
// role: reward catalog management and the read-notification purge.
func RegisterAdmin(e *echo.Echo, rewards *handler.RewardHandler, notifs *handler.NotificationHandler, jwtSecret string) {
	g := e.Group("/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.POST("/rewards", rewards.CreateReward)
	g.PUT("/rewards/:id/active", rewards.SetRewardActive)
	g.DELETE("/notifications", notifs.PurgeRead)
}
