// Package router maps HTTP routes onto handlers and applies per-group
// middleware. Public catalog reads go through the Redis response cache,
// auth endpoints through the rate limiter, and everything else requires a
// valid JWT.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rewear-hq/rewear/internal/handler"
	"github.com/rewear-hq/rewear/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication beyond what
// each handler enforces itself. Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints under /v1/auth, rate-limited
// as the platform's brute-force surface, plus the protected /v1/auth/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/v1/auth/me", a.Me, middleware.JWTAuth(jwtSecret))
}
