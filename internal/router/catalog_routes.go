package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rewear-hq/rewear/internal/handler"
	"github.com/rewear-hq/rewear/internal/middleware"
)

// RegisterCatalog registers the item endpoints. Browsing and item detail
// are public and served through the response cache; everything that writes
// requires a JWT.
func RegisterCatalog(e *echo.Echo, h *handler.ItemHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	e.GET("/v1/items", h.Browse, cache)
	e.GET("/v1/items/:id", h.Get, cache)

	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.POST("/items", h.Create)
	g.PUT("/items/:id", h.Update)
	g.DELETE("/items/:id", h.Remove)
	g.POST("/items/:id/donate", h.Donate)
	g.GET("/users/me/items", h.MyItems)
}
