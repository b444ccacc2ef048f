package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rewear-hq/rewear/internal/handler"
	"github.com/rewear-hq/rewear/internal/middleware"
)

// RegisterSwaps registers the offer and swap lifecycle endpoints. All of
// them require a JWT; party checks happen in the handlers via the policy
// package.
func RegisterSwaps(e *echo.Echo, offers *handler.OfferHandler, swaps *handler.SwapHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	g.POST("/offers", offers.Create)
	g.GET("/offers", offers.List)
	g.GET("/offers/:id", offers.Get)
	g.POST("/offers/:id/accept", offers.Accept)
	g.POST("/offers/:id/reject", offers.Reject)
	g.POST("/offers/:id/cancel", offers.Cancel)
	g.POST("/offers/:id/counter", offers.Counter)

	g.GET("/swaps", swaps.List)
	g.GET("/swaps/:id", swaps.Get)
	g.POST("/swaps/:id/complete", swaps.Complete)
	g.POST("/swaps/:id/cancel", swaps.Cancel)
}
