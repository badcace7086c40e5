package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/handler"
	"github.com/iliyamo/vehicle-parking/internal/middleware"
)

// RegisterDriver registers the endpoints a driver uses to park,
// release and inspect their reservations.  All of them require a
// valid access token with the DRIVER role.
func RegisterDriver(e *echo.Echo, h *handler.DriverHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("DRIVER"))

	g.POST("/lots/:id/park", h.Park)
	g.POST("/reservations/:id/release", h.Release)
	g.GET("/reservations/:id/cost", h.EstimateCost)
	g.GET("/reservations/:id", h.GetReservation)
	g.GET("/my-reservations", h.ListMyReservations)
}
