package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/handler"
	"github.com/iliyamo/vehicle-parking/internal/middleware"
)

// RegisterAdmin registers the management surface of the parking
// network: cities, lots, spot capacity and the reservation audit
// view.  Every route requires the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.POST("/cities", h.CreateCity)
	g.GET("/cities", h.ListCities)

	g.POST("/lots", h.CreateLot)
	g.PUT("/lots/:id", h.UpdateLot)
	g.DELETE("/lots/:id", h.DeleteLot)
	g.POST("/lots/:id/spots", h.AppendSpots)
	g.GET("/lots/:id/spots", h.ListLotSpots)

	g.GET("/reservations", h.ListAllReservations)
}
