package router // package router wires HTTP routes to handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/handler"
)

// RegisterRoutes registers routes that carry no middleware at all.
// Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints.  The
// optional cache middleware (nil-safe) is applied per route so the
// hot listings are served from Redis while the authenticated surface
// stays uncached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	var mw []echo.MiddlewareFunc
	if cache != nil {
		mw = append(mw, cache)
	}
	e.GET("/v1/cities", p.ListCities, mw...)
	e.GET("/v1/lots", p.ListLots, mw...)
	e.GET("/v1/lots/:id/spots", p.ListLotSpots, mw...)
}
