package handler

// This file defines the unauthenticated browse API.  Guests can see
// which cities the network covers, the lots with their live
// availability and the per-spot occupancy of a lot, without any
// token.  Responses carry only safe fields.

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/repository"
)

// PublicHandler aggregates the repositories needed for browsing.
type PublicHandler struct {
	CityRepo *repository.CityRepo
	LotRepo  *repository.LotRepo
	SpotRepo *repository.SpotRepo
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(cities *repository.CityRepo, lots *repository.LotRepo, spots *repository.SpotRepo) *PublicHandler {
	if cities == nil || lots == nil || spots == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{CityRepo: cities, LotRepo: lots, SpotRepo: spots}
}

// ListCities handles GET /v1/cities.
func (h *PublicHandler) ListCities(c echo.Context) error {
	cities, err := h.CityRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": cities})
}

// ListLots handles GET /v1/lots.  Every lot is returned with its city
// and live availability counts so a driver can pick a lot before
// authenticating.
func (h *PublicHandler) ListLots(c echo.Context) error {
	lots, err := h.LotRepo.ListDetails(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": lots})
}

type publicSpot struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
}

// ListLotSpots handles GET /v1/lots/:id/spots, the per-spot occupancy
// view of one lot.
func (h *PublicHandler) ListLotSpots(c echo.Context) error {
	lotID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	if _, err := h.LotRepo.GetByID(c.Request().Context(), lotID); err != nil {
		return engineError(c, err)
	}
	spots, err := h.SpotRepo.ListByLot(c.Request().Context(), lotID, "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]publicSpot, 0, len(spots))
	for _, s := range spots {
		out = append(out, publicSpot{ID: s.ID, Status: s.StatusLabel()})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
