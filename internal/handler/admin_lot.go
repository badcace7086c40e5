package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/model"
	"github.com/iliyamo/vehicle-parking/internal/repository"
)

type lotRequest struct {
	CityID            uint64 `json:"city_id"`
	LocationName      string `json:"location_name"`
	Address           string `json:"address"`
	PinCode           string `json:"pin_code"`
	PricePerHourCents uint32 `json:"price_per_hour_cents"`
	MaxSpots          uint32 `json:"max_spots"`
}

func (b *lotRequest) validate() string {
	b.LocationName = strings.TrimSpace(b.LocationName)
	b.Address = strings.TrimSpace(b.Address)
	b.PinCode = strings.TrimSpace(b.PinCode)
	switch {
	case b.CityID == 0:
		return "city_id is required"
	case b.LocationName == "":
		return "location_name is required"
	case b.PricePerHourCents == 0:
		return "price_per_hour_cents must be positive"
	case b.MaxSpots == 0:
		return "max_spots must be positive"
	}
	return ""
}

// CreateLot handles POST /v1/admin/lots.  Creating a lot provisions
// max_spots Available spots in the same transaction, so a new lot is
// immediately usable by drivers.
func (h *AdminHandler) CreateLot(c echo.Context) error {
	var body lotRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if _, err := h.CityRepo.GetByID(c.Request().Context(), body.CityID); err != nil {
		if errors.Is(err, repository.ErrCityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "city not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	lot := &model.ParkingLot{
		CityID:            body.CityID,
		LocationName:      body.LocationName,
		Address:           body.Address,
		PinCode:           body.PinCode,
		PricePerHourCents: body.PricePerHourCents,
		MaxSpots:          body.MaxSpots,
	}
	if err := h.LotRepo.CreateWithSpots(c.Request().Context(), lot, body.MaxSpots); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, lot)
}

// UpdateLot handles PUT /v1/admin/lots/:id.  Existing spots are not
// resized here; capacity grows through AppendSpots.
func (h *AdminHandler) UpdateLot(c echo.Context) error {
	lotID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	var body lotRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if _, err := h.CityRepo.GetByID(c.Request().Context(), body.CityID); err != nil {
		if errors.Is(err, repository.ErrCityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "city not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	lot := &model.ParkingLot{
		ID:                lotID,
		CityID:            body.CityID,
		LocationName:      body.LocationName,
		Address:           body.Address,
		PinCode:           body.PinCode,
		PricePerHourCents: body.PricePerHourCents,
		MaxSpots:          body.MaxSpots,
	}
	if err := h.LotRepo.Update(c.Request().Context(), lot); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, lot)
}

// DeleteLot handles DELETE /v1/admin/lots/:id.  The engine re-checks
// the active-reservation guard inside the delete transaction, so a
// 409 here is authoritative no matter what a prior advisory check
// said.
func (h *AdminHandler) DeleteLot(c echo.Context) error {
	lotID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	if err := h.Engine.DeleteLot(c.Request().Context(), lotID); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type appendSpotsRequest struct {
	Count uint32 `json:"count"`
}

// AppendSpots handles POST /v1/admin/lots/:id/spots, growing a lot by
// count Available spots.
func (h *AdminHandler) AppendSpots(c echo.Context) error {
	lotID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	var body appendSpotsRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Count == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "count must be positive"})
	}
	if err := h.SpotRepo.AppendSpots(c.Request().Context(), lotID, body.Count); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"lot_id": lotID, "added": body.Count})
}

type adminSpot struct {
	ID     uint64 `json:"id"`
	LotID  uint64 `json:"lot_id"`
	Status string `json:"status"`
}

// ListLotSpots handles GET /v1/admin/lots/:id/spots.  The optional
// ?filter=available|occupied query narrows the listing.
func (h *AdminHandler) ListLotSpots(c echo.Context) error {
	lotID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	if _, err := h.LotRepo.GetByID(c.Request().Context(), lotID); err != nil {
		return engineError(c, err)
	}
	spots, err := h.SpotRepo.ListByLot(c.Request().Context(), lotID, strings.ToLower(c.QueryParam("filter")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]adminSpot, 0, len(spots))
	for _, s := range spots {
		out = append(out, adminSpot{ID: s.ID, LotID: s.LotID, Status: s.StatusLabel()})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
