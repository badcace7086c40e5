package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/engine"
	"github.com/iliyamo/vehicle-parking/internal/model"
	"github.com/iliyamo/vehicle-parking/internal/repository"
)

// AdminHandler bundles the dependencies the network operators use to
// manage cities, lots and spots and to audit reservations.  Lot
// deletion goes through the engine so the active-reservation guard is
// enforced inside the delete transaction.
type AdminHandler struct {
	CityRepo        *repository.CityRepo
	LotRepo         *repository.LotRepo
	SpotRepo        *repository.SpotRepo
	ReservationRepo *repository.ReservationRepo
	Engine          *engine.Engine
}

// NewAdminHandler constructs an AdminHandler and panics if any
// dependency is nil.
func NewAdminHandler(cities *repository.CityRepo, lots *repository.LotRepo, spots *repository.SpotRepo, reservations *repository.ReservationRepo, eng *engine.Engine) *AdminHandler {
	if cities == nil || lots == nil || spots == nil || reservations == nil || eng == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{
		CityRepo:        cities,
		LotRepo:         lots,
		SpotRepo:        spots,
		ReservationRepo: reservations,
		Engine:          eng,
	}
}

type cityRequest struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// CreateCity handles POST /v1/admin/cities.
func (h *AdminHandler) CreateCity(c echo.Context) error {
	var body cityRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	state := strings.TrimSpace(body.State)
	if name == "" || state == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and state are required"})
	}
	city := &model.City{Name: name, State: state}
	if err := h.CityRepo.Create(c.Request().Context(), city); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, city)
}

// ListCities handles GET /v1/admin/cities.
func (h *AdminHandler) ListCities(c echo.Context) error {
	cities, err := h.CityRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": cities})
}
