package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListAllReservations handles GET /v1/admin/reservations, the
// oversight view across every user and lot.  Closed reservations
// whose lot has since been deleted still appear, with null lot
// fields.
func (h *AdminHandler) ListAllReservations(c echo.Context) error {
	items, err := h.ReservationRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
