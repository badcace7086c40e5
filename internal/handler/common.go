// Package handler exposes the HTTP layer of the parking API.  Driver
// endpoints call into the reservation engine; admin and public
// endpoints mostly read and write through the repositories directly.
// JWT authentication and role checks are applied by middleware before
// any handler here runs.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/engine"
)

// getUserID extracts the user_id stored in the context by the JWT
// middleware and converts it to uint64.  The claim arrives as
// whatever type encoding/json produced, so several shapes are
// accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id (or other named) path parameter as a positive
// integer.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// engineError maps engine sentinels onto an HTTP response.  Unknown
// errors become an opaque 500 so internal details never leak to
// clients.
func engineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidVehicle):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrLotNotFound),
		errors.Is(err, engine.ErrSpotNotFound),
		errors.Is(err, engine.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, engine.ErrDuplicateBooking),
		errors.Is(err, engine.ErrNoAvailableSpot),
		errors.Is(err, engine.ErrAlreadyClosed),
		errors.Is(err, engine.ErrHasActiveReservations):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
