package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/engine"
	"github.com/iliyamo/vehicle-parking/internal/model"
	"github.com/iliyamo/vehicle-parking/internal/pricing"
	"github.com/iliyamo/vehicle-parking/internal/queue"
	"github.com/iliyamo/vehicle-parking/internal/repository"
	queue_publisher "github.com/iliyamo/vehicle-parking/internal/service"
)

// DriverHandler serves the endpoints a parked (or parking) driver
// uses: claiming a spot, releasing it, checking the running cost and
// browsing their own reservation history.  The lifecycle itself lives
// in the engine; this layer only translates HTTP to engine calls and
// engine errors to status codes.
type DriverHandler struct {
	Engine          *engine.Engine
	ReservationRepo *repository.ReservationRepo
}

// NewDriverHandler constructs a DriverHandler.  Both dependencies
// must be non-nil.
func NewDriverHandler(eng *engine.Engine, reservations *repository.ReservationRepo) *DriverHandler {
	if eng == nil || reservations == nil {
		panic("nil dependency passed to NewDriverHandler")
	}
	return &DriverHandler{Engine: eng, ReservationRepo: reservations}
}

type parkRequest struct {
	VehicleNumber string `json:"vehicle_number"`
}

type reservationResponse struct {
	ID            uint64  `json:"id"`
	SpotID        uint64  `json:"spot_id"`
	VehicleNumber string  `json:"vehicle_number"`
	Status        string  `json:"status"`
	ParkedAt      string  `json:"parked_at"`
	LeftAt        *string `json:"left_at,omitempty"`
	CostCents     *uint32 `json:"cost_cents,omitempty"`
}

func toReservationResponse(r *model.Reservation) reservationResponse {
	out := reservationResponse{
		ID:            r.ID,
		SpotID:        r.SpotID,
		VehicleNumber: r.VehicleNumber,
		Status:        r.Status,
		ParkedAt:      r.ParkedAt.UTC().Format(time.RFC3339),
	}
	if r.LeftAt != nil {
		v := r.LeftAt.UTC().Format(time.RFC3339)
		out.LeftAt = &v
	}
	if r.CostCents != nil {
		out.CostCents = r.CostCents
	}
	return out
}

// Park handles POST /v1/lots/:id/park.  The body carries the vehicle
// number; the engine picks the spot.  Responds 201 with the opened
// reservation, 409 when the lot is full or the vehicle already parks
// there, 404 for an unknown lot.
func (h *DriverHandler) Park(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	lotID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	var body parkRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	r, err := h.Engine.Park(c.Request().Context(), lotID, userID, body.VehicleNumber)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

// Release handles POST /v1/reservations/:id/release.  On success the
// closed reservation with its final cost is returned and a
// ReservationClosedEvent is published in the background; the request
// never waits on the broker.
func (h *DriverHandler) Release(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	r, err := h.Engine.Release(c.Request().Context(), resID, userID)
	if err != nil {
		return engineError(c, err)
	}

	go h.publishClosed(r)

	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// publishClosed builds the closed event from the joined reservation
// view and hands it to the broker.  Failures are logged only; the
// release already committed.
func (h *DriverHandler) publishClosed(r *model.Reservation) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.ReservationClosedEvent{
		ReservationID: r.ID,
		UserID:        r.UserID,
		SpotID:        r.SpotID,
		VehicleNumber: r.VehicleNumber,
		ParkedAt:      r.ParkedAt.UTC().Format(time.RFC3339),
		ClosedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if r.LeftAt != nil {
		ev.LeftAt = r.LeftAt.UTC().Format(time.RFC3339)
		if m, err := pricing.Minutes(r.ParkedAt, *r.LeftAt); err == nil {
			ev.DurationMinutes = m
		}
	}
	if r.CostCents != nil {
		ev.CostCents = *r.CostCents
	}
	// The lot name comes from the joined detail view; the reservation
	// row alone only knows the spot.
	if d, err := h.ReservationRepo.DetailByID(ctx, r.ID); err == nil {
		if d.LotID != nil {
			ev.LotID = *d.LotID
		}
		if d.LotName != nil {
			ev.LotName = *d.LotName
		}
	}
	if err := queue_publisher.PublishReservationClosed(ctx, ev); err != nil {
		log.Printf("publish reservation.closed for %d failed: %v", r.ID, err)
	}
}

// EstimateCost handles GET /v1/reservations/:id/cost.  For an open
// reservation it returns the charge as of now; for a closed one the
// recorded final cost.
func (h *DriverHandler) EstimateCost(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	cost, err := h.Engine.Estimate(c.Request().Context(), resID, userID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation_id": resID, "cost_cents": cost})
}

// GetReservation handles GET /v1/reservations/:id, returning the
// joined detail view of one reservation the user owns.
func (h *DriverHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	d, err := h.ReservationRepo.DetailByID(c.Request().Context(), resID)
	if err != nil {
		return engineError(c, err)
	}
	if d.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, d)
}

// ListMyReservations handles GET /v1/my-reservations.  Open
// reservations come first so the active parking session tops the
// list.
func (h *DriverHandler) ListMyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.ReservationRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
