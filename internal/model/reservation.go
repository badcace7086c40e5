package model

import (
	"strings"
	"time"
)

// Reservation status values.  The status column is the discriminant
// for the open/closed state; LeftAt and CostCents are payload that is
// only populated once the reservation closes.
const (
	ReservationOpen   = "OPEN"   // vehicle is parked, no departure recorded
	ReservationClosed = "CLOSED" // departure recorded and cost charged
)

// Reservation records one vehicle occupying one spot from a start
// time to an end time.  It is created by a successful allocation and
// mutated exactly once, by the release workflow; it is never deleted
// by the reservation core.
//
// Fields:
//  ID            – primary key identifier.
//  SpotID        – spot occupied by the vehicle.
//  UserID        – owner of the reservation (opaque external id).
//  VehicleNumber – normalized uppercase licence plate.
//  Status        – ReservationOpen or ReservationClosed.
//  ParkedAt      – when the vehicle parked.
//  LeftAt        – when the vehicle left (nil while open).
//  CostCents     – final charge in cents (nil while open).
type Reservation struct {
	ID            uint64     // reservations.id
	SpotID        uint64     // reservations.spot_id
	UserID        uint64     // reservations.user_id
	VehicleNumber string     // reservations.vehicle_number
	Status        string     // reservations.status
	ParkedAt      time.Time  // reservations.parked_at
	LeftAt        *time.Time // reservations.left_at (nullable)
	CostCents     *uint32    // reservations.cost_cents (nullable)
}

// IsOpen reports whether the vehicle is still parked.
func (r *Reservation) IsOpen() bool { return r.Status == ReservationOpen }

// IsActive is the legacy boolean exposed in API responses; it is
// derived from the status discriminant rather than stored.
func (r *Reservation) IsActive() bool { return r.IsOpen() }

// NormalizeVehicleNumber trims surrounding whitespace, collapses
// internal runs of spaces and upper-cases the plate so that lookups
// for duplicate active bookings compare like with like.  An empty
// result means the input was not a usable plate.
func NormalizeVehicleNumber(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(strings.Join(fields, " "))
}
