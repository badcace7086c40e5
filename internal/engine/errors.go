// Package engine implements the spot allocation and reservation
// lifecycle core: the park and release workflows, the running cost
// estimate and the lot deletion guard.  Handlers call into this
// package; persistence is reached through the Store interface so the
// same workflows run against MySQL in production and an in-memory
// store in tests.
package engine

import "errors"

// Sentinel errors returned by the engine.  Handlers translate these
// into HTTP status codes with errors.Is; all of them are recoverable
// by the caller except ErrCorruptState, which indicates a violated
// spot/open-reservation bijection and is logged loudly at the point
// of detection.
var (
	// ErrInvalidVehicle is returned when the vehicle number is empty
	// after normalization.
	ErrInvalidVehicle = errors.New("vehicle number is required")

	// ErrLotNotFound is returned when the referenced parking lot does
	// not exist.
	ErrLotNotFound = errors.New("parking lot not found")

	// ErrSpotNotFound is returned when the referenced parking spot
	// does not exist.
	ErrSpotNotFound = errors.New("parking spot not found")

	// ErrReservationNotFound is returned when the referenced
	// reservation does not exist.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrDuplicateBooking is returned when the same user and vehicle
	// already hold an open reservation in the target lot.
	ErrDuplicateBooking = errors.New("vehicle already has an active reservation in this lot")

	// ErrNoAvailableSpot is returned when every spot in the lot is
	// occupied.  Nothing is mutated when allocation fails.
	ErrNoAvailableSpot = errors.New("no available spot in this lot")

	// ErrForbidden is returned when the requesting user does not own
	// the reservation being released or inspected.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyClosed is returned when releasing a reservation that
	// has already recorded a departure.  The stored cost is never
	// recomputed.
	ErrAlreadyClosed = errors.New("reservation already closed")

	// ErrHasActiveReservations is returned by the deletion guard when
	// a lot still has open reservations on any of its spots.
	ErrHasActiveReservations = errors.New("lot has active reservations")

	// ErrCorruptState is returned when the spot status and the open
	// reservation set disagree.  This is never silently repaired.
	ErrCorruptState = errors.New("spot and reservation state disagree")
)
