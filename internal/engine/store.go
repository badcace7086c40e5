package engine

import (
	"context"
	"time"

	"github.com/iliyamo/vehicle-parking/internal/model"
)

// StoreTx is the set of persistence operations the engine performs
// inside one atomic unit.  Every method sees the uncommitted effects
// of earlier calls in the same transaction, and a failed transaction
// leaves no effect at all – the engine relies on this for the
// all-or-nothing guarantees of the park, release and delete
// workflows.
type StoreTx interface {
	// LotByID returns the lot or ErrLotNotFound.
	LotByID(ctx context.Context, lotID uint64) (*model.ParkingLot, error)

	// SpotByID returns the spot or ErrSpotNotFound.
	SpotByID(ctx context.Context, spotID uint64) (*model.ParkingSpot, error)

	// ClaimSpot selects one Available spot in the lot and marks it
	// Occupied, returning its id.  Concurrent claims must never pick
	// the same spot; when the lot is full it returns
	// ErrNoAvailableSpot without mutating anything.
	ClaimSpot(ctx context.Context, lotID uint64) (uint64, error)

	// FreeSpot marks an Occupied spot Available.  Freeing a spot that
	// is not Occupied returns ErrCorruptState, because an open
	// reservation pointed at a spot the store considered free.
	FreeSpot(ctx context.Context, spotID uint64) error

	// HasOpenReservation reports whether the user already holds an
	// open reservation for the vehicle on any spot of the lot.
	HasOpenReservation(ctx context.Context, lotID, userID uint64, vehicleNumber string) (bool, error)

	// CreateReservation inserts an open reservation and populates its
	// generated id.
	CreateReservation(ctx context.Context, r *model.Reservation) error

	// ReservationByID returns the reservation or
	// ErrReservationNotFound.
	ReservationByID(ctx context.Context, id uint64) (*model.Reservation, error)

	// CloseReservation records the departure time and final cost and
	// flips the status to closed.  It must only be called on an open
	// reservation.
	CloseReservation(ctx context.Context, id uint64, leftAt time.Time, costCents uint32) error

	// LotHasOpenReservations reports whether any spot of the lot is
	// referenced by an open reservation.
	LotHasOpenReservations(ctx context.Context, lotID uint64) (bool, error)

	// DeleteLotCascade removes the lot and all of its spots.  Closed
	// reservations are kept as history.
	DeleteLotCascade(ctx context.Context, lotID uint64) error
}

// Store runs engine workflows transactionally.  Implementations must
// commit when fn returns nil and roll back every effect when it
// returns an error.
type Store interface {
	Transact(ctx context.Context, fn func(tx StoreTx) error) error
}
