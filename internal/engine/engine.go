package engine

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/vehicle-parking/internal/model"
	"github.com/iliyamo/vehicle-parking/internal/pricing"
)

// Engine orchestrates the reservation lifecycle.  All identity is
// explicit: every operation that touches a reservation takes the
// requesting user's id and enforces ownership itself, independent of
// any routing or middleware layer.
type Engine struct {
	store Store
	now   func() time.Time // injectable clock, UTC in production
}

// New constructs an Engine backed by the given store.
func New(store Store) *Engine {
	if store == nil {
		panic("nil store passed to engine.New")
	}
	return &Engine{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Park allocates a free spot in the lot and opens a reservation for
// the vehicle.  The duplicate check, the spot claim and the
// reservation insert all happen in one transaction, so two concurrent
// calls can never claim the same spot and a failure leaves no state
// behind.  Returns the created reservation.
func (e *Engine) Park(ctx context.Context, lotID, userID uint64, vehicleNumber string) (*model.Reservation, error) {
	plate := model.NormalizeVehicleNumber(vehicleNumber)
	if plate == "" {
		return nil, ErrInvalidVehicle
	}
	var res *model.Reservation
	err := e.store.Transact(ctx, func(tx StoreTx) error {
		if _, err := tx.LotByID(ctx, lotID); err != nil {
			return err
		}
		dup, err := tx.HasOpenReservation(ctx, lotID, userID, plate)
		if err != nil {
			return err
		}
		if dup {
			return ErrDuplicateBooking
		}
		spotID, err := tx.ClaimSpot(ctx, lotID)
		if err != nil {
			return err
		}
		r := &model.Reservation{
			SpotID:        spotID,
			UserID:        userID,
			VehicleNumber: plate,
			Status:        model.ReservationOpen,
			ParkedAt:      e.now(),
		}
		if err := tx.CreateReservation(ctx, r); err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Release closes an open reservation owned by the requesting user,
// computes the final cost from the lot's hourly rate and frees the
// spot.  Closing, charging and freeing commit together.  Releasing an
// already-closed reservation fails with ErrAlreadyClosed and never
// touches the stored cost.
func (e *Engine) Release(ctx context.Context, reservationID, userID uint64) (*model.Reservation, error) {
	var res *model.Reservation
	err := e.store.Transact(ctx, func(tx StoreTx) error {
		r, err := tx.ReservationByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if r.UserID != userID {
			return ErrForbidden
		}
		if !r.IsOpen() {
			return ErrAlreadyClosed
		}
		spot, err := tx.SpotByID(ctx, r.SpotID)
		if err != nil {
			return err
		}
		if !spot.IsOccupied() {
			// An open reservation must always sit on an Occupied spot.
			log.Printf("CORRUPT STATE: open reservation %d references spot %d with status %q",
				r.ID, spot.ID, spot.Status)
			return ErrCorruptState
		}
		lot, err := tx.LotByID(ctx, spot.LotID)
		if err != nil {
			return err
		}
		leftAt := e.now()
		cost, err := pricing.Cost(r.ParkedAt, leftAt, lot.PricePerHourCents)
		if err != nil {
			return err
		}
		if err := tx.CloseReservation(ctx, r.ID, leftAt, cost); err != nil {
			return err
		}
		if err := tx.FreeSpot(ctx, r.SpotID); err != nil {
			return err
		}
		r.Status = model.ReservationClosed
		r.LeftAt = &leftAt
		r.CostCents = &cost
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Estimate returns the charge the reservation would incur if released
// now.  For an already-closed reservation it returns the recorded
// final cost, so the estimate and the closing charge always agree.
// It never mutates the reservation.
func (e *Engine) Estimate(ctx context.Context, reservationID, userID uint64) (uint32, error) {
	var cost uint32
	err := e.store.Transact(ctx, func(tx StoreTx) error {
		r, err := tx.ReservationByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if r.UserID != userID {
			return ErrForbidden
		}
		if !r.IsOpen() {
			cost = *r.CostCents
			return nil
		}
		spot, err := tx.SpotByID(ctx, r.SpotID)
		if err != nil {
			return err
		}
		lot, err := tx.LotByID(ctx, spot.LotID)
		if err != nil {
			return err
		}
		cost, err = pricing.Cost(r.ParkedAt, e.now(), lot.PricePerHourCents)
		return err
	})
	if err != nil {
		return 0, err
	}
	return cost, nil
}

// CanDeleteLot reports whether the lot could be deleted right now,
// i.e. none of its spots holds an open reservation.  The answer is
// advisory – DeleteLot re-validates inside its own transaction
// because a reservation could open between the check and the delete.
func (e *Engine) CanDeleteLot(ctx context.Context, lotID uint64) (bool, error) {
	var ok bool
	err := e.store.Transact(ctx, func(tx StoreTx) error {
		if _, err := tx.LotByID(ctx, lotID); err != nil {
			return err
		}
		open, err := tx.LotHasOpenReservations(ctx, lotID)
		if err != nil {
			return err
		}
		ok = !open
		return nil
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

// DeleteLot removes a lot and its spots after re-validating the
// deletion guard inside the delete transaction.  Fails with
// ErrHasActiveReservations while any spot of the lot has an open
// reservation.
func (e *Engine) DeleteLot(ctx context.Context, lotID uint64) error {
	return e.store.Transact(ctx, func(tx StoreTx) error {
		if _, err := tx.LotByID(ctx, lotID); err != nil {
			return err
		}
		open, err := tx.LotHasOpenReservations(ctx, lotID)
		if err != nil {
			return err
		}
		if open {
			return ErrHasActiveReservations
		}
		return tx.DeleteLotCascade(ctx, lotID)
	})
}
