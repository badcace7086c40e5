package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/vehicle-parking/internal/engine"
	"github.com/iliyamo/vehicle-parking/internal/model"
)

// SQLStore adapts the entity repositories to the engine's Store
// interface.  Transact opens one MySQL transaction and hands the
// engine a StoreTx view whose every call runs on that transaction, so
// the park, release and delete workflows commit or roll back as one
// unit.
type SQLStore struct {
	db           *sql.DB
	lots         *LotRepo
	spots        *SpotRepo
	reservations *ReservationRepo
}

// NewSQLStore constructs an SQLStore over the shared repositories.
func NewSQLStore(db *sql.DB, lots *LotRepo, spots *SpotRepo, reservations *ReservationRepo) *SQLStore {
	return &SQLStore{db: db, lots: lots, spots: spots, reservations: reservations}
}

// Transact runs fn inside a transaction, committing on nil and
// rolling back on error.
func (s *SQLStore) Transact(ctx context.Context, fn func(tx engine.StoreTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&sqlStoreTx{store: s, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// sqlStoreTx is the transactional view handed to the engine.  Each
// method delegates to the matching repository Tx method.
type sqlStoreTx struct {
	store *SQLStore
	tx    *sql.Tx
}

func (t *sqlStoreTx) LotByID(ctx context.Context, lotID uint64) (*model.ParkingLot, error) {
	return t.store.lots.GetTx(ctx, t.tx, lotID)
}

func (t *sqlStoreTx) SpotByID(ctx context.Context, spotID uint64) (*model.ParkingSpot, error) {
	return t.store.spots.GetTx(ctx, t.tx, spotID)
}

func (t *sqlStoreTx) ClaimSpot(ctx context.Context, lotID uint64) (uint64, error) {
	return t.store.spots.ClaimTx(ctx, t.tx, lotID)
}

func (t *sqlStoreTx) FreeSpot(ctx context.Context, spotID uint64) error {
	return t.store.spots.FreeTx(ctx, t.tx, spotID)
}

func (t *sqlStoreTx) HasOpenReservation(ctx context.Context, lotID, userID uint64, vehicleNumber string) (bool, error) {
	return t.store.reservations.HasOpenTx(ctx, t.tx, lotID, userID, vehicleNumber)
}

func (t *sqlStoreTx) CreateReservation(ctx context.Context, r *model.Reservation) error {
	return t.store.reservations.CreateTx(ctx, t.tx, r)
}

func (t *sqlStoreTx) ReservationByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	return t.store.reservations.GetByIDTx(ctx, t.tx, id)
}

func (t *sqlStoreTx) CloseReservation(ctx context.Context, id uint64, leftAt time.Time, costCents uint32) error {
	return t.store.reservations.CloseTx(ctx, t.tx, id, leftAt, costCents)
}

func (t *sqlStoreTx) LotHasOpenReservations(ctx context.Context, lotID uint64) (bool, error) {
	return t.store.reservations.LotHasOpenTx(ctx, t.tx, lotID)
}

func (t *sqlStoreTx) DeleteLotCascade(ctx context.Context, lotID uint64) error {
	return t.store.lots.DeleteCascadeTx(ctx, t.tx, lotID)
}
