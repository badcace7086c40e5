package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/vehicle-parking/internal/engine"
	"github.com/iliyamo/vehicle-parking/internal/model"
)

// SpotRepo encapsulates database queries for parking spots.  The two
// hot paths, ClaimTx and FreeTx, are written so the row lock taken by
// the claiming SELECT plus a guarded UPDATE make double allocation
// impossible even under concurrent park requests.
type SpotRepo struct {
	db *sql.DB
}

// NewSpotRepo constructs a SpotRepo with the provided DB handle.
func NewSpotRepo(db *sql.DB) *SpotRepo {
	return &SpotRepo{db: db}
}

// createSpotsBulkTx inserts n Available spots for the lot in a single
// multi-row statement inside the caller's transaction.
func createSpotsBulkTx(ctx context.Context, tx *sql.Tx, lotID uint64, n uint32) error {
	if n == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString("INSERT INTO parking_spots (lot_id, status) VALUES ")
	args := make([]any, 0, n*2)
	for i := uint32(0); i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(?, ?)")
		args = append(args, lotID, model.SpotAvailable)
	}
	_, err := tx.ExecContext(ctx, b.String(), args...)
	return err
}

// AppendSpots grows a lot's capacity by n Available spots.  The lot
// row is locked first so capacity changes serialize against a
// concurrent lot deletion.
func (r *SpotRepo) AppendSpots(ctx context.Context, lotID uint64, n uint32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var id uint64
	err = tx.QueryRowContext(ctx, "SELECT id FROM parking_lots WHERE id = ? FOR UPDATE", lotID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return engine.ErrLotNotFound
		}
		return err
	}
	if err := createSpotsBulkTx(ctx, tx, lotID, n); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListByLot returns the lot's spots ordered by id.  filter narrows
// the listing to "available" or "occupied"; any other value returns
// every spot.
func (r *SpotRepo) ListByLot(ctx context.Context, lotID uint64, filter string) ([]*model.ParkingSpot, error) {
	q := "SELECT id, lot_id, status, created_at FROM parking_spots WHERE lot_id = ?"
	args := []any{lotID}
	switch filter {
	case "available":
		q += " AND status = ?"
		args = append(args, model.SpotAvailable)
	case "occupied":
		q += " AND status = ?"
		args = append(args, model.SpotOccupied)
	}
	q += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ParkingSpot
	for rows.Next() {
		s := new(model.ParkingSpot)
		if err := rows.Scan(&s.ID, &s.LotID, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTx fetches a spot inside a transaction with a row lock.  Returns
// engine.ErrSpotNotFound when no row exists.
func (r *SpotRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.ParkingSpot, error) {
	const q = "SELECT id, lot_id, status, created_at FROM parking_spots WHERE id = ? FOR UPDATE"
	var s model.ParkingSpot
	err := tx.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.LotID, &s.Status, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, engine.ErrSpotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ClaimTx picks the lowest-id Available spot in the lot, locks it and
// flips it to Occupied, returning its id.  The SELECT ... FOR UPDATE
// makes concurrent claimers queue on the same candidate row; the
// guarded UPDATE then re-checks the status so a claimer that lost the
// race reports exhaustion instead of stealing an occupied spot.
func (r *SpotRepo) ClaimTx(ctx context.Context, tx *sql.Tx, lotID uint64) (uint64, error) {
	const qPick = `SELECT id FROM parking_spots
	               WHERE lot_id = ? AND status = ?
	               ORDER BY id LIMIT 1 FOR UPDATE`
	var spotID uint64
	err := tx.QueryRowContext(ctx, qPick, lotID, model.SpotAvailable).Scan(&spotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, engine.ErrNoAvailableSpot
		}
		return 0, err
	}

	const qClaim = "UPDATE parking_spots SET status = ? WHERE id = ? AND status = ?"
	res, err := tx.ExecContext(ctx, qClaim, model.SpotOccupied, spotID, model.SpotAvailable)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, engine.ErrNoAvailableSpot
	}
	return spotID, nil
}

// FreeTx marks an Occupied spot Available.  Zero affected rows means
// the spot was not Occupied, which an open reservation says it must
// be, so the mismatch surfaces as engine.ErrCorruptState.
func (r *SpotRepo) FreeTx(ctx context.Context, tx *sql.Tx, spotID uint64) error {
	const q = "UPDATE parking_spots SET status = ? WHERE id = ? AND status = ?"
	res, err := tx.ExecContext(ctx, q, model.SpotAvailable, spotID, model.SpotOccupied)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return engine.ErrCorruptState
	}
	return nil
}
