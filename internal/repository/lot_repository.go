package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/vehicle-parking/internal/engine"
	"github.com/iliyamo/vehicle-parking/internal/model"
)

// LotRepo encapsulates database queries for parking lots.  Lot rows
// are read-mostly from the engine's point of view; mutation happens
// through the admin endpoints and through the cascade delete invoked
// by the deletion guard workflow.
type LotRepo struct {
	db *sql.DB
}

// NewLotRepo constructs a LotRepo with the provided DB handle.
func NewLotRepo(db *sql.DB) *LotRepo {
	return &LotRepo{db: db}
}

// LotDetail is the public representation of a lot with its city and
// live occupancy counts.  AvailableSpots and OccupiedSpots are
// derived from the actual spot rows, which are the authoritative
// capacity; MaxSpots is only the configured target.
type LotDetail struct {
	ID                uint64 `json:"id"`
	LocationName      string `json:"location_name"`
	Address           string `json:"address"`
	PinCode           string `json:"pin_code"`
	City              struct {
		Name  string `json:"name"`
		State string `json:"state"`
	} `json:"city"`
	PricePerHourCents uint32 `json:"price_per_hour_cents"`
	MaxSpots          uint32 `json:"max_spots"`
	TotalSpots        uint32 `json:"total_spots"`
	AvailableSpots    uint32 `json:"available_spots"`
	OccupiedSpots     uint32 `json:"occupied_spots"`
}

// CreateWithSpots inserts a new lot and provisions `spots` Available
// spot rows for it in a single transaction, mirroring the admin
// create-lot workflow where a lot is never born without its capacity.
// On success the lot's ID and CreatedAt fields are populated.
func (r *LotRepo) CreateWithSpots(ctx context.Context, l *model.ParkingLot, spots uint32) error {
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

	const qInsert = `INSERT INTO parking_lots (city_id, location_name, address, pin_code, price_per_hour_cents, max_spots)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert,
		l.CityID, l.LocationName, l.Address, l.PinCode, l.PricePerHourCents, l.MaxSpots)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)

	if err := createSpotsBulkTx(ctx, tx, l.ID, spots); err != nil {
		return err
	}

	// Follow-up SELECT to populate the DB-defaulted creation timestamp.
	const qSelect = "SELECT created_at FROM parking_lots WHERE id = ?"
	if err := tx.QueryRowContext(ctx, qSelect, l.ID).Scan(&l.CreatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a lot by id without locking.  It returns
// engine.ErrLotNotFound when no row exists.
func (r *LotRepo) GetByID(ctx context.Context, id uint64) (*model.ParkingLot, error) {
	const q = `SELECT id, city_id, location_name, address, pin_code, price_per_hour_cents, max_spots, created_at
	           FROM parking_lots WHERE id = ?`
	return scanLot(r.db.QueryRowContext(ctx, q, id))
}

// GetTx fetches a lot inside a transaction and locks the row for the
// remainder of the transaction.  The lock serializes park and release
// against a concurrent lot deletion.
func (r *LotRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.ParkingLot, error) {
	const q = `SELECT id, city_id, location_name, address, pin_code, price_per_hour_cents, max_spots, created_at
	           FROM parking_lots WHERE id = ? FOR UPDATE`
	return scanLot(tx.QueryRowContext(ctx, q, id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLot(row rowScanner) (*model.ParkingLot, error) {
	var l model.ParkingLot
	err := row.Scan(&l.ID, &l.CityID, &l.LocationName, &l.Address, &l.PinCode,
		&l.PricePerHourCents, &l.MaxSpots, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, engine.ErrLotNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Update rewrites the editable lot fields.  The spot rows are left
// untouched: editing MaxSpots changes the capacity target only, the
// actual spot count stays authoritative.  Returns
// engine.ErrLotNotFound when no row was affected.
func (r *LotRepo) Update(ctx context.Context, l *model.ParkingLot) error {
	const q = `UPDATE parking_lots
	           SET city_id = ?, location_name = ?, address = ?, pin_code = ?, price_per_hour_cents = ?, max_spots = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		l.CityID, l.LocationName, l.Address, l.PinCode, l.PricePerHourCents, l.MaxSpots, l.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish a missing row from an update that changed nothing.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM parking_lots WHERE id = ?)", l.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return engine.ErrLotNotFound
		}
	}
	return nil
}

// ListDetails returns every lot with its city and occupancy counts,
// ordered by id.  Counts are computed from the spot rows in one
// grouped query so the listing stays a single round trip.
func (r *LotRepo) ListDetails(ctx context.Context) ([]LotDetail, error) {
	const q = `SELECT l.id, l.location_name, l.address, l.pin_code, l.price_per_hour_cents, l.max_spots,
	                  c.name, c.state,
	                  COUNT(s.id), COALESCE(SUM(s.status = 'A'), 0)
	           FROM parking_lots l
	           JOIN cities c ON c.id = l.city_id
	           LEFT JOIN parking_spots s ON s.lot_id = l.id
	           GROUP BY l.id, l.location_name, l.address, l.pin_code, l.price_per_hour_cents, l.max_spots, c.name, c.state
	           ORDER BY l.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]LotDetail, 0)
	for rows.Next() {
		var d LotDetail
		var total, available uint32
		if err := rows.Scan(&d.ID, &d.LocationName, &d.Address, &d.PinCode,
			&d.PricePerHourCents, &d.MaxSpots,
			&d.City.Name, &d.City.State, &total, &available); err != nil {
			return nil, err
		}
		d.TotalSpots = total
		d.AvailableSpots = available
		d.OccupiedSpots = total - available
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// DeleteCascadeTx removes the lot's spots and then the lot row inside
// the provided transaction.  Closed reservations are preserved as
// history; the caller (the engine's delete workflow) has already
// verified that no open reservation exists under the same
// transaction, so the cascade cannot strand an occupied spot.
func (r *LotRepo) DeleteCascadeTx(ctx context.Context, tx *sql.Tx, lotID uint64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM parking_spots WHERE lot_id = ?", lotID); err != nil {
		return fmt.Errorf("delete spots of lot %d: %w", lotID, err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM parking_lots WHERE id = ?", lotID)
	if err != nil {
		return fmt.Errorf("delete lot %d: %w", lotID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return engine.ErrLotNotFound
	}
	return nil
}

// touchedAt formats stored timestamps the same way across every API
// response.
func touchedAt(t time.Time) string { return t.UTC().Format(time.RFC3339) }
