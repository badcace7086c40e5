package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/vehicle-parking/internal/engine"
	"github.com/iliyamo/vehicle-parking/internal/model"
)

// ReservationRepo encapsulates database queries for reservations.
// Lifecycle mutations (create, close) run inside caller-supplied
// transactions; the listing and detail queries are plain reads used
// by the HTTP layer.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo constructs a ReservationRepo with the provided
// DB handle.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

// ReservationDetail is the API-facing view of a reservation, joined
// with its spot and lot.  Lot fields are pointers because closed
// reservations survive lot deletion as history, at which point the
// join comes back empty.
type ReservationDetail struct {
	ID            uint64  `json:"id"`
	UserID        uint64  `json:"user_id"`
	SpotID        uint64  `json:"spot_id"`
	LotID         *uint64 `json:"lot_id"`
	LotName       *string `json:"lot_name"`
	VehicleNumber string  `json:"vehicle_number"`
	Status        string  `json:"status"`
	IsActive      bool    `json:"is_active"`
	ParkedAt      string  `json:"parked_at"`
	LeftAt        *string `json:"left_at"`
	CostCents     *uint32 `json:"cost_cents"`
}

// CreateTx inserts an open reservation inside the transaction and
// populates its generated id.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, rv *model.Reservation) error {
	const q = `INSERT INTO reservations (spot_id, user_id, vehicle_number, status, parked_at)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, rv.SpotID, rv.UserID, rv.VehicleNumber, rv.Status, rv.ParkedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// GetByIDTx fetches a reservation with a row lock so the release
// workflow observes a stable status.  Returns
// engine.ErrReservationNotFound when no row exists.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, spot_id, user_id, vehicle_number, status, parked_at, left_at, cost_cents
	           FROM reservations WHERE id = ? FOR UPDATE`
	var rv model.Reservation
	var leftAt sql.NullTime
	var cost sql.NullInt64
	err := tx.QueryRowContext(ctx, q, id).Scan(&rv.ID, &rv.SpotID, &rv.UserID,
		&rv.VehicleNumber, &rv.Status, &rv.ParkedAt, &leftAt, &cost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, engine.ErrReservationNotFound
		}
		return nil, err
	}
	if leftAt.Valid {
		t := leftAt.Time
		rv.LeftAt = &t
	}
	if cost.Valid {
		c := uint32(cost.Int64)
		rv.CostCents = &c
	}
	return &rv, nil
}

// HasOpenTx reports whether the user already holds an open
// reservation for the vehicle on any spot of the lot.
func (r *ReservationRepo) HasOpenTx(ctx context.Context, tx *sql.Tx, lotID, userID uint64, vehicleNumber string) (bool, error) {
	const q = `SELECT EXISTS(
	             SELECT 1 FROM reservations rv
	             JOIN parking_spots s ON s.id = rv.spot_id
	             WHERE s.lot_id = ? AND rv.user_id = ? AND rv.vehicle_number = ? AND rv.status = ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, lotID, userID, vehicleNumber, model.ReservationOpen).Scan(&exists)
	return exists, err
}

// CloseTx records departure time and final cost and flips the status
// to closed.  The status guard in the WHERE clause makes closing
// idempotent in the failing direction: a second close affects zero
// rows and returns engine.ErrAlreadyClosed, leaving the recorded cost
// untouched.
func (r *ReservationRepo) CloseTx(ctx context.Context, tx *sql.Tx, id uint64, leftAt time.Time, costCents uint32) error {
	const q = `UPDATE reservations SET status = ?, left_at = ?, cost_cents = ?
	           WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, model.ReservationClosed, leftAt.UTC(), costCents, id, model.ReservationOpen)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return engine.ErrAlreadyClosed
	}
	return nil
}

// LotHasOpenTx reports whether any spot of the lot is referenced by
// an open reservation.  The deletion guard calls this inside the same
// transaction that performs the cascade delete.
func (r *ReservationRepo) LotHasOpenTx(ctx context.Context, tx *sql.Tx, lotID uint64) (bool, error) {
	const q = `SELECT EXISTS(
	             SELECT 1 FROM reservations rv
	             JOIN parking_spots s ON s.id = rv.spot_id
	             WHERE s.lot_id = ? AND rv.status = ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, lotID, model.ReservationOpen).Scan(&exists)
	return exists, err
}

const detailColumns = `rv.id, rv.user_id, rv.spot_id, s.lot_id, l.location_name,
	rv.vehicle_number, rv.status, rv.parked_at, rv.left_at, rv.cost_cents`

const detailJoins = `FROM reservations rv
	LEFT JOIN parking_spots s ON s.id = rv.spot_id
	LEFT JOIN parking_lots l ON l.id = s.lot_id`

func scanDetail(rows rowScanner) (*ReservationDetail, error) {
	var d ReservationDetail
	var lotID sql.NullInt64
	var lotName sql.NullString
	var parkedAt time.Time
	var leftAt sql.NullTime
	var cost sql.NullInt64
	err := rows.Scan(&d.ID, &d.UserID, &d.SpotID, &lotID, &lotName,
		&d.VehicleNumber, &d.Status, &parkedAt, &leftAt, &cost)
	if err != nil {
		return nil, err
	}
	if lotID.Valid {
		v := uint64(lotID.Int64)
		d.LotID = &v
	}
	if lotName.Valid {
		v := lotName.String
		d.LotName = &v
	}
	d.IsActive = d.Status == model.ReservationOpen
	d.ParkedAt = touchedAt(parkedAt)
	if leftAt.Valid {
		v := touchedAt(leftAt.Time)
		d.LeftAt = &v
	}
	if cost.Valid {
		c := uint32(cost.Int64)
		d.CostCents = &c
	}
	return &d, nil
}

// DetailByID returns the joined view of one reservation, or
// engine.ErrReservationNotFound.
func (r *ReservationRepo) DetailByID(ctx context.Context, id uint64) (*ReservationDetail, error) {
	q := "SELECT " + detailColumns + " " + detailJoins + " WHERE rv.id = ?"
	d, err := scanDetail(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, engine.ErrReservationNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListByUser returns the user's reservations newest first, open ones
// before closed ones so the active parking session tops the list.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]*ReservationDetail, error) {
	q := "SELECT " + detailColumns + " " + detailJoins +
		" WHERE rv.user_id = ? ORDER BY rv.status = ? DESC, rv.parked_at DESC, rv.id DESC"
	return r.listDetails(ctx, q, userID, model.ReservationOpen)
}

// ListAll returns every reservation newest first.  Backs the admin
// oversight endpoint.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]*ReservationDetail, error) {
	q := "SELECT " + detailColumns + " " + detailJoins + " ORDER BY rv.parked_at DESC, rv.id DESC"
	return r.listDetails(ctx, q)
}

func (r *ReservationRepo) listDetails(ctx context.Context, q string, args ...any) ([]*ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*ReservationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
