// Package repository contains data access logic separated from HTTP
// handlers and from the reservation engine.  Each entity gets its own
// repository bound to a *sql.DB; methods suffixed Tx operate inside a
// caller-supplied transaction so multi-row workflows can commit or
// roll back as one unit.  All timestamps are stored and compared in
// UTC.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/vehicle-parking/internal/model"
)

// ErrCityNotFound is returned when a city cannot be found in the DB.
var ErrCityNotFound = errors.New("city not found")

// CityRepo encapsulates all database queries related to cities.
type CityRepo struct {
	db *sql.DB
}

// NewCityRepo constructs a CityRepo with the provided DB handle.
func NewCityRepo(db *sql.DB) *CityRepo {
	return &CityRepo{db: db}
}

// Create inserts a new city.  On success the city's ID field is
// populated with the auto-generated value.
func (r *CityRepo) Create(ctx context.Context, c *model.City) error {
	const q = "INSERT INTO cities (name, state) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, q, c.Name, c.State)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches a city by its ID.  It returns ErrCityNotFound when
// no row exists.
func (r *CityRepo) GetByID(ctx context.Context, id uint64) (*model.City, error) {
	const q = "SELECT id, name, state FROM cities WHERE id = ?"
	var c model.City
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.State); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListAll returns every city ordered by id.  It backs the public
// browse endpoint and the admin lot forms.
func (r *CityRepo) ListAll(ctx context.Context) ([]*model.City, error) {
	const q = "SELECT id, name, state FROM cities ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.City
	for rows.Next() {
		c := new(model.City)
		if err := rows.Scan(&c.ID, &c.Name, &c.State); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
