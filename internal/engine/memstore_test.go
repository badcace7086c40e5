package engine

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/vehicle-parking/internal/model"
)

// memStore is an in-memory Store used by the engine tests.  A single
// mutex serializes transactions; rollback is implemented by deep
// copying the state on entry and restoring it when fn fails.  That
// matches the serializable behavior the engine assumes: each
// transaction sees a consistent snapshot and a failed one leaves no
// trace.
type memStore struct {
	mu     sync.Mutex
	nextID uint64

	lots         map[uint64]*model.ParkingLot
	spots        map[uint64]*model.ParkingSpot
	reservations map[uint64]*model.Reservation
}

func newMemStore() *memStore {
	return &memStore{
		nextID:       1,
		lots:         make(map[uint64]*model.ParkingLot),
		spots:        make(map[uint64]*model.ParkingSpot),
		reservations: make(map[uint64]*model.Reservation),
	}
}

func (m *memStore) id() uint64 {
	v := m.nextID
	m.nextID++
	return v
}

// addLot seeds a lot with the given number of available spots and
// returns its id.
func (m *memStore) addLot(pricePerHourCents uint32, spots int) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	lotID := m.id()
	m.lots[lotID] = &model.ParkingLot{
		ID:                lotID,
		CityID:            1,
		LocationName:      "lot",
		PricePerHourCents: pricePerHourCents,
		MaxSpots:          uint32(spots),
	}
	for i := 0; i < spots; i++ {
		spotID := m.id()
		m.spots[spotID] = &model.ParkingSpot{ID: spotID, LotID: lotID, Status: model.SpotAvailable}
	}
	return lotID
}

func (m *memStore) spot(id uint64) model.ParkingSpot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.spots[id]
}

func (m *memStore) setSpotStatus(id uint64, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spots[id].Status = status
}

func (m *memStore) availableCount(lotID uint64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.spots {
		if s.LotID == lotID && s.Status == model.SpotAvailable {
			n++
		}
	}
	return n
}

func (m *memStore) snapshot() (map[uint64]*model.ParkingLot, map[uint64]*model.ParkingSpot, map[uint64]*model.Reservation) {
	lots := make(map[uint64]*model.ParkingLot, len(m.lots))
	for k, v := range m.lots {
		c := *v
		lots[k] = &c
	}
	spots := make(map[uint64]*model.ParkingSpot, len(m.spots))
	for k, v := range m.spots {
		c := *v
		spots[k] = &c
	}
	reservations := make(map[uint64]*model.Reservation, len(m.reservations))
	for k, v := range m.reservations {
		c := *v
		if v.LeftAt != nil {
			t := *v.LeftAt
			c.LeftAt = &t
		}
		if v.CostCents != nil {
			cc := *v.CostCents
			c.CostCents = &cc
		}
		reservations[k] = &c
	}
	return lots, spots, reservations
}

func (m *memStore) Transact(ctx context.Context, fn func(tx StoreTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lots, spots, reservations := m.snapshot()
	if err := fn(&memTx{m: m}); err != nil {
		m.lots, m.spots, m.reservations = lots, spots, reservations
		return err
	}
	return nil
}

type memTx struct {
	m *memStore
}

func (t *memTx) LotByID(ctx context.Context, lotID uint64) (*model.ParkingLot, error) {
	l, ok := t.m.lots[lotID]
	if !ok {
		return nil, ErrLotNotFound
	}
	c := *l
	return &c, nil
}

func (t *memTx) SpotByID(ctx context.Context, spotID uint64) (*model.ParkingSpot, error) {
	s, ok := t.m.spots[spotID]
	if !ok {
		return nil, ErrSpotNotFound
	}
	c := *s
	return &c, nil
}

func (t *memTx) ClaimSpot(ctx context.Context, lotID uint64) (uint64, error) {
	var best *model.ParkingSpot
	for _, s := range t.m.spots {
		if s.LotID == lotID && s.Status == model.SpotAvailable {
			if best == nil || s.ID < best.ID {
				best = s
			}
		}
	}
	if best == nil {
		return 0, ErrNoAvailableSpot
	}
	best.Status = model.SpotOccupied
	return best.ID, nil
}

func (t *memTx) FreeSpot(ctx context.Context, spotID uint64) error {
	s, ok := t.m.spots[spotID]
	if !ok || s.Status != model.SpotOccupied {
		return ErrCorruptState
	}
	s.Status = model.SpotAvailable
	return nil
}

func (t *memTx) HasOpenReservation(ctx context.Context, lotID, userID uint64, vehicleNumber string) (bool, error) {
	for _, r := range t.m.reservations {
		if r.Status != model.ReservationOpen || r.UserID != userID || r.VehicleNumber != vehicleNumber {
			continue
		}
		if s, ok := t.m.spots[r.SpotID]; ok && s.LotID == lotID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) CreateReservation(ctx context.Context, r *model.Reservation) error {
	r.ID = t.m.id()
	c := *r
	t.m.reservations[r.ID] = &c
	return nil
}

func (t *memTx) ReservationByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, ok := t.m.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	c := *r
	if r.LeftAt != nil {
		v := *r.LeftAt
		c.LeftAt = &v
	}
	if r.CostCents != nil {
		v := *r.CostCents
		c.CostCents = &v
	}
	return &c, nil
}

func (t *memTx) CloseReservation(ctx context.Context, id uint64, leftAt time.Time, costCents uint32) error {
	r, ok := t.m.reservations[id]
	if !ok {
		return ErrReservationNotFound
	}
	if r.Status != model.ReservationOpen {
		return ErrAlreadyClosed
	}
	r.Status = model.ReservationClosed
	la := leftAt
	r.LeftAt = &la
	cc := costCents
	r.CostCents = &cc
	return nil
}

func (t *memTx) LotHasOpenReservations(ctx context.Context, lotID uint64) (bool, error) {
	for _, r := range t.m.reservations {
		if r.Status != model.ReservationOpen {
			continue
		}
		if s, ok := t.m.spots[r.SpotID]; ok && s.LotID == lotID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) DeleteLotCascade(ctx context.Context, lotID uint64) error {
	if _, ok := t.m.lots[lotID]; !ok {
		return ErrLotNotFound
	}
	for id, s := range t.m.spots {
		if s.LotID == lotID {
			delete(t.m.spots, id)
		}
	}
	delete(t.m.lots, lotID)
	return nil
}
