package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/vehicle-parking/internal/model"
)

func newTestEngine(store *memStore, at time.Time) *Engine {
	e := New(store)
	e.now = func() time.Time { return at }
	return e
}

func TestParkAllocatesLowestFreeSpot(t *testing.T) {
	store := newMemStore()
	lotID := store.addLot(2000, 2)
	e := newTestEngine(store, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))

	r, err := e.Park(context.Background(), lotID, 7, "ka-01 ab 1234")
	require.NoError(t, err)

	assert.Equal(t, model.ReservationOpen, r.Status)
	assert.Equal(t, "KA-01 AB 1234", r.VehicleNumber)
	assert.Equal(t, model.SpotOccupied, store.spot(r.SpotID).Status)
	assert.Equal(t, 1, store.availableCount(lotID))
}

func TestParkRejectsEmptyVehicleNumber(t *testing.T) {
	store := newMemStore()
	lotID := store.addLot(2000, 1)
	e := newTestEngine(store, time.Now().UTC())

	_, err := e.Park(context.Background(), lotID, 7, "   ")
	assert.ErrorIs(t, err, ErrInvalidVehicle)
	assert.Equal(t, 1, store.availableCount(lotID))
}

func TestParkUnknownLot(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store, time.Now().UTC())

	_, err := e.Park(context.Background(), 999, 7, "KA-01 AB 1234")
	assert.ErrorIs(t, err, ErrLotNotFound)
}

func TestParkDuplicateVehicleRejected(t *testing.T) {
	store := newMemStore()
	lotID := store.addLot(2000, 3)
	e := newTestEngine(store, time.Now().UTC())

	_, err := e.Park(context.Background(), lotID, 7, "KA-01 AB 1234")
	require.NoError(t, err)

	// Same user, same plate modulo whitespace and case.
	_, err = e.Park(context.Background(), lotID, 7, "  ka-01   ab 1234 ")
	assert.ErrorIs(t, err, ErrDuplicateBooking)
	assert.Equal(t, 2, store.availableCount(lotID))

	// A different vehicle of the same user is fine.
	_, err = e.Park(context.Background(), lotID, 7, "KA-02 CD 5678")
	assert.NoError(t, err)

	// And a different user with the same plate is fine too.
	_, err = e.Park(context.Background(), lotID, 8, "KA-01 AB 1234")
	assert.NoError(t, err)
}

func TestParkExhaustionLeavesNoTrace(t *testing.T) {
	store := newMemStore()
	lotID := store.addLot(2000, 2)
	e := newTestEngine(store, time.Now().UTC())

	_, err := e.Park(context.Background(), lotID, 1, "V-1")
	require.NoError(t, err)
	_, err = e.Park(context.Background(), lotID, 2, "V-2")
	require.NoError(t, err)

	_, err = e.Park(context.Background(), lotID, 3, "V-3")
	assert.ErrorIs(t, err, ErrNoAvailableSpot)

	store.mu.Lock()
	assert.Len(t, store.reservations, 2)
	store.mu.Unlock()
	assert.Equal(t, 0, store.availableCount(lotID))
}

func TestConcurrentParkClaimsEachSpotOnce(t *testing.T) {
	const spots = 5
	const drivers = 20

	store := newMemStore()
	lotID := store.addLot(2000, spots)
	e := newTestEngine(store, time.Now().UTC())

	var wg sync.WaitGroup
	results := make([]*model.Reservation, drivers)
	errs := make([]error, drivers)
	for i := 0; i < drivers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.Park(context.Background(), lotID, uint64(i+1), "V-"+string(rune('A'+i)))
		}(i)
	}
	wg.Wait()

	claimed := make(map[uint64]bool)
	won := 0
	for i := 0; i < drivers; i++ {
		if errs[i] == nil {
			won++
			assert.False(t, claimed[results[i].SpotID], "spot %d claimed twice", results[i].SpotID)
			claimed[results[i].SpotID] = true
		} else {
			assert.ErrorIs(t, errs[i], ErrNoAvailableSpot)
		}
	}
	assert.Equal(t, spots, won)
	assert.Equal(t, 0, store.availableCount(lotID))
}

// Two spots, three drivers, release after 75 minutes at 2000 cents
// per hour.  75 minutes is beyond the first hour, so the charge is
// per-minute: 75 * 2000 / 60 = 2500 cents.
func TestParkReleaseScenario(t *testing.T) {
	parked := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	store := newMemStore()
	lotID := store.addLot(2000, 2)
	e := newTestEngine(store, parked)

	r1, err := e.Park(context.Background(), lotID, 1, "MH-12 AB 0001")
	require.NoError(t, err)
	_, err = e.Park(context.Background(), lotID, 2, "MH-12 AB 0002")
	require.NoError(t, err)
	_, err = e.Park(context.Background(), lotID, 3, "MH-12 AB 0003")
	assert.ErrorIs(t, err, ErrNoAvailableSpot)

	e.now = func() time.Time { return parked.Add(75 * time.Minute) }
	closed, err := e.Release(context.Background(), r1.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, model.ReservationClosed, closed.Status)
	require.NotNil(t, closed.CostCents)
	assert.Equal(t, uint32(2500), *closed.CostCents)
	require.NotNil(t, closed.LeftAt)
	assert.Equal(t, parked.Add(75*time.Minute), *closed.LeftAt)

	// The freed spot is immediately claimable again.
	r3, err := e.Park(context.Background(), lotID, 3, "MH-12 AB 0003")
	require.NoError(t, err)
	assert.Equal(t, r1.SpotID, r3.SpotID)
}

func TestReleaseFirstHourMinimum(t *testing.T) {
	parked := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	store := newMemStore()
	lotID := store.addLot(6000, 1)
	e := newTestEngine(store, parked)

	r, err := e.Park(context.Background(), lotID, 1, "V-1")
	require.NoError(t, err)

	e.now = func() time.Time { return parked.Add(10 * time.Minute) }
	closed, err := e.Release(context.Background(), r.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(6000), *closed.CostCents)
}

func TestReleaseTwiceRejected(t *testing.T) {
	parked := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	store := newMemStore()
	lotID := store.addLot(2000, 1)
	e := newTestEngine(store, parked)

	r, err := e.Park(context.Background(), lotID, 1, "V-1")
	require.NoError(t, err)

	e.now = func() time.Time { return parked.Add(90 * time.Minute) }
	first, err := e.Release(context.Background(), r.ID, 1)
	require.NoError(t, err)

	// A later second release must not recompute the charge.
	e.now = func() time.Time { return parked.Add(5 * time.Hour) }
	_, err = e.Release(context.Background(), r.ID, 1)
	assert.ErrorIs(t, err, ErrAlreadyClosed)

	got, err := e.Estimate(context.Background(), r.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, *first.CostCents, got)
}

func TestReleaseOwnershipEnforced(t *testing.T) {
	store := newMemStore()
	lotID := store.addLot(2000, 1)
	e := newTestEngine(store, time.Now().UTC())

	r, err := e.Park(context.Background(), lotID, 1, "V-1")
	require.NoError(t, err)

	_, err = e.Release(context.Background(), r.ID, 2)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, model.SpotOccupied, store.spot(r.SpotID).Status)
}

func TestReleaseUnknownReservation(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store, time.Now().UTC())

	_, err := e.Release(context.Background(), 42, 1)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestReleaseDetectsCorruptSpotState(t *testing.T) {
	store := newMemStore()
	lotID := store.addLot(2000, 1)
	e := newTestEngine(store, time.Now().UTC())

	r, err := e.Park(context.Background(), lotID, 1, "V-1")
	require.NoError(t, err)

	// Break the invariant behind the engine's back.
	store.setSpotStatus(r.SpotID, model.SpotAvailable)

	_, err = e.Release(context.Background(), r.ID, 1)
	assert.ErrorIs(t, err, ErrCorruptState)

	// The failed transaction must not have closed the reservation.
	got, err := e.Estimate(context.Background(), r.ID, 1)
	require.NoError(t, err)
	assert.NotZero(t, got)
	store.mu.Lock()
	assert.Equal(t, model.ReservationOpen, store.reservations[r.ID].Status)
	store.mu.Unlock()
}

func TestEstimateGrowsWithTime(t *testing.T) {
	parked := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	store := newMemStore()
	lotID := store.addLot(2000, 1)
	e := newTestEngine(store, parked)

	r, err := e.Park(context.Background(), lotID, 1, "V-1")
	require.NoError(t, err)

	e.now = func() time.Time { return parked.Add(30 * time.Minute) }
	early, err := e.Estimate(context.Background(), r.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(2000), early) // still inside the first hour

	e.now = func() time.Time { return parked.Add(120 * time.Minute) }
	late, err := e.Estimate(context.Background(), r.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(4000), late)

	_, err = e.Estimate(context.Background(), r.ID, 2)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestEstimateOfClosedMatchesRecordedCost(t *testing.T) {
	parked := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	store := newMemStore()
	lotID := store.addLot(2000, 1)
	e := newTestEngine(store, parked)

	r, err := e.Park(context.Background(), lotID, 1, "V-1")
	require.NoError(t, err)

	e.now = func() time.Time { return parked.Add(75 * time.Minute) }
	closed, err := e.Release(context.Background(), r.ID, 1)
	require.NoError(t, err)

	e.now = func() time.Time { return parked.Add(10 * time.Hour) }
	got, err := e.Estimate(context.Background(), r.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, *closed.CostCents, got)
}

func TestDeleteLotGuard(t *testing.T) {
	store := newMemStore()
	lotID := store.addLot(2000, 2)
	e := newTestEngine(store, time.Now().UTC())

	r, err := e.Park(context.Background(), lotID, 1, "V-1")
	require.NoError(t, err)

	ok, err := e.CanDeleteLot(context.Background(), lotID)
	require.NoError(t, err)
	assert.False(t, ok)

	err = e.DeleteLot(context.Background(), lotID)
	assert.ErrorIs(t, err, ErrHasActiveReservations)

	_, err = e.Release(context.Background(), r.ID, 1)
	require.NoError(t, err)

	ok, err = e.CanDeleteLot(context.Background(), lotID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, e.DeleteLot(context.Background(), lotID))

	_, err = e.Park(context.Background(), lotID, 2, "V-2")
	assert.ErrorIs(t, err, ErrLotNotFound)

	// Closed reservations survive the lot as history.
	store.mu.Lock()
	_, kept := store.reservations[r.ID]
	store.mu.Unlock()
	assert.True(t, kept)
}

func TestDeleteUnknownLot(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store, time.Now().UTC())

	err := e.DeleteLot(context.Background(), 123)
	assert.ErrorIs(t, err, ErrLotNotFound)
}
