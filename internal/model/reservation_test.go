package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVehicleNumber(t *testing.T) {
	assert.Equal(t, "KA-01 AB 1234", NormalizeVehicleNumber("  ka-01   ab\t1234 "))
	assert.Equal(t, "MH-12", NormalizeVehicleNumber("mh-12"))
	assert.Equal(t, "", NormalizeVehicleNumber("   "))
	assert.Equal(t, "", NormalizeVehicleNumber(""))
}

func TestReservationStateHelpers(t *testing.T) {
	r := Reservation{Status: ReservationOpen}
	assert.True(t, r.IsOpen())
	assert.True(t, r.IsActive())

	now := time.Now()
	cost := uint32(2500)
	r.Status = ReservationClosed
	r.LeftAt = &now
	r.CostCents = &cost
	assert.False(t, r.IsOpen())
	assert.False(t, r.IsActive())
}

func TestSpotStatusLabel(t *testing.T) {
	free := ParkingSpot{Status: SpotAvailable}
	taken := ParkingSpot{Status: SpotOccupied}
	assert.Equal(t, "Available", free.StatusLabel())
	assert.True(t, free.IsAvailable())
	assert.Equal(t, "Occupied", taken.StatusLabel())
	assert.True(t, taken.IsOccupied())
}
