// Package pricing implements the parking cost policy.  The same
// formula serves both the final charge computed on release and the
// running estimate shown for a still-open reservation, so the two
// always agree when no further time elapses.
package pricing

import (
	"errors"
	"time"
)

// ErrInvalidInterval is returned when the departure time precedes the
// parking time.  This signals clock skew or corrupted data and aborts
// the release workflow instead of producing a negative charge.
var ErrInvalidInterval = errors.New("leaving time precedes parking time")

// Cost computes the charge in cents for a stay from parkedAt to
// leftAt at the given hourly rate.
//
// Policy: duration is measured in whole minutes, rounded down.  Any
// stay up to and including the first hour is charged exactly one
// hour's rate.  Beyond sixty minutes the charge accrues per elapsed
// minute at rate/60 over the total elapsed minutes, rounded half away
// from zero to the nearest cent.
func Cost(parkedAt, leftAt time.Time, pricePerHourCents uint32) (uint32, error) {
	if leftAt.Before(parkedAt) {
		return 0, ErrInvalidInterval
	}
	minutes := uint64(leftAt.Sub(parkedAt) / time.Minute)
	if minutes <= 60 {
		return pricePerHourCents, nil
	}
	// minutes*rate is in cent-minutes; dividing by 60 with +30 rounds
	// half away from zero (all operands are non-negative).
	total := (minutes*uint64(pricePerHourCents) + 30) / 60
	return uint32(total), nil
}

// Minutes returns the whole elapsed minutes between the two
// timestamps, rounded down.  It shares Cost's interval validation so
// callers that report durations fail the same way the charge does.
func Minutes(parkedAt, leftAt time.Time) (uint64, error) {
	if leftAt.Before(parkedAt) {
		return 0, ErrInvalidInterval
	}
	return uint64(leftAt.Sub(parkedAt) / time.Minute), nil
}
