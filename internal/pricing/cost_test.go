package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostFirstHourMinimum(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// Anything up to and including sixty minutes charges one full hour.
	for _, mins := range []int{0, 1, 15, 45, 59, 60} {
		got, err := Cost(start, start.Add(time.Duration(mins)*time.Minute), 6000)
		require.NoError(t, err)
		assert.Equal(t, uint32(6000), got, "stay of %d minutes", mins)
	}
}

func TestCostPerMinuteBeyondFirstHour(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// 90 minutes at 6000 cents/hour = 90 * 100 = 9000 cents.
	got, err := Cost(start, start.Add(90*time.Minute), 6000)
	require.NoError(t, err)
	assert.Equal(t, uint32(9000), got)

	// 75 minutes at 2000 cents/hour = 75 * 2000 / 60 = 2500 cents.
	got, err = Cost(start, start.Add(75*time.Minute), 2000)
	require.NoError(t, err)
	assert.Equal(t, uint32(2500), got)

	// 61 minutes crosses into per-minute accrual immediately.
	got, err = Cost(start, start.Add(61*time.Minute), 6000)
	require.NoError(t, err)
	assert.Equal(t, uint32(6100), got)
}

func TestCostRoundsHalfAwayFromZero(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// 61 minutes at 50 cents/hour: 61*50/60 = 50.833... -> 51 cents.
	got, err := Cost(start, start.Add(61*time.Minute), 50)
	require.NoError(t, err)
	assert.Equal(t, uint32(51), got)

	// 66 minutes at 100 cents/hour: 66*100/60 = 110 exactly.
	got, err = Cost(start, start.Add(66*time.Minute), 100)
	require.NoError(t, err)
	assert.Equal(t, uint32(110), got)

	// 63 minutes at 10 cents/hour: 63*10/60 = 10.5 -> rounds up to 11.
	got, err = Cost(start, start.Add(63*time.Minute), 10)
	require.NoError(t, err)
	assert.Equal(t, uint32(11), got)
}

func TestCostFloorsPartialMinutes(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// 90 minutes and 59 seconds still counts as 90 whole minutes.
	got, err := Cost(start, start.Add(90*time.Minute+59*time.Second), 6000)
	require.NoError(t, err)
	assert.Equal(t, uint32(9000), got)
}

func TestCostRejectsNegativeInterval(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	_, err := Cost(start, start.Add(-time.Minute), 6000)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = Minutes(start, start.Add(-time.Second))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestMinutes(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	mins, err := Minutes(start, start.Add(75*time.Minute+30*time.Second))
	require.NoError(t, err)
	assert.Equal(t, uint64(75), mins)
}
