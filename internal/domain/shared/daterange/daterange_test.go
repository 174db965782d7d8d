package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRejectsInvertedRange(t *testing.T) {
	_, err := New(day(2025, 7, 3), day(2025, 7, 1))
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(day(2025, 7, 1), day(2025, 7, 1))
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(time.Time{}, day(2025, 7, 1))
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestOverlaps(t *testing.T) {
	base, err := New(day(2025, 7, 1), day(2025, 7, 3))
	require.NoError(t, err)

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     bool
	}{
		{"identical", day(2025, 7, 1), day(2025, 7, 3), true},
		{"straddles end", day(2025, 7, 2), day(2025, 7, 4), true},
		{"straddles start", day(2025, 6, 30), day(2025, 7, 2), true},
		{"contains", day(2025, 6, 30), day(2025, 7, 4), true},
		{"contained", day(2025, 7, 1), day(2025, 7, 2), true},
		{"checkin on checkout day", day(2025, 7, 3), day(2025, 7, 5), false},
		{"checkout on checkin day", day(2025, 6, 29), day(2025, 7, 1), false},
		{"disjoint after", day(2025, 7, 10), day(2025, 7, 12), false},
		{"disjoint before", day(2025, 6, 1), day(2025, 6, 3), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			other, err := New(tc.checkIn, tc.checkOut)
			require.NoError(t, err)
			assert.Equal(t, tc.want, base.Overlaps(other))
			assert.Equal(t, tc.want, other.Overlaps(base))
		})
	}
}

func TestNightsRoundsTimeOfDayNoise(t *testing.T) {
	dr, err := New(day(2025, 7, 1), day(2025, 7, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, dr.Nights())

	// afternoon check-in, morning check-out still counts whole days
	noisy, err := New(
		time.Date(2025, 7, 1, 15, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 3, 11, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, noisy.Nights())

	single, err := New(day(2025, 7, 1), day(2025, 7, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, single.Nights())
}
