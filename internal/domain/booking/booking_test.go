package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/shared/fault"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	bk, err := New(CreateParams{
		ID:             "b1",
		ListingID:      "l1",
		GuestID:        "g1",
		Range:          dr,
		NumberOfGuests: 2,
		TotalPrice:     200,
	})
	require.NoError(t, err)
	return bk
}

func TestNewBookingStartsPending(t *testing.T) {
	bk := newTestBooking(t)
	assert.Equal(t, StatusPending, bk.Status)
	assert.True(t, bk.Status.Active())
	assert.False(t, bk.Status.Terminal())
}

func TestNewBookingValidation(t *testing.T) {
	dr, err := daterange.New(
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	_, err = New(CreateParams{ID: "b1", ListingID: "l1", GuestID: "g1", Range: dr, NumberOfGuests: 0, TotalPrice: 100})
	assert.ErrorIs(t, err, ErrInvalidGuests)

	_, err = New(CreateParams{ID: "b1", ListingID: "", GuestID: "g1", Range: dr, NumberOfGuests: 1, TotalPrice: 100})
	assert.ErrorIs(t, err, ErrListingRequired)

	_, err = New(CreateParams{ID: "b1", ListingID: "l1", GuestID: "g1", Range: dr, NumberOfGuests: 1, TotalPrice: -1})
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = New(CreateParams{ID: "b1", ListingID: "l1", GuestID: "g1", Range: daterange.DateRange{}, NumberOfGuests: 1, TotalPrice: 100})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestCancelTransitions(t *testing.T) {
	now := time.Now()

	bk := newTestBooking(t)
	require.NoError(t, bk.Cancel(now))
	assert.Equal(t, StatusCancelled, bk.Status)

	// second cancel names the current status
	err := bk.Cancel(now)
	var state *fault.InvalidStateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, "cancelled", state.Current)
}

func TestConfirmAndComplete(t *testing.T) {
	now := time.Now()

	bk := newTestBooking(t)
	require.NoError(t, bk.Confirm(now))
	assert.Equal(t, StatusConfirmed, bk.Status)
	assert.True(t, bk.Status.Active())

	// confirmed bookings can still be cancelled by the guest
	require.NoError(t, bk.Cancel(now))

	bk = newTestBooking(t)
	require.NoError(t, bk.Confirm(now))
	require.NoError(t, bk.Complete(now))
	assert.Equal(t, StatusCompleted, bk.Status)
	assert.True(t, bk.Status.Terminal())

	err := bk.Cancel(now)
	var state *fault.InvalidStateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, "completed", state.Current)
}

func TestCompleteRequiresConfirmed(t *testing.T) {
	bk := newTestBooking(t)
	err := bk.Complete(time.Now())
	var state *fault.InvalidStateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, "pending", state.Current)
}
