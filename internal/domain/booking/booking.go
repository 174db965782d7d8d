package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayfinder/internal/domain/listing"
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/shared/fault"
	"stayfinder/internal/domain/user"
)

var (
	ErrGuestRequired   = errors.New("booking: guest id is required")
	ErrListingRequired = errors.New("booking: listing id is required")
	ErrInvalidGuests   = errors.New("booking: number of guests must be at least 1")
	ErrNegativePrice   = errors.New("booking: total price must be non-negative")
	ErrNotFound        = errors.New("booking: not found")
)

type ID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Terminal reports whether no further transition is defined for s.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Active reports whether the booking occupies its date range for
// conflict detection.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Booking is a guest's reservation of a listing for a date range.
// TotalPrice is computed at creation and never recalculated.
type Booking struct {
	ID             ID
	ListingID      listing.ID
	GuestID        user.ID
	Range          daterange.DateRange
	NumberOfGuests int
	TotalPrice     float64
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Booking, error)
	ByGuest(ctx context.Context, guestID user.ID) ([]*Booking, error)
	// ActiveByListing returns the listing's bookings whose status still
	// occupies dates (pending or confirmed).
	ActiveByListing(ctx context.Context, listingID listing.ID) ([]*Booking, error)
	Save(ctx context.Context, booking *Booking) error
}

type CreateParams struct {
	ID             ID
	ListingID      listing.ID
	GuestID        user.ID
	Range          daterange.DateRange
	NumberOfGuests int
	TotalPrice     float64
	Now            time.Time
}

func New(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("booking: id is required")
	}
	if strings.TrimSpace(string(params.ListingID)) == "" {
		return nil, ErrListingRequired
	}
	if strings.TrimSpace(string(params.GuestID)) == "" {
		return nil, ErrGuestRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.NumberOfGuests < 1 {
		return nil, ErrInvalidGuests
	}
	if params.TotalPrice < 0 {
		return nil, ErrNegativePrice
	}

	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &Booking{
		ID:             params.ID,
		ListingID:      params.ListingID,
		GuestID:        params.GuestID,
		Range:          params.Range,
		NumberOfGuests: params.NumberOfGuests,
		TotalPrice:     params.TotalPrice,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Cancel transitions to cancelled. Terminal bookings reject the
// transition naming their current status.
func (b *Booking) Cancel(now time.Time) error {
	if b.Status.Terminal() {
		return &fault.InvalidStateError{Current: string(b.Status)}
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	return nil
}

// Confirm is driven by an external confirmation process; no request
// path in this service triggers it.
func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return &fault.InvalidStateError{Current: string(b.Status)}
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	return nil
}

// Complete marks a confirmed stay as finished, also externally driven.
func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusConfirmed {
		return &fault.InvalidStateError{Current: string(b.Status)}
	}
	b.Status = StatusCompleted
	b.UpdatedAt = now.UTC()
	return nil
}

// OwnedBy reports whether the given principal made the booking.
func (b *Booking) OwnedBy(id user.ID) bool {
	return b.GuestID == id
}
