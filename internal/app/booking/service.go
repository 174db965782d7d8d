// Package bookingapp orchestrates the booking lifecycle: creation with
// availability and capacity checks, guest/host reads, and cancellation.
package bookingapp

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"stayfinder/internal/app/events"
	domainbooking "stayfinder/internal/domain/booking"
	domainlisting "stayfinder/internal/domain/listing"
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/shared/fault"
	"stayfinder/internal/domain/user"
)

type Service struct {
	Listings domainlisting.Repository
	Bookings domainbooking.Repository
	Events   events.Publisher
	Logger   *slog.Logger
	Now      func() time.Time
}

type CreateParams struct {
	ListingID      string
	CheckInDate    time.Time
	CheckOutDate   time.Time
	NumberOfGuests int
}

// ListingSummary is the read-side projection attached to booking reads.
type ListingSummary struct {
	ID            domainlisting.ID
	Title         string
	Location      string
	Images        []string
	PricePerNight float64
}

// GuestBooking pairs a booking with its listing summary. Listing is nil
// when the listing has since been deleted.
type GuestBooking struct {
	Booking *domainbooking.Booking
	Listing *ListingSummary
}

// Create runs the validate, check, price, persist sequence. The
// availability check and the insert are two round trips with no range
// lock between them; two concurrent requests for overlapping dates can
// both pass the check.
func (s *Service) Create(ctx context.Context, guestID user.ID, params CreateParams) (*domainbooking.Booking, error) {
	if err := validateCreate(params); err != nil {
		return nil, err
	}
	dr, err := daterange.New(params.CheckInDate, params.CheckOutDate)
	if err != nil {
		return nil, fault.Invalid("checkOutDate", "check-out date must be after check-in date")
	}

	lst, err := s.Listings.ByID(ctx, domainlisting.ID(params.ListingID))
	if err != nil {
		if errors.Is(err, domainlisting.ErrNotFound) {
			return nil, fault.NotFound("listing")
		}
		return nil, err
	}
	if params.NumberOfGuests > lst.MaxGuests {
		return nil, &fault.CapacityError{MaxGuests: lst.MaxGuests}
	}

	available, err := s.IsAvailable(ctx, lst.ID, dr)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, fault.Conflict("selected dates are not available")
	}

	total, err := TotalPrice(dr, lst.PricePerNight)
	if err != nil {
		return nil, err
	}

	bk, err := domainbooking.New(domainbooking.CreateParams{
		ID:             domainbooking.ID(uuid.NewString()),
		ListingID:      lst.ID,
		GuestID:        guestID,
		Range:          dr,
		NumberOfGuests: params.NumberOfGuests,
		TotalPrice:     total,
		Now:            s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, bk); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:       events.TypeBookingRequested,
		Key:        string(bk.ID),
		OccurredAt: bk.CreatedAt,
		Payload: bookingEventPayload{
			BookingID:    string(bk.ID),
			ListingID:    string(bk.ListingID),
			GuestID:      string(bk.GuestID),
			CheckInDate:  bk.Range.CheckIn,
			CheckOutDate: bk.Range.CheckOut,
			TotalPrice:   bk.TotalPrice,
			Status:       string(bk.Status),
		},
	})
	return bk, nil
}

// ForGuest returns the guest's bookings enriched with listing summaries.
func (s *Service) ForGuest(ctx context.Context, guestID user.ID) ([]GuestBooking, error) {
	bookings, err := s.Bookings.ByGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	result := make([]GuestBooking, 0, len(bookings))
	for _, bk := range bookings {
		entry := GuestBooking{Booking: bk}
		lst, err := s.Listings.ByID(ctx, bk.ListingID)
		switch {
		case err == nil:
			entry.Listing = summarize(lst)
		case errors.Is(err, domainlisting.ErrNotFound):
			// listing deleted after booking; surface the booking bare
		default:
			return nil, err
		}
		result = append(result, entry)
	}
	return result, nil
}

// ByID returns a single booking. Either party to the transaction may
// view it: the guest who made it or the host of its listing.
func (s *Service) ByID(ctx context.Context, requesterID user.ID, id domainbooking.ID) (GuestBooking, error) {
	bk, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainbooking.ErrNotFound) {
			return GuestBooking{}, fault.NotFound("booking")
		}
		return GuestBooking{}, err
	}

	entry := GuestBooking{Booking: bk}
	var hostID user.ID
	lst, err := s.Listings.ByID(ctx, bk.ListingID)
	switch {
	case err == nil:
		hostID = lst.HostID
		entry.Listing = summarize(lst)
	case errors.Is(err, domainlisting.ErrNotFound):
	default:
		return GuestBooking{}, err
	}

	if !bk.OwnedBy(requesterID) && (hostID == "" || hostID != requesterID) {
		return GuestBooking{}, fault.Forbidden("not authorized to view this booking")
	}
	return entry, nil
}

// Cancel transitions the booking to cancelled. Only the owning guest may
// cancel, with no time-based cutoff before check-in.
func (s *Service) Cancel(ctx context.Context, requesterID user.ID, id domainbooking.ID) (*domainbooking.Booking, error) {
	bk, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainbooking.ErrNotFound) {
			return nil, fault.NotFound("booking")
		}
		return nil, err
	}
	if !bk.OwnedBy(requesterID) {
		return nil, fault.Forbidden("not authorized to cancel this booking")
	}
	if err := bk.Cancel(s.now()); err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, bk); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:       events.TypeBookingCancelled,
		Key:        string(bk.ID),
		OccurredAt: bk.UpdatedAt,
		Payload: bookingEventPayload{
			BookingID:    string(bk.ID),
			ListingID:    string(bk.ListingID),
			GuestID:      string(bk.GuestID),
			CheckInDate:  bk.Range.CheckIn,
			CheckOutDate: bk.Range.CheckOut,
			TotalPrice:   bk.TotalPrice,
			Status:       string(bk.Status),
		},
	})
	return bk, nil
}

func validateCreate(params CreateParams) error {
	verr := &fault.ValidationError{}
	if strings.TrimSpace(params.ListingID) == "" {
		verr.Add("listingId", "listing ID is required")
	}
	if params.CheckInDate.IsZero() {
		verr.Add("checkInDate", "valid check-in date is required")
	}
	if params.CheckOutDate.IsZero() {
		verr.Add("checkOutDate", "valid check-out date is required")
	}
	if params.NumberOfGuests < 1 {
		verr.Add("numberOfGuests", "number of guests must be at least 1")
	}
	if !params.CheckInDate.IsZero() && !params.CheckOutDate.IsZero() &&
		!params.CheckOutDate.After(params.CheckInDate) {
		verr.Add("checkOutDate", "check-out date must be after check-in date")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

type bookingEventPayload struct {
	BookingID    string    `json:"bookingId"`
	ListingID    string    `json:"listingId"`
	GuestID      string    `json:"guestId"`
	CheckInDate  time.Time `json:"checkInDate"`
	CheckOutDate time.Time `json:"checkOutDate"`
	TotalPrice   float64   `json:"totalPrice"`
	Status       string    `json:"status"`
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, event); err != nil && s.Logger != nil {
		s.Logger.Error("event publish failed", "type", event.Type, "key", event.Key, "error", err)
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func summarize(l *domainlisting.Listing) *ListingSummary {
	return &ListingSummary{
		ID:            l.ID,
		Title:         l.Title,
		Location:      l.Location,
		Images:        l.Images,
		PricePerNight: l.PricePerNight,
	}
}
