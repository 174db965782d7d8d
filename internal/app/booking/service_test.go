package bookingapp

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder/internal/app/events"
	domainbooking "stayfinder/internal/domain/booking"
	domainlisting "stayfinder/internal/domain/listing"
	"stayfinder/internal/domain/shared/fault"
	"stayfinder/internal/domain/user"
	"stayfinder/internal/infra/storage/memory"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]string, 0, len(p.events))
	for _, e := range p.events {
		result = append(result, e.Type)
	}
	return result
}

type fixture struct {
	service   *Service
	listings  *memory.ListingRepository
	bookings  *memory.BookingRepository
	published *capturePublisher
	listing   *domainlisting.Listing
}

const (
	hostID  = user.ID("host-1")
	guestID = user.ID("guest-1")
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	listings := memory.NewListingRepository()
	bookings := memory.NewBookingRepository()
	published := &capturePublisher{}

	lst, err := domainlisting.New(domainlisting.CreateParams{
		ID:            "listing-1",
		HostID:        hostID,
		Title:         "Canal loft",
		Description:   "Bright loft by the water",
		Location:      "Amsterdam",
		PricePerNight: 100,
		Images:        []string{"https://cdn.example.com/loft.jpg"},
		MaxGuests:     2,
	})
	require.NoError(t, err)
	require.NoError(t, listings.Save(context.Background(), lst))

	return &fixture{
		service: &Service{
			Listings: listings,
			Bookings: bookings,
			Events:   published,
		},
		listings:  listings,
		bookings:  bookings,
		published: published,
		listing:   lst,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) create(t *testing.T, guest user.ID, checkIn, checkOut time.Time, guests int) *domainbooking.Booking {
	t.Helper()
	bk, err := f.service.Create(context.Background(), guest, CreateParams{
		ListingID:      string(f.listing.ID),
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: guests,
	})
	require.NoError(t, err)
	return bk
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	bk := f.create(t, guestID, day(2025, 7, 1), day(2025, 7, 3), 2)
	assert.Equal(t, domainbooking.StatusPending, bk.Status)
	assert.Equal(t, guestID, bk.GuestID)
	assert.Equal(t, 200.0, bk.TotalPrice)
	assert.Equal(t, []string{events.TypeBookingRequested}, f.published.types())

	stored, err := f.bookings.ByID(context.Background(), bk.ID)
	require.NoError(t, err)
	assert.Equal(t, bk.ID, stored.ID)
}

func TestCreateRejectsInvertedRange(t *testing.T) {
	f := newFixture(t)

	for _, dates := range [][2]time.Time{
		{day(2025, 7, 3), day(2025, 7, 1)},
		{day(2025, 7, 1), day(2025, 7, 1)},
	} {
		_, err := f.service.Create(context.Background(), guestID, CreateParams{
			ListingID:      string(f.listing.ID),
			CheckInDate:    dates[0],
			CheckOutDate:   dates[1],
			NumberOfGuests: 1,
		})
		var verr *fault.ValidationError
		require.ErrorAs(t, err, &verr)
	}
	assert.Empty(t, f.published.types())
}

func TestCreateRejectsSubDayStay(t *testing.T) {
	f := newFixture(t)

	// check-out is after check-in yet rounds to zero nights
	_, err := f.service.Create(context.Background(), guestID, CreateParams{
		ListingID:      string(f.listing.ID),
		CheckInDate:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate:   time.Date(2025, 7, 1, 6, 0, 0, 0, time.UTC),
		NumberOfGuests: 1,
	})
	var verr *fault.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, f.published.types())
}

func TestCreateValidationCollectsFieldErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), guestID, CreateParams{})
	var verr *fault.ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make(map[string]bool)
	for _, fe := range verr.Fields {
		fields[fe.Field] = true
	}
	assert.True(t, fields["listingId"])
	assert.True(t, fields["checkInDate"])
	assert.True(t, fields["checkOutDate"])
	assert.True(t, fields["numberOfGuests"])
}

func TestCreateUnknownListing(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), guestID, CreateParams{
		ListingID:      "missing",
		CheckInDate:    day(2025, 7, 1),
		CheckOutDate:   day(2025, 7, 3),
		NumberOfGuests: 1,
	})
	var notFound *fault.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCreateOverCapacity(t *testing.T) {
	f := newFixture(t)

	// capacity is checked regardless of date availability
	_, err := f.service.Create(context.Background(), guestID, CreateParams{
		ListingID:      string(f.listing.ID),
		CheckInDate:    day(2025, 7, 1),
		CheckOutDate:   day(2025, 7, 3),
		NumberOfGuests: 3,
	})
	var capacity *fault.CapacityError
	require.ErrorAs(t, err, &capacity)
	assert.Equal(t, 2, capacity.MaxGuests)
}

func TestCreateOverlapScenario(t *testing.T) {
	f := newFixture(t)

	first := f.create(t, guestID, day(2025, 7, 1), day(2025, 7, 3), 2)
	require.NoError(t, first.Confirm(time.Now()))
	require.NoError(t, f.bookings.Save(context.Background(), first))

	// overlapping request conflicts
	_, err := f.service.Create(context.Background(), "guest-2", CreateParams{
		ListingID:      string(f.listing.ID),
		CheckInDate:    day(2025, 7, 2),
		CheckOutDate:   day(2025, 7, 4),
		NumberOfGuests: 1,
	})
	var conflict *fault.ConflictError
	require.ErrorAs(t, err, &conflict)

	// back-to-back stay starting on the checkout day succeeds
	next := f.create(t, "guest-2", day(2025, 7, 3), day(2025, 7, 5), 1)
	assert.Equal(t, 200.0, next.TotalPrice)
}

func TestCancelledBookingFreesDates(t *testing.T) {
	f := newFixture(t)

	first := f.create(t, guestID, day(2025, 7, 1), day(2025, 7, 3), 1)
	_, err := f.service.Cancel(context.Background(), guestID, first.ID)
	require.NoError(t, err)

	// same dates are available again
	f.create(t, "guest-2", day(2025, 7, 1), day(2025, 7, 3), 1)
}

func TestActiveBookingsNeverOverlap(t *testing.T) {
	f := newFixture(t)

	f.create(t, guestID, day(2025, 7, 1), day(2025, 7, 4), 1)
	f.create(t, "guest-2", day(2025, 7, 4), day(2025, 7, 6), 1)
	_, err := f.service.Create(context.Background(), "guest-3", CreateParams{
		ListingID:      string(f.listing.ID),
		CheckInDate:    day(2025, 7, 3),
		CheckOutDate:   day(2025, 7, 5),
		NumberOfGuests: 1,
	})
	var conflict *fault.ConflictError
	require.ErrorAs(t, err, &conflict)

	active, err := f.bookings.ActiveByListing(context.Background(), f.listing.ID)
	require.NoError(t, err)
	for i, a := range active {
		for j, b := range active {
			if i == j {
				continue
			}
			assert.False(t, a.Range.Overlaps(b.Range),
				"active bookings %s and %s overlap", a.ID, b.ID)
		}
	}
}

func TestForGuestEnrichesWithListingSummary(t *testing.T) {
	f := newFixture(t)

	bk := f.create(t, guestID, day(2025, 7, 1), day(2025, 7, 3), 1)
	result, err := f.service.ForGuest(context.Background(), guestID)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, bk.ID, result[0].Booking.ID)
	require.NotNil(t, result[0].Listing)
	assert.Equal(t, "Canal loft", result[0].Listing.Title)
	assert.Equal(t, 100.0, result[0].Listing.PricePerNight)
}

func TestForGuestSurvivesDeletedListing(t *testing.T) {
	f := newFixture(t)

	f.create(t, guestID, day(2025, 7, 1), day(2025, 7, 3), 1)
	require.NoError(t, f.listings.Delete(context.Background(), f.listing.ID))

	result, err := f.service.ForGuest(context.Background(), guestID)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Nil(t, result[0].Listing)
}

func TestByIDDualAccess(t *testing.T) {
	f := newFixture(t)
	bk := f.create(t, guestID, day(2025, 7, 1), day(2025, 7, 3), 1)

	// owning guest may view
	entry, err := f.service.ByID(context.Background(), guestID, bk.ID)
	require.NoError(t, err)
	assert.Equal(t, bk.ID, entry.Booking.ID)

	// host of the listing may view
	entry, err = f.service.ByID(context.Background(), hostID, bk.ID)
	require.NoError(t, err)
	assert.Equal(t, bk.ID, entry.Booking.ID)

	// any other principal may not
	_, err = f.service.ByID(context.Background(), "stranger", bk.ID)
	var authz *fault.AuthorizationError
	require.ErrorAs(t, err, &authz)
}

func TestByIDNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.ByID(context.Background(), guestID, "missing")
	var notFound *fault.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	bk := f.create(t, guestID, day(2025, 7, 1), day(2025, 7, 3), 1)

	cancelled, err := f.service.Cancel(context.Background(), guestID, bk.ID)
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusCancelled, cancelled.Status)
	assert.Equal(t,
		[]string{events.TypeBookingRequested, events.TypeBookingCancelled},
		f.published.types())
}

func TestCancelTwiceRejectsSecond(t *testing.T) {
	f := newFixture(t)
	bk := f.create(t, guestID, day(2025, 7, 1), day(2025, 7, 3), 1)

	_, err := f.service.Cancel(context.Background(), guestID, bk.ID)
	require.NoError(t, err)

	_, err = f.service.Cancel(context.Background(), guestID, bk.ID)
	var state *fault.InvalidStateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, "cancelled", state.Current)
}

func TestCancelOnlyByOwningGuest(t *testing.T) {
	f := newFixture(t)
	bk := f.create(t, guestID, day(2025, 7, 1), day(2025, 7, 3), 1)

	// the host cannot cancel on the guest's behalf
	_, err := f.service.Cancel(context.Background(), hostID, bk.ID)
	var authz *fault.AuthorizationError
	require.ErrorAs(t, err, &authz)

	stored, err := f.bookings.ByID(context.Background(), bk.ID)
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusPending, stored.Status)
}
