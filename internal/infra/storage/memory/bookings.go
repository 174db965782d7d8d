package memory

import (
	"context"
	"sort"
	"sync"

	domainbooking "stayfinder/internal/domain/booking"
	domainlisting "stayfinder/internal/domain/listing"
	"stayfinder/internal/domain/user"
)

type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.ID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.ID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bk, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return bk, nil
}

func (r *BookingRepository) ByGuest(ctx context.Context, guestID user.ID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domainbooking.Booking, 0)
	for _, bk := range r.items {
		if bk.GuestID == guestID {
			result = append(result, bk)
		}
	}
	sortBookings(result)
	return result, nil
}

func (r *BookingRepository) ActiveByListing(ctx context.Context, listingID domainlisting.ID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domainbooking.Booking, 0)
	for _, bk := range r.items {
		if bk.ListingID == listingID && bk.Status.Active() {
			result = append(result, bk)
		}
	}
	sortBookings(result)
	return result, nil
}

func (r *BookingRepository) Save(ctx context.Context, bk *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[bk.ID] = bk
	return nil
}

func sortBookings(items []*domainbooking.Booking) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
