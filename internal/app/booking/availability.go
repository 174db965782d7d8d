package bookingapp

import (
	"context"

	domainlisting "stayfinder/internal/domain/listing"
	"stayfinder/internal/domain/shared/daterange"
)

// IsAvailable reports whether the requested range is free of conflicting
// reservations. The store narrows to pending and confirmed bookings; the
// overlap itself is decided here by the half-open interval predicate, so
// a checkout on another stay's check-in day does not conflict.
func (s *Service) IsAvailable(ctx context.Context, listingID domainlisting.ID, dr daterange.DateRange) (bool, error) {
	active, err := s.Bookings.ActiveByListing(ctx, listingID)
	if err != nil {
		return false, err
	}
	for _, bk := range active {
		if dr.Overlaps(bk.Range) {
			return false, nil
		}
	}
	return true, nil
}
