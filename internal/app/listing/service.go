// Package listingapp manages the listing catalog: public reads with
// pagination and host-owned create, update, delete and photo upload.
package listingapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"stayfinder/internal/app/events"
	domainlisting "stayfinder/internal/domain/listing"
	"stayfinder/internal/domain/shared/fault"
	"stayfinder/internal/domain/user"
)

const defaultPageSize = 10

// Uploader stores binary content and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}

type Service struct {
	Listings domainlisting.Repository
	Photos   Uploader
	Events   events.Publisher
	Logger   *slog.Logger
	Now      func() time.Time
}

type PageResult struct {
	Listings []*domainlisting.Listing
	Page     int
	Pages    int
	Total    int64
}

// Page returns one page of the public catalog. Out-of-range inputs fall
// back to the defaults rather than failing.
func (s *Service) Page(ctx context.Context, page, limit int) (PageResult, error) {
	if limit < 1 {
		limit = defaultPageSize
	}
	if page < 1 {
		page = 1
	}
	listings, total, err := s.Listings.Page(ctx, page, limit)
	if err != nil {
		return PageResult{}, err
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return PageResult{Listings: listings, Page: page, Pages: pages, Total: total}, nil
}

func (s *Service) ByID(ctx context.Context, id domainlisting.ID) (*domainlisting.Listing, error) {
	lst, err := s.Listings.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainlisting.ErrNotFound) {
			return nil, fault.NotFound("listing")
		}
		return nil, err
	}
	return lst, nil
}

func (s *Service) ByHost(ctx context.Context, hostID user.ID) ([]*domainlisting.Listing, error) {
	return s.Listings.ByHost(ctx, hostID)
}

type CreateParams struct {
	Title          string
	Description    string
	Location       string
	PricePerNight  float64
	Images         []string
	Amenities      []string
	MaxGuests      int
	Bedrooms       int
	Beds           int
	Bathrooms      int
	AvailableDates []time.Time
}

func (s *Service) Create(ctx context.Context, hostID user.ID, params CreateParams) (*domainlisting.Listing, error) {
	lst, err := domainlisting.New(domainlisting.CreateParams{
		ID:             domainlisting.ID(uuid.NewString()),
		HostID:         hostID,
		Title:          params.Title,
		Description:    params.Description,
		Location:       params.Location,
		PricePerNight:  params.PricePerNight,
		Images:         params.Images,
		Amenities:      params.Amenities,
		MaxGuests:      params.MaxGuests,
		Bedrooms:       params.Bedrooms,
		Beds:           params.Beds,
		Bathrooms:      params.Bathrooms,
		AvailableDates: params.AvailableDates,
		Now:            s.now(),
	})
	if err != nil {
		return nil, asValidation(err)
	}
	if err := s.Listings.Save(ctx, lst); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:       events.TypeListingCreated,
		Key:        string(lst.ID),
		OccurredAt: lst.CreatedAt,
		Payload:    listingEventPayload{ListingID: string(lst.ID), HostID: string(lst.HostID)},
	})
	return lst, nil
}

// Update applies a partial update on behalf of the owning host.
func (s *Service) Update(ctx context.Context, hostID user.ID, id domainlisting.ID, params domainlisting.UpdateParams) (*domainlisting.Listing, error) {
	lst, err := s.ownedListing(ctx, hostID, id, "update")
	if err != nil {
		return nil, err
	}
	if err := lst.Apply(params, s.now()); err != nil {
		return nil, asValidation(err)
	}
	if err := s.Listings.Save(ctx, lst); err != nil {
		return nil, err
	}
	return lst, nil
}

// Delete removes the listing. Existing bookings keep their listing
// reference and are surfaced without enrichment afterwards.
func (s *Service) Delete(ctx context.Context, hostID user.ID, id domainlisting.ID) error {
	lst, err := s.ownedListing(ctx, hostID, id, "delete")
	if err != nil {
		return err
	}
	if err := s.Listings.Delete(ctx, lst.ID); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Type:       events.TypeListingDeleted,
		Key:        string(lst.ID),
		OccurredAt: s.now().UTC(),
		Payload:    listingEventPayload{ListingID: string(lst.ID), HostID: string(lst.HostID)},
	})
	return nil
}

// AddPhoto uploads an image for the listing and appends its public URL.
func (s *Service) AddPhoto(ctx context.Context, hostID user.ID, id domainlisting.ID, filename, contentType string, content io.Reader) (*domainlisting.Listing, error) {
	if s.Photos == nil {
		return nil, errors.New("listingapp: photo storage is not configured")
	}
	lst, err := s.ownedListing(ctx, hostID, id, "update")
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("listings/%s/%s%s", lst.ID, uuid.NewString(), path.Ext(filename))
	publicURL, err := s.Photos.Upload(ctx, key, content, contentType)
	if err != nil {
		return nil, err
	}
	if err := lst.AddImage(publicURL, s.now()); err != nil {
		return nil, asValidation(err)
	}
	if err := s.Listings.Save(ctx, lst); err != nil {
		return nil, err
	}
	return lst, nil
}

func (s *Service) ownedListing(ctx context.Context, hostID user.ID, id domainlisting.ID, action string) (*domainlisting.Listing, error) {
	lst, err := s.Listings.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainlisting.ErrNotFound) {
			return nil, fault.NotFound("listing")
		}
		return nil, err
	}
	if !lst.OwnedBy(hostID) {
		return nil, fault.Forbidden("not authorized to %s this listing", action)
	}
	return lst, nil
}

var listingFieldErrors = map[error]string{
	domainlisting.ErrTitleRequired:       "title",
	domainlisting.ErrDescriptionRequired: "description",
	domainlisting.ErrLocationRequired:    "location",
	domainlisting.ErrNegativePrice:       "pricePerNight",
	domainlisting.ErrImagesRequired:      "images",
	domainlisting.ErrInvalidImageURL:     "images",
	domainlisting.ErrGuestsLimit:         "maxGuests",
	domainlisting.ErrNegativeRooms:       "bedrooms",
}

func asValidation(err error) error {
	for sentinel, field := range listingFieldErrors {
		if errors.Is(err, sentinel) {
			return fault.Invalid(field, sentinel.Error())
		}
	}
	return err
}

type listingEventPayload struct {
	ListingID string `json:"listingId"`
	HostID    string `json:"hostId"`
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
