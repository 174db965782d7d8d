package listing

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"stayfinder/internal/domain/user"
)

var (
	ErrTitleRequired       = errors.New("listing: title is required")
	ErrDescriptionRequired = errors.New("listing: description is required")
	ErrLocationRequired    = errors.New("listing: location is required")
	ErrNegativePrice       = errors.New("listing: price per night must be non-negative")
	ErrImagesRequired      = errors.New("listing: at least one image URL is required")
	ErrInvalidImageURL     = errors.New("listing: all images must be valid http(s) URLs")
	ErrGuestsLimit         = errors.New("listing: max guests must be at least 1")
	ErrNegativeRooms       = errors.New("listing: bedrooms, beds and bathrooms must be non-negative")
	ErrHostRequired        = errors.New("listing: host is required")
	ErrNotFound            = errors.New("listing: not found")
)

type ID string

// Listing is a rentable unit published by a host. AvailableDates are
// advisory calendar hints; conflict detection relies on bookings alone.
type Listing struct {
	ID             ID
	HostID         user.ID
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
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Listing, error)
	ByHost(ctx context.Context, hostID user.ID) ([]*Listing, error)
	Page(ctx context.Context, page, limit int) ([]*Listing, int64, error)
	Save(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id ID) error
}

type CreateParams struct {
	ID             ID
	HostID         user.ID
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
	Now            time.Time
}

func New(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("listing: id is required")
	}
	if strings.TrimSpace(string(params.HostID)) == "" {
		return nil, ErrHostRequired
	}
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(params.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if strings.TrimSpace(params.Location) == "" {
		return nil, ErrLocationRequired
	}
	if params.PricePerNight < 0 {
		return nil, ErrNegativePrice
	}
	if err := validateImages(params.Images); err != nil {
		return nil, err
	}
	if params.MaxGuests < 1 {
		return nil, ErrGuestsLimit
	}
	if params.Bedrooms < 0 || params.Beds < 0 || params.Bathrooms < 0 {
		return nil, ErrNegativeRooms
	}

	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	amenities := params.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	availableDates := params.AvailableDates
	if availableDates == nil {
		availableDates = []time.Time{}
	}

	return &Listing{
		ID:             params.ID,
		HostID:         params.HostID,
		Title:          title,
		Description:    params.Description,
		Location:       params.Location,
		PricePerNight:  params.PricePerNight,
		Images:         params.Images,
		Amenities:      amenities,
		MaxGuests:      params.MaxGuests,
		Bedrooms:       params.Bedrooms,
		Beds:           params.Beds,
		Bathrooms:      params.Bathrooms,
		AvailableDates: availableDates,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// UpdateParams carries a partial update. Nil means the field was not
// provided; a present zero value still goes through validation, so a
// price of 0 is a real update and an empty title is rejected.
type UpdateParams struct {
	Title          *string
	Description    *string
	Location       *string
	PricePerNight  *float64
	Images         []string
	Amenities      []string
	MaxGuests      *int
	Bedrooms       *int
	Beds           *int
	Bathrooms      *int
	AvailableDates []time.Time
}

// Apply validates every provided field before mutating the listing, so
// a rejected update leaves the aggregate exactly as it was.
func (l *Listing) Apply(params UpdateParams, now time.Time) error {
	if err := params.validate(); err != nil {
		return err
	}
	if params.Title != nil {
		l.Title = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		l.Description = *params.Description
	}
	if params.Location != nil {
		l.Location = *params.Location
	}
	if params.PricePerNight != nil {
		l.PricePerNight = *params.PricePerNight
	}
	if params.Images != nil {
		l.Images = params.Images
	}
	if params.Amenities != nil {
		l.Amenities = params.Amenities
	}
	if params.MaxGuests != nil {
		l.MaxGuests = *params.MaxGuests
	}
	if params.Bedrooms != nil {
		l.Bedrooms = *params.Bedrooms
	}
	if params.Beds != nil {
		l.Beds = *params.Beds
	}
	if params.Bathrooms != nil {
		l.Bathrooms = *params.Bathrooms
	}
	if params.AvailableDates != nil {
		l.AvailableDates = params.AvailableDates
	}
	l.UpdatedAt = now.UTC()
	return nil
}

func (p UpdateParams) validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrTitleRequired
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return ErrDescriptionRequired
	}
	if p.Location != nil && strings.TrimSpace(*p.Location) == "" {
		return ErrLocationRequired
	}
	if p.PricePerNight != nil && *p.PricePerNight < 0 {
		return ErrNegativePrice
	}
	if p.Images != nil {
		if err := validateImages(p.Images); err != nil {
			return err
		}
	}
	if p.MaxGuests != nil && *p.MaxGuests < 1 {
		return ErrGuestsLimit
	}
	if p.Bedrooms != nil && *p.Bedrooms < 0 {
		return ErrNegativeRooms
	}
	if p.Beds != nil && *p.Beds < 0 {
		return ErrNegativeRooms
	}
	if p.Bathrooms != nil && *p.Bathrooms < 0 {
		return ErrNegativeRooms
	}
	return nil
}

// OwnedBy reports whether the given principal is the publishing host.
func (l *Listing) OwnedBy(id user.ID) bool {
	return l.HostID == id
}

// AddImage appends an uploaded image URL.
func (l *Listing) AddImage(rawURL string, now time.Time) error {
	if !validImageURL(rawURL) {
		return ErrInvalidImageURL
	}
	l.Images = append(l.Images, rawURL)
	l.UpdatedAt = now.UTC()
	return nil
}

func validateImages(images []string) error {
	if len(images) == 0 {
		return ErrImagesRequired
	}
	for _, raw := range images {
		if !validImageURL(raw) {
			return ErrInvalidImageURL
		}
	}
	return nil
}

func validImageURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
