package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlisting "stayfinder/internal/domain/listing"
	"stayfinder/internal/domain/user"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("listings")}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlisting.ID) (*domainlisting.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlisting.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) ByHost(ctx context.Context, hostID user.ID) ([]*domainlisting.Listing, error) {
	return r.findAll(ctx, bson.M{"host_id": string(hostID)}, nil)
}

func (r *ListingRepository) Page(ctx context.Context, page, limit int) ([]*domainlisting.Listing, int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	listings, err := r.findAll(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *ListingRepository) Save(ctx context.Context, lst *domainlisting.Listing) error {
	doc := newListingDocument(lst)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlisting.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainlisting.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainlisting.Listing, error) {
	if opts == nil {
		opts = options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]*domainlisting.Listing, 0)
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toAggregate())
	}
	return result, cursor.Err()
}

type listingDocument struct {
	ID             string   `bson:"_id"`
	HostID         string   `bson:"host_id"`
	Title          string   `bson:"title"`
	Description    string   `bson:"description"`
	Location       string   `bson:"location"`
	PricePerNight  float64  `bson:"price_per_night"`
	Images         []string `bson:"images"`
	Amenities      []string `bson:"amenities"`
	MaxGuests      int      `bson:"max_guests"`
	Bedrooms       int      `bson:"bedrooms"`
	Beds           int      `bson:"beds"`
	Bathrooms      int      `bson:"bathrooms"`
	AvailableDates []int64  `bson:"available_dates"`
	CreatedAt      int64    `bson:"created_at"`
	UpdatedAt      int64    `bson:"updated_at"`
}

func newListingDocument(lst *domainlisting.Listing) listingDocument {
	dates := make([]int64, 0, len(lst.AvailableDates))
	for _, d := range lst.AvailableDates {
		dates = append(dates, d.UnixMilli())
	}
	return listingDocument{
		ID:             string(lst.ID),
		HostID:         string(lst.HostID),
		Title:          lst.Title,
		Description:    lst.Description,
		Location:       lst.Location,
		PricePerNight:  lst.PricePerNight,
		Images:         lst.Images,
		Amenities:      lst.Amenities,
		MaxGuests:      lst.MaxGuests,
		Bedrooms:       lst.Bedrooms,
		Beds:           lst.Beds,
		Bathrooms:      lst.Bathrooms,
		AvailableDates: dates,
		CreatedAt:      lst.CreatedAt.UnixMilli(),
		UpdatedAt:      lst.UpdatedAt.UnixMilli(),
	}
}

func (d listingDocument) toAggregate() *domainlisting.Listing {
	dates := make([]time.Time, 0, len(d.AvailableDates))
	for _, ms := range d.AvailableDates {
		dates = append(dates, timestampToTime(ms))
	}
	return &domainlisting.Listing{
		ID:             domainlisting.ID(d.ID),
		HostID:         user.ID(d.HostID),
		Title:          d.Title,
		Description:    d.Description,
		Location:       d.Location,
		PricePerNight:  d.PricePerNight,
		Images:         d.Images,
		Amenities:      d.Amenities,
		MaxGuests:      d.MaxGuests,
		Bedrooms:       d.Bedrooms,
		Beds:           d.Beds,
		Bathrooms:      d.Bathrooms,
		AvailableDates: dates,
		CreatedAt:      timestampToTime(d.CreatedAt),
		UpdatedAt:      timestampToTime(d.UpdatedAt),
	}
}
