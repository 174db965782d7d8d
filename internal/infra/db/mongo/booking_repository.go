package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "stayfinder/internal/domain/booking"
	domainlisting "stayfinder/internal/domain/listing"
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/user"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) ByGuest(ctx context.Context, guestID user.ID) ([]*domainbooking.Booking, error) {
	return r.findAll(ctx, bson.M{"guest_id": string(guestID)})
}

// ActiveByListing narrows to statuses that still occupy dates; overlap
// itself is decided by the caller's interval predicate.
func (r *BookingRepository) ActiveByListing(ctx context.Context, listingID domainlisting.ID) ([]*domainbooking.Booking, error) {
	filter := bson.M{
		"listing_id": string(listingID),
		"status": bson.M{"$in": []string{
			string(domainbooking.StatusPending),
			string(domainbooking.StatusConfirmed),
		}},
	}
	return r.findAll(ctx, filter)
}

func (r *BookingRepository) Save(ctx context.Context, bk *domainbooking.Booking) error {
	doc := newBookingDocument(bk)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *BookingRepository) findAll(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]*domainbooking.Booking, 0)
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toAggregate())
	}
	return result, cursor.Err()
}

type bookingDocument struct {
	ID             string  `bson:"_id"`
	ListingID      string  `bson:"listing_id"`
	GuestID        string  `bson:"guest_id"`
	CheckInDate    int64   `bson:"check_in_date"`
	CheckOutDate   int64   `bson:"check_out_date"`
	NumberOfGuests int     `bson:"number_of_guests"`
	TotalPrice     float64 `bson:"total_price"`
	Status         string  `bson:"status"`
	CreatedAt      int64   `bson:"created_at"`
	UpdatedAt      int64   `bson:"updated_at"`
}

func newBookingDocument(bk *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:             string(bk.ID),
		ListingID:      string(bk.ListingID),
		GuestID:        string(bk.GuestID),
		CheckInDate:    bk.Range.CheckIn.UnixMilli(),
		CheckOutDate:   bk.Range.CheckOut.UnixMilli(),
		NumberOfGuests: bk.NumberOfGuests,
		TotalPrice:     bk.TotalPrice,
		Status:         string(bk.Status),
		CreatedAt:      bk.CreatedAt.UnixMilli(),
		UpdatedAt:      bk.UpdatedAt.UnixMilli(),
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:        domainbooking.ID(d.ID),
		ListingID: domainlisting.ID(d.ListingID),
		GuestID:   user.ID(d.GuestID),
		Range: daterange.DateRange{
			CheckIn:  timestampToTime(d.CheckInDate),
			CheckOut: timestampToTime(d.CheckOutDate),
		},
		NumberOfGuests: d.NumberOfGuests,
		TotalPrice:     d.TotalPrice,
		Status:         domainbooking.Status(d.Status),
		CreatedAt:      timestampToTime(d.CreatedAt),
		UpdatedAt:      timestampToTime(d.UpdatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
