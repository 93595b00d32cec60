package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"devevents/internal/domain"
)

type bookingDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	EventID   primitive.ObjectID `bson:"eventId"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type bookingRepository struct {
	db DatabaseProvider
}

// NewBookingRepository returns a BookingRepository over the bookings collection.
func NewBookingRepository(db DatabaseProvider) domain.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	eventID, err := primitive.ObjectIDFromHex(b.EventID)
	if err != nil {
		return domain.NewValidationError("eventId", "Invalid eventId format: "+b.EventID)
	}
	coll, err := collection(ctx, r.db, BookingsCollection)
	if err != nil {
		return err
	}
	ts := now()
	doc := &bookingDocument{
		ID:        primitive.NewObjectID(),
		EventID:   eventID,
		Email:     b.Email,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return storeError(err)
	}
	b.ID = doc.ID.Hex()
	b.CreatedAt = ts
	b.UpdatedAt = ts
	return nil
}
