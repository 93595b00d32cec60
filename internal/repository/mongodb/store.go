// Package mongodb implements the domain repositories on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devevents/internal/domain"
)

// Collection names.
const (
	EventsCollection   = "events"
	BookingsCollection = "bookings"
)

// DatabaseProvider supplies the shared database handle, connecting on first use.
type DatabaseProvider interface {
	Database(ctx context.Context) (*mongo.Database, error)
}

// EnsureIndexes creates the indexes the repositories rely on. The unique index
// on events.slug is what settles concurrent creates of the same slug.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(EventsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("slug_unique")},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("created_at_desc")},
		{Keys: bson.D{{Key: "tags", Value: 1}}, Options: options.Index().SetName("tags")},
	})
	if err != nil {
		return fmt.Errorf("create event indexes: %w", err)
	}
	_, err = db.Collection(BookingsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "eventId", Value: 1}},
		Options: options.Index().SetName("event_id"),
	})
	if err != nil {
		return fmt.Errorf("create booking indexes: %w", err)
	}
	return nil
}

func collection(ctx context.Context, p DatabaseProvider, name string) (*mongo.Collection, error) {
	db, err := p.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// storeError maps driver errors that mean the deployment could not be reached.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	var connErr *domain.ConnectivityError
	if errors.As(err, &connErr) {
		return err
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return &domain.ConnectivityError{Err: err}
	}
	return err
}

// now returns the store timestamp; BSON dates keep millisecond precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
