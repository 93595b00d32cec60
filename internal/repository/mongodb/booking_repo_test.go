package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"devevents/internal/domain"
)

func TestBookingRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewBookingRepository(staticProvider{db: mt.DB})
		eventID := primitive.NewObjectID()
		b := &domain.Booking{EventID: eventID.Hex(), Email: "ada@example.com"}

		require.NoError(mt, repo.Create(context.Background(), b))
		assert.True(mt, primitive.IsValidObjectID(b.ID))
		assert.False(mt, b.CreatedAt.IsZero())

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, BookingsCollection, started.Command.Lookup("insert").StringValue())
		docs, err := started.Command.Lookup("documents").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, docs, 1)
		stored := docs[0].Document()
		assert.Equal(mt, eventID, stored.Lookup("eventId").ObjectID())
		assert.Equal(mt, "ada@example.com", stored.Lookup("email").StringValue())
	})

	mt.Run("invalid event id", func(mt *mtest.T) {
		repo := NewBookingRepository(staticProvider{db: mt.DB})
		err := repo.Create(context.Background(), &domain.Booking{EventID: "nope", Email: "a@b.co"})
		require.ErrorIs(mt, err, domain.ErrValidation)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("server error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 1, Message: "internal", Name: "InternalError"}))
		repo := NewBookingRepository(staticProvider{db: mt.DB})
		err := repo.Create(context.Background(), &domain.Booking{EventID: primitive.NewObjectID().Hex(), Email: "a@b.co"})
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, domain.ErrValidation)
	})
}
