package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoCache(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	ns := func(mt *mtest.T) string {
		return mt.Coll.Database().Name() + "." + mt.Coll.Name()
	}

	mt.Run("get hit", func(mt *mtest.T) {
		c := NewMongoCacheFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "k"},
			{Key: "data", Value: []byte("payload")},
		}))

		data, hit, err := c.Get(ctx, "k")
		require.NoError(mt, err)
		assert.True(mt, hit)
		assert.Equal(mt, []byte("payload"), data)
	})

	mt.Run("get miss", func(mt *mtest.T) {
		c := NewMongoCacheFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		data, hit, err := c.Get(ctx, "k")
		require.NoError(mt, err)
		assert.False(mt, hit)
		assert.Nil(mt, data)
	})

	mt.Run("get expired", func(mt *mtest.T) {
		c := NewMongoCacheFromCollection(mt.Coll)
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "k"},
			{Key: "data", Value: []byte("stale")},
			{Key: "expires_at", Value: now.Add(-time.Minute)},
		}))

		_, hit, err := c.Get(ctx, "k")
		require.NoError(mt, err)
		assert.False(mt, hit)
	})

	mt.Run("set upserts", func(mt *mtest.T) {
		c := NewMongoCacheFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: "k"}}}},
		))

		require.NoError(mt, c.Set(ctx, "k", []byte("v"), time.Hour))

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
	})

	mt.Run("set error", func(mt *mtest.T) {
		c := NewMongoCacheFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad value",
		}))

		assert.Error(mt, c.Set(ctx, "k", []byte("v"), 0))
	})

	mt.Run("delete", func(mt *mtest.T) {
		c := NewMongoCacheFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, c.Delete(ctx, "k"))
	})

	mt.Run("clear", func(mt *mtest.T) {
		c := NewMongoCacheFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))

		require.NoError(mt, c.Clear(ctx))
	})

	mt.Run("close borrowed", func(mt *mtest.T) {
		c := NewMongoCacheFromCollection(mt.Coll)
		assert.NoError(mt, c.Close())
	})
}
