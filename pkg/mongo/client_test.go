package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/enccookie/pkg/mongo"
)

func TestConnect_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := mongo.Connect(context.Background(), mongo.Config{})
	require.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)

	_, err = mongo.Connect(context.Background(), mongo.Config{ConnectionURL: "postgres://nope"})
	require.ErrorIs(t, err, mongo.ErrInvalidConfig)
}

func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := mongo.Connect(ctx, mongo.Config{
		ConnectionURL:  "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200",
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: 200 * time.Millisecond,
	})
	require.ErrorIs(t, err, mongo.ErrMongoNotReady)
}
