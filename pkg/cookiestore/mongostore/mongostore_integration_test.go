//go:build integration

package mongostore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/enccookie/pkg/cookiestore"
	"github.com/dmitrymomot/enccookie/pkg/cookiestore/mongostore"
	"github.com/dmitrymomot/enccookie/pkg/encryptor"
	"github.com/dmitrymomot/enccookie/pkg/mongo"
)

func newStore(t *testing.T) *mongostore.Store {
	t.Helper()

	url := os.Getenv("MONGODB_URL")
	if url == "" {
		url = "mongodb://localhost:27017"
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, mongo.Config{
		ConnectionURL:  url,
		RetryAttempts:  3,
		RetryInterval:  time.Second,
		ConnectTimeout: 10 * time.Second,
	})
	require.NoError(t, err, "failed to connect to MongoDB")
	require.NoError(t, mongo.Healthcheck(client)(ctx))

	coll := client.Database("enccookie_test").Collection("cookies_" + uuid.NewString())
	t.Cleanup(func() {
		_ = coll.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	s := mongostore.New(coll)
	require.NoError(t, s.EnsureIndexes(ctx))
	return s
}

func TestStore_CRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	got, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	exp := time.Now().Add(time.Hour).Truncate(time.Millisecond).UTC()
	require.NoError(t, s.Set(ctx, cookiestore.Item{Name: "a", Value: "1", Path: "/", Expires: exp, Secure: true}))
	require.NoError(t, s.Set(ctx, cookiestore.Item{Name: "b", Value: "2"}))
	require.NoError(t, s.Set(ctx, cookiestore.Item{Name: "a", Value: "1b", Path: "/"}))

	got, err = s.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1b", got.Value)
	assert.True(t, got.Expires.IsZero())

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Name)
	assert.Equal(t, "b", all[1].Name)

	require.NoError(t, s.Delete(ctx, "a"))
	got, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ExpiredHidden(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Set(ctx, cookiestore.Item{Name: "short", Value: "x", MaxAge: 1}))
	require.NoError(t, s.Set(ctx, cookiestore.Item{Name: "past", Value: "x", Expires: time.Now().Add(-time.Minute)}))

	got, err := s.Get(ctx, "past")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Eventually(t, func() bool {
		got, err := s.Get(ctx, "short")
		return err == nil && got == nil
	}, 3*time.Second, 100*time.Millisecond)
}

func TestStore_Encrypted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	key, err := encryptor.DeriveKey(encryptor.DeriveOptions{Secret: []byte("mongo-secret")})
	require.NoError(t, err)
	ring, err := encryptor.NewKeyRing(key)
	require.NoError(t, err)
	under := newStore(t)
	s, err := cookiestore.New(under, ring)
	require.NoError(t, err)

	require.NoError(t, s.SetValue(ctx, "foo", "bar"))
	raw, err := under.Get(ctx, "foo.enc")
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.NotEqual(t, "bar", raw.Value)

	got, err := s.Get(ctx, cookiestore.Name("foo"))
	require.NoError(t, err)
	assert.Equal(t, "bar", got.Value)
}
