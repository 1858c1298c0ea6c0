package cookiestore_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/enccookie/pkg/cookiestore"
	"github.com/dmitrymomot/enccookie/pkg/cookiestore/memstore"
	"github.com/dmitrymomot/enccookie/pkg/encryptor"
	"github.com/dmitrymomot/enccookie/pkg/logger"
)

func newKey(t *testing.T, id string) *encryptor.Key {
	t.Helper()
	raw, err := encryptor.GenerateKey(256)
	require.NoError(t, err)
	key, err := encryptor.NewKey(raw, encryptor.WithKeyID(id))
	require.NoError(t, err)
	return key
}

func newStore(t *testing.T, under cookiestore.Store, keys ...*encryptor.Key) *cookiestore.EncryptedStore {
	t.Helper()
	ring, err := encryptor.NewKeyRing(keys[0], keys[1:]...)
	require.NoError(t, err)
	s, err := cookiestore.New(under, ring)
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	t.Parallel()
	ring, err := encryptor.NewKeyRing(newKey(t, ""))
	require.NoError(t, err)

	_, err = cookiestore.New(nil, ring)
	require.ErrorIs(t, err, cookiestore.ErrNoStore)

	_, err = cookiestore.New(memstore.New(), nil)
	require.ErrorIs(t, err, cookiestore.ErrNoKeyRing)
}

func TestEncryptedStore_Naming(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	under := memstore.New()
	s := newStore(t, under, newKey(t, ""))

	require.NoError(t, s.SetValue(ctx, "foo", "bar"))

	raw, err := under.Get(ctx, "foo.enc")
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.NotEqual(t, "bar", raw.Value)

	plain, err := under.Get(ctx, "foo")
	require.NoError(t, err)
	assert.Nil(t, plain, "nothing is stored under the logical name")

	got, err := s.Get(ctx, cookiestore.Name("foo"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "foo", got.Name)
	assert.Equal(t, "bar", got.Value)
}

func TestEncryptedStore_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t, memstore.New(), newKey(t, ""))

	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"ascii", "hello"},
		{"unicode", "Привет, 世界"},
		{"json", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.NoError(t, s.SetValue(ctx, tt.name, tt.value))
			got, err := s.Get(ctx, cookiestore.Name(tt.name))
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.value, got.Value)
		})
	}
}

func TestEncryptedStore_SetForwardsMetadata(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	under := memstore.New()
	s := newStore(t, under, newKey(t, ""))

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	in := cookiestore.Item{
		Name:        "session",
		Value:       "user-42",
		Domain:      "example.com",
		Path:        "/app",
		Expires:     expires,
		Secure:      true,
		HTTPOnly:    true,
		SameSite:    http.SameSiteStrictMode,
		Partitioned: true,
	}
	require.NoError(t, s.Set(ctx, in))

	raw, err := under.Get(ctx, "session.enc")
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.Equal(t, "example.com", raw.Domain)
	assert.Equal(t, "/app", raw.Path)
	assert.Equal(t, expires, raw.Expires)
	assert.True(t, raw.Secure)
	assert.True(t, raw.HTTPOnly)
	assert.Equal(t, http.SameSiteStrictMode, raw.SameSite)
	assert.True(t, raw.Partitioned)

	got, err := s.Get(ctx, cookiestore.Name("session"))
	require.NoError(t, err)
	assert.Equal(t, in, *got)
}

func TestEncryptedStore_GetMissing(t *testing.T) {
	t.Parallel()
	s := newStore(t, memstore.New(), newKey(t, ""))

	got, err := s.Get(context.Background(), cookiestore.Name("nope"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEncryptedStore_KeyRotation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	under := memstore.New()
	oldKey, newKeyV := newKey(t, "old"), newKey(t, "new")

	require.NoError(t, newStore(t, under, oldKey).SetValue(ctx, "theme", "dark"))

	rotated := newStore(t, under, newKeyV, oldKey)
	got, err := rotated.Get(ctx, cookiestore.Name("theme"))
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Value)

	_, err = newStore(t, under, newKeyV).Get(ctx, cookiestore.Name("theme"))
	require.ErrorIs(t, err, encryptor.ErrDecryptionFailed)
	var decErr *encryptor.DecryptionError
	require.ErrorAs(t, err, &decErr)
	assert.Len(t, decErr.Errs, 1)

	// New writes use the active key only.
	require.NoError(t, rotated.SetValue(ctx, "theme", "light"))
	got, err = newStore(t, under, newKeyV).Get(ctx, cookiestore.Name("theme"))
	require.NoError(t, err)
	assert.Equal(t, "light", got.Value)
}

func TestEncryptedStore_GetMalformed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	under := memstore.New()
	s := newStore(t, under, newKey(t, ""))

	require.NoError(t, under.Set(ctx, cookiestore.Item{Name: "bad.enc", Value: "c2hvcnQ"}))
	_, err := s.Get(ctx, cookiestore.Name("bad"))
	require.ErrorIs(t, err, encryptor.ErrMalformedEnvelope)
}

func TestEncryptedStore_GetAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	under := memstore.New()
	s := newStore(t, under, newKey(t, ""))

	require.NoError(t, under.Set(ctx, cookiestore.Item{Name: "plain", Value: "visible"}))
	require.NoError(t, s.SetValue(ctx, "secret", "hidden"))
	require.NoError(t, s.SetValue(ctx, "other", "value"))

	items, err := s.GetAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, cookiestore.Item{Name: "secret", Value: "hidden"}, items[0])
	assert.Equal(t, cookiestore.Item{Name: "other", Value: "value"}, items[1])
}

func TestEncryptedStore_GetAllFailurePolicy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	under := memstore.New()
	key := newKey(t, "")

	require.NoError(t, newStore(t, under, newKey(t, "foreign")).SetValue(ctx, "foreign", "x"))
	require.NoError(t, newStore(t, under, key).SetValue(ctx, "mine", "ok"))

	t.Run("abort by default", func(t *testing.T) {
		t.Parallel()
		_, err := newStore(t, under, key).GetAll(ctx, nil)
		require.ErrorIs(t, err, encryptor.ErrDecryptionFailed)
	})

	t.Run("skip when configured", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		ring, err := encryptor.NewKeyRing(key)
		require.NoError(t, err)
		s, err := cookiestore.New(under, ring,
			cookiestore.WithSkipUndecryptable(),
			cookiestore.WithLogger(logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelDebug))),
		)
		require.NoError(t, err)

		items, err := s.GetAll(ctx, nil)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "mine", items[0].Name)
		assert.Contains(t, buf.String(), "foreign.enc")
	})
}

func TestEncryptedStore_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	under := memstore.New()
	s := newStore(t, under, newKey(t, ""))

	require.NoError(t, under.Set(ctx, cookiestore.Item{Name: "foo", Value: "plain"}))
	require.NoError(t, s.SetValue(ctx, "foo", "secret"))
	require.NoError(t, s.Delete(ctx, cookiestore.Name("foo")))

	raw, err := under.Get(ctx, "foo.enc")
	require.NoError(t, err)
	assert.Nil(t, raw)

	plain, err := under.Get(ctx, "foo")
	require.NoError(t, err)
	require.NotNil(t, plain, "unencrypted cookie with the logical name is untouched")
}

func TestEncryptedStore_UnsupportedOverloads(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t, memstore.New(), newKey(t, ""))
	query := cookiestore.Query{Name: "foo", URL: "https://example.com"}

	_, err := s.Get(ctx, query)
	require.ErrorIs(t, err, cookiestore.ErrUnsupportedOverload)
	_, err = s.Get(ctx, nil)
	require.ErrorIs(t, err, cookiestore.ErrUnsupportedOverload)

	_, err = s.GetAll(ctx, query)
	require.ErrorIs(t, err, cookiestore.ErrUnsupportedOverload)
	_, err = s.GetAll(ctx, cookiestore.Name("foo"))
	require.ErrorIs(t, err, cookiestore.ErrUnsupportedOverload)

	require.ErrorIs(t, s.Delete(ctx, query), cookiestore.ErrUnsupportedOverload)
	require.ErrorIs(t, s.Delete(ctx, nil), cookiestore.ErrUnsupportedOverload)
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (*cookiestore.Item, error) { return nil, f.err }
func (f failingStore) GetAll(context.Context) ([]cookiestore.Item, error) { return nil, f.err }
func (f failingStore) Set(context.Context, cookiestore.Item) error { return f.err }
func (f failingStore) Delete(context.Context, string) error { return f.err }

func TestEncryptedStore_PropagatesStoreErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("boom")
	s := newStore(t, failingStore{err: boom}, newKey(t, ""))

	_, err := s.Get(ctx, cookiestore.Name("a"))
	require.ErrorIs(t, err, boom)
	_, err = s.GetAll(ctx, nil)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, s.SetValue(ctx, "a", "b"), boom)
	require.ErrorIs(t, s.Delete(ctx, cookiestore.Name("a")), boom)

	assert.Empty(t, s.AddListener(func(context.Context, cookiestore.ChangeEvent) {}))
	s.RemoveListener("x")
	assert.False(t, s.Dispatch(ctx, cookiestore.ChangeEvent{}))
}

func TestEncryptedStore_EventsPassThrough(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	under := memstore.New()
	s := newStore(t, under, newKey(t, ""))

	var mu sync.Mutex
	var names []string
	id := s.AddListener(func(_ context.Context, ev cookiestore.ChangeEvent) {
		mu.Lock()
		defer mu.Unlock()
		for _, it := range ev.Changed {
			names = append(names, it.Name)
		}
	})
	require.NotEmpty(t, id)

	require.NoError(t, s.SetValue(ctx, "foo", "bar"))
	assert.Equal(t, []string{"foo.enc"}, names, "events carry stored items unchanged")

	assert.True(t, s.Dispatch(ctx, cookiestore.ChangeEvent{Changed: []cookiestore.Item{{Name: "manual"}}}))
	assert.Equal(t, []string{"foo.enc", "manual"}, names)

	s.RemoveListener(id)
	assert.False(t, s.Dispatch(ctx, cookiestore.ChangeEvent{}))
}

func TestEncryptedStore_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t, memstore.New(), newKey(t, ""))

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := "c" + strings.Repeat("x", i)
			assert.NoError(t, s.SetValue(ctx, name, name))
			got, err := s.Get(ctx, cookiestore.Name(name))
			assert.NoError(t, err)
			if assert.NotNil(t, got) {
				assert.Equal(t, name, got.Value)
			}
		}()
	}
	wg.Wait()
}
