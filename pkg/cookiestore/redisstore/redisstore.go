// Package redisstore is a cookiestore.Store kept in Redis.
//
// Each cookie is a JSON document under prefix+name whose TTL follows the
// cookie's expiry. A sorted set under prefix+"index" remembers the order in
// which cookies were first written so GetAll is stable.
//
// Set and Delete touch both keys in one MULTI/EXEC. On Redis Cluster that
// only works when they share a hash slot, so the default prefix carries the
// hash tag "{cookie}" and custom prefixes should carry one too.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/enccookie/pkg/cookiestore"
)

const defaultPrefix = "{cookie}:"

// ErrCorruptItem is returned when a stored document cannot be decoded.
var ErrCorruptItem = errors.New("redisstore.corrupt_item")

// Store keeps cookies in Redis.
type Store struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ cookiestore.Store = (*Store)(nil)

type Option func(*Store)

// WithPrefix namespaces all keys. Defaults to "{cookie}:". Include a hash
// tag such as "{tenant-1}:" when the client talks to a cluster.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New returns a Store using client. Obtain the client from pkg/redis.Connect.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: defaultPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(ctx context.Context, name string) (*cookiestore.Item, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	item, err := decode(data)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetAll returns cookies in first-write order. Index entries whose
// document already expired are pruned on the way.
func (s *Store) GetAll(ctx context.Context) ([]cookiestore.Item, error) {
	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []cookiestore.Item{}, nil
	}

	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = s.key(n)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	items := make([]cookiestore.Item, 0, len(values))
	var stale []any
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			stale = append(stale, names[i])
			continue
		}
		item, err := decode([]byte(str))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Set writes item. Already expired items delete the cookie instead.
func (s *Store) Set(ctx context.Context, item cookiestore.Item) error {
	now := s.now()
	if item.Expired(now) {
		return s.Delete(ctx, item.Name)
	}

	data, err := json.Marshal(item)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if deadline := item.ExpiresAt(now); !deadline.IsZero() {
		ttl = deadline.Sub(now)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(item.Name), data, ttl)
		pipe.ZAddNX(ctx, s.indexKey(), redis.Z{Score: float64(now.UnixNano()), Member: item.Name})
		return nil
	})
	return err
}

func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(name))
		pipe.ZRem(ctx, s.indexKey(), name)
		return nil
	})
	return err
}

func (s *Store) key(name string) string {
	return s.prefix + "item:" + name
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

func decode(data []byte) (cookiestore.Item, error) {
	var item cookiestore.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return cookiestore.Item{}, errors.Join(ErrCorruptItem, err)
	}
	return item, nil
}
