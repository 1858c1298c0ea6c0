// Package mongostore is a cookiestore.Store backed by a MongoDB collection.
//
// One document per cookie, keyed by name. Documents carry an expires_at
// field; EnsureIndexes puts a TTL index on it so the server reaps expired
// cookies, and reads filter them out until it does.
package mongostore

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/enccookie/pkg/cookiestore"
)

type document struct {
	Name        string     `bson:"_id"`
	Value       string     `bson:"value"`
	Domain      string     `bson:"domain,omitempty"`
	Path        string     `bson:"path,omitempty"`
	Expires     time.Time  `bson:"expires,omitempty"`
	MaxAge      int        `bson:"max_age,omitempty"`
	Secure      bool       `bson:"secure,omitempty"`
	HTTPOnly    bool       `bson:"http_only,omitempty"`
	SameSite    int        `bson:"same_site,omitempty"`
	Partitioned bool       `bson:"partitioned,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
	ExpiresAt   *time.Time `bson:"expires_at,omitempty"`
}

func (d document) item() cookiestore.Item {
	return cookiestore.Item{
		Name:        d.Name,
		Value:       d.Value,
		Domain:      d.Domain,
		Path:        d.Path,
		Expires:     d.Expires,
		MaxAge:      d.MaxAge,
		Secure:      d.Secure,
		HTTPOnly:    d.HTTPOnly,
		SameSite:    http.SameSite(d.SameSite),
		Partitioned: d.Partitioned,
	}
}

// Store keeps cookies in a MongoDB collection.
type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ cookiestore.Store = (*Store)(nil)

// New returns a Store over coll.
func New(coll *mongo.Collection) *Store {
	return &Store{coll: coll, now: time.Now}
}

// EnsureIndexes creates the TTL index on expires_at and the ordering index
// used by GetAll. Safe to call on every start.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
		},
	})
	return err
}

func (s *Store) Get(ctx context.Context, name string) (*cookiestore.Item, error) {
	var doc document
	err := s.coll.FindOne(ctx, s.live(bson.D{{Key: "_id", Value: name}})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	item := doc.item()
	return &item, nil
}

// GetAll returns live cookies ordered by first write.
func (s *Store) GetAll(ctx context.Context) ([]cookiestore.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, s.live(bson.D{}), opts)
	if err != nil {
		return nil, err
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]cookiestore.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.item())
	}
	return items, nil
}

// Set upserts item, keeping the existing created_at. Expired items delete.
func (s *Store) Set(ctx context.Context, item cookiestore.Item) error {
	now := s.now()
	if item.Expired(now) {
		return s.Delete(ctx, item.Name)
	}

	set := bson.M{
		"value":       item.Value,
		"domain":      item.Domain,
		"path":        item.Path,
		"max_age":     item.MaxAge,
		"secure":      item.Secure,
		"http_only":   item.HTTPOnly,
		"same_site":   int(item.SameSite),
		"partitioned": item.Partitioned,
	}
	unset := bson.M{}
	if item.Expires.IsZero() {
		unset["expires"] = ""
	} else {
		set["expires"] = item.Expires
	}
	if deadline := item.ExpiresAt(now); deadline.IsZero() {
		unset["expires_at"] = ""
	} else {
		set["expires_at"] = deadline
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": now},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	_, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: item.Name}},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: name}})
	return err
}

// live narrows filter to documents the TTL monitor has not reaped yet
// but which are still unexpired.
func (s *Store) live(filter bson.D) bson.D {
	return append(filter, bson.E{Key: "$or", Value: bson.A{
		bson.D{{Key: "expires_at", Value: bson.D{{Key: "$exists", Value: false}}}},
		bson.D{{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: s.now()}}}},
	}})
}
