// Package pgstore is a cookiestore.Store kept in a PostgreSQL table.
//
// The schema ships embedded; run Migrate once at startup. Expired rows are
// hidden from reads and removed by DeleteExpired.
package pgstore

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/enccookie/pkg/cookiestore"
	"github.com/dmitrymomot/enccookie/pkg/pg"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings the cookies table up to date.
func Migrate(ctx context.Context, pool *pgxpool.Pool, table string, log *slog.Logger) error {
	return pg.Migrate(ctx, pool, migrations, "migrations", table, log)
}

// DB is the subset of *pgxpool.Pool the store needs. A pgx.Tx works too.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store keeps cookies in the cookies table.
type Store struct {
	db  DB
	now func() time.Time
}

var _ cookiestore.Store = (*Store)(nil)

// New returns a Store over db.
func New(db DB) *Store {
	return &Store{db: db, now: time.Now}
}

type row struct {
	Name        string     `db:"name"`
	Value       string     `db:"value"`
	Domain      string     `db:"domain"`
	Path        string     `db:"path"`
	Expires     *time.Time `db:"expires"`
	MaxAge      int32      `db:"max_age"`
	Secure      bool       `db:"secure"`
	HTTPOnly    bool       `db:"http_only"`
	SameSite    int16      `db:"same_site"`
	Partitioned bool       `db:"partitioned"`
}

func (r row) item() cookiestore.Item {
	item := cookiestore.Item{
		Name:        r.Name,
		Value:       r.Value,
		Domain:      r.Domain,
		Path:        r.Path,
		MaxAge:      int(r.MaxAge),
		Secure:      r.Secure,
		HTTPOnly:    r.HTTPOnly,
		SameSite:    http.SameSite(r.SameSite),
		Partitioned: r.Partitioned,
	}
	if r.Expires != nil {
		item.Expires = *r.Expires
	}
	return item
}

const columns = `name, value, domain, path, expires, max_age, secure, http_only, same_site, partitioned`

const liveFilter = `(expires_at IS NULL OR expires_at > $1)`

func (s *Store) Get(ctx context.Context, name string) (*cookiestore.Item, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+columns+` FROM cookies WHERE name = $2 AND `+liveFilter,
		s.now(), name,
	)
	if err != nil {
		return nil, err
	}
	r, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[row])
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	item := r.item()
	return &item, nil
}

// GetAll returns live cookies ordered by first write.
func (s *Store) GetAll(ctx context.Context) ([]cookiestore.Item, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+columns+` FROM cookies WHERE `+liveFilter+` ORDER BY created_at, name`,
		s.now(),
	)
	if err != nil {
		return nil, err
	}
	rs, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, err
	}

	items := make([]cookiestore.Item, 0, len(rs))
	for _, r := range rs {
		items = append(items, r.item())
	}
	return items, nil
}

// Set upserts item, keeping created_at of an existing row. Expired items delete.
func (s *Store) Set(ctx context.Context, item cookiestore.Item) error {
	now := s.now()
	if item.Expired(now) {
		return s.Delete(ctx, item.Name)
	}

	var expires, expiresAt *time.Time
	if !item.Expires.IsZero() {
		expires = &item.Expires
	}
	if deadline := item.ExpiresAt(now); !deadline.IsZero() {
		expiresAt = &deadline
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO cookies (`+columns+`, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		ON CONFLICT (name) DO UPDATE SET
			value = EXCLUDED.value,
			domain = EXCLUDED.domain,
			path = EXCLUDED.path,
			expires = EXCLUDED.expires,
			max_age = EXCLUDED.max_age,
			secure = EXCLUDED.secure,
			http_only = EXCLUDED.http_only,
			same_site = EXCLUDED.same_site,
			partitioned = EXCLUDED.partitioned,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at`,
		item.Name, item.Value, item.Domain, item.Path, expires, int32(item.MaxAge),
		item.Secure, item.HTTPOnly, int16(item.SameSite), item.Partitioned,
		expiresAt, now,
	)
	return err
}

func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM cookies WHERE name = $1`, name)
	return err
}

// DeleteExpired removes rows past their deadline and reports how many.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM cookies WHERE expires_at <= $1`, s.now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ErrNotMigrated is returned by Check when the cookies table is missing.
var ErrNotMigrated = errors.New("pgstore.not_migrated")

// Check verifies the cookies table exists.
func (s *Store) Check(ctx context.Context) error {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT to_regclass('cookies') IS NOT NULL`).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotMigrated
	}
	return nil
}
