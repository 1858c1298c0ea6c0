package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	ErrEmptyConnectionString   = errors.New("pg.empty_connection_string")
	ErrFailedToParseDBConfig   = errors.New("pg.invalid_config")
	ErrDBNotReady              = errors.New("pg.not_ready")
	ErrHealthcheckFailed       = errors.New("pg.healthcheck_failed")
	ErrFailedToApplyMigrations = errors.New("pg.migrations_failed")
)

// IsNotFoundError reports whether err means a query returned no rows.
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}
