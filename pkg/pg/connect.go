package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pool and pings it. Failed attempts back off linearly:
// attempt n waits n*cfg.RetryInterval.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if cfg.ConnectionString == "" {
		return nil, ErrEmptyConnectionString
	}

	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	if cfg.MaxOpenConns > 0 {
		connConfig.MaxConns = cfg.MaxOpenConns
	}
	if cfg.MaxIdleConns > 0 {
		connConfig.MinConns = min(cfg.MaxIdleConns, connConfig.MaxConns)
	}
	if cfg.HealthCheckPeriod > 0 {
		connConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	if cfg.MaxConnIdleTime > 0 {
		connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.MaxConnLifetime > 0 {
		connConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for i := range attempts {
		var pool *pgxpool.Pool
		pool, lastErr = pgxpool.NewWithConfig(ctx, connConfig)
		if lastErr == nil {
			if lastErr = pool.Ping(ctx); lastErr == nil {
				return pool, nil
			}
			pool.Close()
		}

		if i == attempts-1 {
			break
		}

		timer := time.NewTimer(time.Duration(i+1) * cfg.RetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.Join(ErrDBNotReady, ctx.Err())
		case <-timer.C:
		}
	}

	return nil, errors.Join(ErrDBNotReady, lastErr)
}

// Healthcheck returns a readiness probe that pings pool.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
