package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Connect returns a client once the deployment answers a ping.
// Attempts are spaced by cfg.RetryInterval and stop early when ctx is done.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opts := options.Client().
		ApplyURI(cfg.ConnectionURL).
		SetRetryWrites(true).
		SetRetryReads(true)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		opts.SetMinPoolSize(cfg.MinPoolSize)
	}
	if cfg.MaxConnIdleTime > 0 {
		opts.SetMaxConnIdleTime(cfg.MaxConnIdleTime)
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for i := range attempts {
		var client *mongo.Client
		client, lastErr = mongo.Connect(opts)
		if lastErr == nil {
			if lastErr = client.Ping(ctx, nil); lastErr == nil {
				return client, nil
			}
			_ = client.Disconnect(context.Background())
		}

		if i == attempts-1 {
			break
		}

		timer := time.NewTimer(cfg.RetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.Join(ErrMongoNotReady, ctx.Err())
		case <-timer.C:
		}
	}

	return nil, errors.Join(ErrMongoNotReady, lastErr)
}

// Collection connects and returns the cookie collection named by cfg.
func Collection(ctx context.Context, cfg Config) (*mongo.Collection, error) {
	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client.Database(cfg.Database).Collection(cfg.Collection), nil
}

// Healthcheck returns a readiness probe that pings client.
func Healthcheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, nil); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
