// Package redis opens go-redis clients from environment configuration.
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := redisstore.New(client, redisstore.WithPrefix("cookies:"))
//
// Connect pings the server and retries until it answers, the attempts run
// out or ctx is done. Healthcheck adapts a client to the func(ctx) error
// shape used by readiness probes.
package redis
