// Package mongo opens MongoDB clients for the cookie store.
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//	coll, err := mongo.Collection(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	store := mongostore.New(coll)
//	if err := store.EnsureIndexes(ctx); err != nil {
//	    return err
//	}
//
// Connect retries the initial ping; Healthcheck wraps Ping for probes.
package mongo
