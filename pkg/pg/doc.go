// Package pg opens pgx connection pools and runs goose migrations.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pgstore.Migrate(ctx, pool, cfg.MigrationsTable, log); err != nil {
//	    return err
//	}
//
// Connect retries with linear back-off until the server accepts a ping,
// the attempts run out or ctx is done. Migrate takes an fs.FS so stores can
// ship their schema embedded in the binary.
package pg
