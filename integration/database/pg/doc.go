// Package pg provides PostgreSQL connection management with migrations and
// health checking.
//
// It wraps the pgx driver with connection pool configuration, exponential
// backoff retry logic, and integrated schema migration support using goose.
// Connection establishment verifies connectivity with a ping before the pool
// is handed to the application.
//
// Usage:
//
//	cfg := config.MustLoad[pg.Config]()
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, logger); err != nil {
//		log.Fatal(err)
//	}
//
// The package also carries small context helpers (WithTx, TxFromContext) so
// repositories can participate in a caller-managed pgx transaction.
package pg
