package pg

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies pending schema migrations from cfg.MigrationsPath.
// goose has no native pgx support, so the pool is wrapped in a database/sql
// adapter for the duration of the migration run.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, logger *slog.Logger) error {
	if cfg.MigrationsPath == "" {
		return ErrMigrationPathNotProvided
	}

	info, err := os.Stat(cfg.MigrationsPath)
	if err != nil || !info.IsDir() {
		return ErrMigrationsDirNotFound
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if cfg.MigrationsTable != "" {
		goose.SetTableName(cfg.MigrationsTable)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if logger != nil {
		logger.InfoContext(ctx, "applying database migrations", "path", cfg.MigrationsPath)
	}

	if err := goose.UpContext(ctx, db, cfg.MigrationsPath); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	return nil
}
