package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/myrjola/casefile/internal/config"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/sqlite"
	"github.com/myrjola/casefile/internal/testhelpers"
)

// migratetest migrates a copy of the production session database to the current schema and checks that the
// stored sessions survived.
func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	var (
		err    error
		start  = time.Now()
		ctx    context.Context
		cfg    config.Config
		cancel context.CancelFunc
	)
	ctx = context.Background()
	ctx, cancel = context.WithTimeout(ctx, 5*time.Second) //nolint:mnd // 5 seconds

	if cfg, err = config.Parse(env.ToMap(os.Environ())); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error parsing config", errors.SlogError(err))
		os.Exit(1)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating database",
			slog.String("url", cfg.SqliteURL), errors.SlogError(err))
		os.Exit(1)
	}

	// Count the sessions that have not expired yet as a simple smoke test.
	row := db.ReadWrite.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE julianday('now') < expiry`)
	var count int
	if err = row.Scan(&count); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error fetching session count", errors.SlogError(err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "active session count", slog.Int("count", count))

	if err = db.Close(); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error closing database", errors.SlogError(err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
	cancel()
	os.Exit(0)
}
