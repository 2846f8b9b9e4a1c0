package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/caarlos0/env/v11"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myrjola/casefile/internal/broker"
	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/config"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/game"
	"github.com/myrjola/casefile/internal/logging"
	"github.com/myrjola/casefile/internal/pacing"
	"github.com/myrjola/casefile/internal/pprofserver"
	"github.com/myrjola/casefile/internal/sqlite"
	"golang.org/x/sync/errgroup"
)

type application struct {
	logger         *slog.Logger
	engine         *game.Engine
	sessionManager *scs.SessionManager
	reveals        *broker.ChannelBroker[string, pacing.Reveal]
	htmx           *htmx.HTMX
	pacingScale    float64
	// producers holds the running reveal producer per playthrough.
	producers   map[string]producer
	producersMu sync.Mutex
	sessions    *sessionLocks
}

const (
	sessionCleanupInterval = time.Hour
	optimizeInterval       = 24 * time.Hour
)

func run(ctx context.Context, logger *slog.Logger, environ map[string]string) error {
	cfg, err := config.Parse(environ)
	if err != nil {
		return errors.Wrap(err, "parse config")
	}

	var c *catalog.Catalog
	if cfg.CatalogPath != "" {
		c, err = catalog.LoadFile(cfg.CatalogPath)
	} else {
		c, err = catalog.Load()
	}
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close db", errors.SlogError(closeErr))
		}
	}()

	// No Persist: the playthrough ends with the browser session.
	store := sqlite3store.NewWithCleanupInterval(db.ReadWrite, sessionCleanupInterval)
	defer store.StopCleanup()
	sessionManager := scs.New()
	sessionManager.Store = store
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Cookie.Name = "casefile_session"

	app := application{
		logger:         logger,
		engine:         game.NewEngine(c, logger, logChange(logger)),
		sessionManager: sessionManager,
		reveals:        broker.NewChannelBroker[string, pacing.Reveal](),
		htmx:           htmx.New(),
		pacingScale:    cfg.PacingScale,
		producers:      map[string]producer{},
		producersMu:    sync.Mutex{},
		sessions:       newSessionLocks(),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.reveals.Run(ctx)
	})
	g.Go(func() error {
		return db.RunOptimizer(ctx, optimizeInterval)
	})
	if cfg.PprofPort != "" {
		g.Go(func() error {
			return pprofserver.Serve(ctx, cfg.PprofPort, logger)
		})
	}
	g.Go(func() error {
		// Stop the background workers once the server has shut down.
		defer cancel()
		return app.configureAndStartServer(ctx, cfg.Addr)
	})
	if err = g.Wait(); err != nil {
		return errors.Wrap(err, "run workers")
	}
	return nil
}

// logChange is a game observer logging every change at debug level.
func logChange(logger *slog.Logger) game.Observer {
	return func(ctx context.Context, view game.View, change game.Change) {
		logger.LogAttrs(ctx, slog.LevelDebug, "game state changed",
			slog.String("screen", string(view.Screen)),
			slog.Bool("moved", change.Moved),
			slog.Int("events", len(change.Events)))
	}
}

func main() {
	ctx := context.Background()
	logger := logging.NewLogger(os.Stdout, slog.LevelInfo)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failure loading .env", errors.SlogError(err))
		os.Exit(1)
	}
	environ := env.ToMap(os.Environ())
	if cfg, err := config.Parse(environ); err == nil {
		logger = logging.NewLogger(os.Stdout, cfg.LogLevel)
	}

	if err := run(ctx, logger, environ); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
