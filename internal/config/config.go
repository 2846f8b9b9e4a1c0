package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/myrjola/casefile/internal/errors"
)

// Prefix is prepended to every environment variable name read into [Config].
const Prefix = "CASEFILE_"

var ErrInvalidConfig = errors.NewSentinel("invalid configuration")

// Config holds the process configuration for the web server and the CLI.
type Config struct {
	// Addr is the TCP address the web server listens on. Use port 0 for a random port.
	Addr string `env:"ADDR" envDefault:"localhost:4000"`
	// SqliteURL is the session database path or ":memory:".
	SqliteURL string `env:"SQLITE_URL" envDefault:"./casefile.sqlite"`
	// PprofPort enables the loopback pprof server when non-empty.
	PprofPort string `env:"PPROF_PORT"`
	// SessionLifetime bounds how long an idle browser session keeps its playthrough.
	SessionLifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"12h"`
	// PacingScale multiplies every timed reveal delay. 0 reveals everything at once.
	PacingScale float64 `env:"PACING_SCALE" envDefault:"1"`
	// CatalogPath overrides the embedded content catalog with a YAML file.
	CatalogPath string `env:"CATALOG_PATH"`
	// LogLevel is one of DEBUG, INFO, WARN, ERROR.
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

// Parse reads the configuration from environ, a map of environment variables such as the one returned by
// env.ToMap(os.Environ()).
func Parse(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{ //nolint:exhaustruct // defaults are fine
		Environment: environ,
		Prefix:      Prefix,
	}); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	if cfg.PacingScale < 0 {
		return Config{}, errors.Wrap(ErrInvalidConfig, "negative pacing scale",
			slog.Float64("pacing_scale", cfg.PacingScale))
	}
	if cfg.SessionLifetime <= 0 {
		return Config{}, errors.Wrap(ErrInvalidConfig, "non-positive session lifetime",
			slog.Duration("session_lifetime", cfg.SessionLifetime))
	}
	return cfg, nil
}
