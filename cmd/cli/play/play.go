// Package play plays the case in a terminal.
package play

import (
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/config"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/game"
	"github.com/myrjola/casefile/internal/logging"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "play",
	Title: "Playing",
}

func init() {
	Command.Flags().Float64("pacing-scale", -1,
		"multiplier for reveal delays, 0 shows everything at once (default CASEFILE_PACING_SCALE)")
	Command.Flags().String("catalog", "", "case catalog YAML file (default CASEFILE_CATALOG_PATH or the built-in case)")
}

var Command = &cobra.Command{
	Use:     "play",
	GroupID: "play",
	Short:   "Play the case",
	Long:    `Plays the case in the terminal. Type 'help' once it starts for the list of commands.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Parse(env.ToMap(os.Environ()))
		if err != nil {
			return errors.Wrap(err, "parse config")
		}
		if scale, _ := cmd.Flags().GetFloat64("pacing-scale"); scale >= 0 {
			cfg.PacingScale = scale
		}
		if path, _ := cmd.Flags().GetString("catalog"); path != "" {
			cfg.CatalogPath = path
		}

		c, err := loadCatalog(cfg.CatalogPath)
		if err != nil {
			return err
		}
		logger := logging.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)
		t := newTerminal(game.NewEngine(c, logger), cmd.InOrStdin(), cmd.OutOrStdout(), cfg.PacingScale)
		return t.Run(cmd.Context())
	},
}

// loadCatalog loads the catalog file at path, or the built-in case when path is empty.
func loadCatalog(path string) (*catalog.Catalog, error) {
	var (
		c   *catalog.Catalog
		err error
	)
	if path != "" {
		c, err = catalog.LoadFile(path)
	} else {
		c, err = catalog.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "load catalog", slog.String("path", path))
	}
	return c, nil
}
