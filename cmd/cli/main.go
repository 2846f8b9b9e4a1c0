package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/myrjola/casefile/cmd/cli/casefile"
	"github.com/myrjola/casefile/cmd/cli/play"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/spf13/cobra"
)

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(play.Group)
	rootCmd.AddCommand(play.Command)
	rootCmd.AddGroup(casefile.Group)
	rootCmd.AddCommand(casefile.Validate)
	rootCmd.AddCommand(casefile.Dump)
}

var rootCmd = &cobra.Command{
	Use:          "casefile-cli",
	Long:         `Command line utilities for Case File EGO-001 https://github.com/myrjola/casefile`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func main() {
	Execute()
}
