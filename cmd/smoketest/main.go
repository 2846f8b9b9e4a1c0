package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/casefile/internal/e2etest"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/logging"
)

const smokeTestTimeout = 30 * time.Second

// TestPlaythrough plays the whole case and checks that it ends on the final screen.
func TestPlaythrough(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, smokeTestTimeout)
	defer cancel()

	doc, err := client.PlayCase(ctx, "Smoke Test")
	if err != nil {
		return errors.Wrap(err, "play case")
	}
	if screen := e2etest.Screen(doc); screen != "final" {
		return errors.New("playthrough did not reach the final screen", slog.String("screen", screen))
	}
	if _, err = client.SubmitOK(ctx, doc, "form#close-case", nil); err != nil {
		return errors.Wrap(err, "close case")
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestPlaythrough(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error playing the case", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
