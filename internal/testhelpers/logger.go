package testhelpers

import (
	"io"
	"log/slog"
	"testing"

	"github.com/myrjola/casefile/internal/logging"
)

// NewLogger creates a new logger with the given log sink such as io.Discard.
func NewLogger(logSink io.Writer) *slog.Logger {
	return logging.NewLogger(logSink, slog.LevelDebug)
}

// TestWriter forwards log output to t.Log so it shows up only for failing tests.
type TestWriter struct {
	t testing.TB
}

// NewTestWriter creates a TestWriter for t.
func NewTestWriter(t testing.TB) *TestWriter {
	return &TestWriter{t: t}
}

func (w *TestWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
