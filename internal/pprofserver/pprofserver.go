package pprofserver

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/myrjola/casefile/internal/errors"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// LogAddrKey is the key used to log the pprof listening address. It differs from the web server's so that tests
// grabbing the web address from the logs are not confused.
const LogAddrKey = "pprof_addr"

func Handle(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
}

// Serve runs a standard pprof server at ipv6 loopback address ::1 and given port, e.g. ":6060", until ctx is done.
func Serve(ctx context.Context, port string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	Handle(mux)
	srv := &http.Server{ //nolint:exhaustruct // defaults are fine
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	listener, err := net.Listen("tcp", "[::1]"+port)
	if err != nil {
		return errors.Wrap(err, "listen pprof", slog.String("port", port))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String(LogAddrKey, listener.Addr().String()))

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	if err = srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve pprof")
	}
	if err = <-shutdownErr; err != nil {
		return errors.Wrap(err, "shutdown pprof")
	}
	return nil
}
