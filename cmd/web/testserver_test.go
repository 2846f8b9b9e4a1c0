package main

import (
	"context"
	"io"
	"testing"

	"github.com/myrjola/casefile/internal/e2etest"
	"github.com/stretchr/testify/require"
)

// startTestServer starts a server with an in-memory database and instant reveals. It stops when the test ends.
func startTestServer(t *testing.T) *e2etest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	environ := map[string]string{
		"CASEFILE_ADDR":         "localhost:0",
		"CASEFILE_SQLITE_URL":   ":memory:",
		"CASEFILE_PACING_SCALE": "0",
	}
	server, err := e2etest.StartServer(ctx, io.Discard, environ, run)
	require.NoError(t, err)
	return server
}

func newClient(t *testing.T, server *e2etest.Server) *e2etest.Client {
	t.Helper()
	client, err := e2etest.NewClient(server.URL())
	require.NoError(t, err)
	return client
}
