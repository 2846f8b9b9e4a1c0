package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/game"
	"github.com/myrjola/casefile/internal/pacing"
	"github.com/myrjola/casefile/internal/random"
)

// revealGrace bounds how long a producer outlives the last reveal of its plan.
const revealGrace = 30 * time.Second

// eventDone tells the client that nothing more is coming and every pending element can be shown.
const eventDone = "done"

// startReveals publishes the timed reveals that follow change under a fresh token. A change without reveals
// clears the token. Either way the previous producer of the playthrough is stopped.
func (app *application) startReveals(ctx context.Context, s *game.Session, change game.Change) error {
	playthrough, err := app.playthroughID(ctx)
	if err != nil {
		return err
	}
	plan := pacing.For(app.engine.Catalog(), app.engine.View(s), change)
	if plan.Empty() {
		app.replaceProducer(playthrough, producer{token: "", cancel: nil})
		app.sessionManager.Remove(ctx, revealTokenKey)
		app.sessionManager.Remove(ctx, revealPendingKey)
		return nil
	}

	token, err := random.Letters(revealTokenLength)
	if err != nil {
		return errors.Wrap(err, "generate reveal token")
	}
	keys := make([]string, 0, len(plan.Reveals))
	for _, r := range plan.Reveals {
		keys = append(keys, revealKey(r))
	}
	app.sessionManager.Put(ctx, revealTokenKey, token)
	app.sessionManager.Put(ctx, revealPendingKey, strings.Join(keys, " "))

	// Unbuffered so that no reveal is lost before the consumer connects. Overdue reveals are sent right away.
	stream := make(chan pacing.Reveal)
	timeout := pacing.Scale(plan.Duration(), app.pacingScale) + revealGrace
	producerCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	app.replaceProducer(playthrough, producer{token: token, cancel: cancel})
	app.reveals.Publish(token, stream)
	go app.produce(producerCtx, cancel, playthrough, token, plan, stream)
	return nil
}

func (app *application) produce(
	ctx context.Context,
	cancel context.CancelFunc,
	playthrough, token string,
	plan pacing.Plan,
	stream chan pacing.Reveal,
) {
	defer cancel()
	defer app.releaseProducer(playthrough, token)
	defer app.reveals.Unpublish(token)
	defer close(stream)
	if err := pacing.Play(ctx, plan, app.pacingScale, stream); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelDebug, "reveal stream stopped early", errors.SlogError(err))
	}
}

// streamReveals streams the reveals published under the token path value as Server-Sent Events. A token other
// than the one in the session is stale and answered with 204 No Content, which stops the EventSource.
func (app *application) streamReveals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := r.PathValue("token")
	if token == "" || token != app.sessionManager.GetString(ctx, revealTokenKey) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	rc := http.NewResponseController(w)
	// The stream outlives the server write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelDebug, "clear write deadline", errors.SlogError(err))
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	var (
		stream chan pacing.Reveal
		ok     bool
	)
	select {
	case <-ctx.Done():
		return
	case stream, ok = <-app.reveals.Subscribe(token):
	}
	for ok {
		select {
		case <-ctx.Done():
			return
		case reveal, more := <-stream:
			if !more {
				ok = false
				break
			}
			if err := writeEvent(w, string(reveal.Kind), reveal); err != nil {
				app.logger.LogAttrs(ctx, slog.LevelDebug, "write reveal", errors.SlogError(err))
				return
			}
			_ = rc.Flush()
		}
	}
	if err := writeEvent(w, eventDone, struct{}{}); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelDebug, "write done", errors.SlogError(err))
		return
	}
	_ = rc.Flush()
}

func writeEvent(w io.Writer, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "marshal event data", slog.String("event", event))
	}
	if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return errors.Wrap(err, "write event", slog.String("event", event))
	}
	return nil
}
