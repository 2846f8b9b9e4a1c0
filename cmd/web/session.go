package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/game"
	"github.com/myrjola/casefile/internal/random"
)

// scs keys.
const (
	gameKey          = "game"
	revealTokenKey   = "revealToken"
	revealPendingKey = "revealPending"
	playthroughKey   = "playthrough"
)

const (
	playthroughIDLength = 16
	revealTokenLength   = 24
)

// loadGame restores the playthrough of the browser session. A session that fails to decode is discarded and
// the player starts over.
func (app *application) loadGame(ctx context.Context) *game.Session {
	data := app.sessionManager.GetBytes(ctx, gameKey)
	if data == nil {
		return game.NewSession()
	}
	s, err := app.engine.Restore(data)
	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "discarding stored playthrough", errors.SlogError(err))
		app.sessionManager.Remove(ctx, gameKey)
		return game.NewSession()
	}
	return s
}

func (app *application) saveGame(ctx context.Context, s *game.Session) error {
	data, err := s.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "marshal session")
	}
	app.sessionManager.Put(ctx, gameKey, data)
	return nil
}

// playthroughID identifies the playthrough across requests. It is created on demand and dropped on reset.
func (app *application) playthroughID(ctx context.Context) (string, error) {
	if id := app.sessionManager.GetString(ctx, playthroughKey); id != "" {
		return id, nil
	}
	id, err := random.Letters(playthroughIDLength)
	if err != nil {
		return "", errors.Wrap(err, "generate playthrough id")
	}
	app.sessionManager.Put(ctx, playthroughKey, id)
	return id, nil
}

// producer is a goroutine streaming the reveals published under token.
type producer struct {
	token  string
	cancel context.CancelFunc
}

// replaceProducer registers p as the running reveal producer of playthrough and stops the previous one. A zero
// p only stops the previous one.
func (app *application) replaceProducer(playthrough string, p producer) {
	app.producersMu.Lock()
	defer app.producersMu.Unlock()
	if previous, ok := app.producers[playthrough]; ok {
		previous.cancel()
	}
	if p.cancel == nil {
		delete(app.producers, playthrough)
		return
	}
	app.producers[playthrough] = p
}

// releaseProducer forgets the producer of token once it finished, unless a newer producer already replaced it.
func (app *application) releaseProducer(playthrough string, token string) {
	app.producersMu.Lock()
	defer app.producersMu.Unlock()
	if p, ok := app.producers[playthrough]; ok && p.token == token {
		delete(app.producers, playthrough)
	}
}

func (app *application) stopProducers() {
	app.producersMu.Lock()
	defer app.producersMu.Unlock()
	for id, p := range app.producers {
		p.cancel()
		delete(app.producers, id)
	}
}

// sessionLocks serialises the requests of a browser session, keyed by session cookie.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{mu: sync.Mutex{}, locks: map[string]*sessionLock{}}
}

// lock blocks until the session token is free and returns the function releasing it.
func (l *sessionLocks) lock(token string) func() {
	l.mu.Lock()
	sl, ok := l.locks[token]
	if !ok {
		sl = &sessionLock{mu: sync.Mutex{}, refs: 0}
		l.locks[token] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		defer l.mu.Unlock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, token)
		}
	}
}

func (l *sessionLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
