package game

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/logging"
)

// Observer is notified after every intent that changed the session.
type Observer func(ctx context.Context, view View, change Change)

// Engine applies player intents to sessions. It holds no per-player state and is safe for concurrent use once
// observers are registered.
type Engine struct {
	catalog   *catalog.Catalog
	logger    *slog.Logger
	observers []Observer
}

// NewEngine creates an engine for the content in c.
func NewEngine(c *catalog.Catalog, logger *slog.Logger, observers ...Observer) *Engine {
	return &Engine{
		catalog:   c,
		logger:    logger,
		observers: observers,
	}
}

// Catalog returns the content the engine plays.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// step accumulates the effects of one intent on a working copy of the session.
type step struct {
	s      *Session
	moved  bool
	events []Event
}

func (st *step) emit(ev Event) {
	st.events = append(st.events, ev)
}

func (st *step) examine(item Item) {
	if st.s.markExamined(item) {
		st.emit(Event{Kind: EventExamined, Item: item})
	}
}

// apply runs op on a copy of s and commits the copy only when op succeeds, so a rejected intent leaves the session
// untouched.
func (e *Engine) apply(ctx context.Context, s *Session, intent Intent, op func(st *step) error) (Change, error) {
	ctx = logging.WithAttrs(ctx, slog.String("intent", string(intent)), slog.String("screen", string(s.screen)))
	st := &step{s: s.clone(), moved: false, events: nil}
	before := st.s.completedPhases()
	if err := op(st); err != nil {
		e.logger.LogAttrs(ctx, slog.LevelDebug, "intent rejected", errors.SlogError(err))
		return Change{Intent: intent, Moved: false, Events: nil}, err
	}
	after := st.s.completedPhases()
	for i := range after {
		if after[i] && !before[i] {
			st.emit(Event{Kind: EventPhaseComplete, Phase: Phase(i + 1)})
		}
	}
	*s = *st.s
	change := Change{Intent: intent, Moved: st.moved, Events: st.events}
	if len(change.Events) == 0 {
		return change, nil
	}
	e.logger.LogAttrs(ctx, slog.LevelDebug, "intent applied",
		slog.String("now", string(s.screen)), slog.Int("events", len(change.Events)))
	view := e.View(s)
	for _, o := range e.observers {
		o(ctx, view, change)
	}
	return change, nil
}

// clone returns a deep copy of s.
func (s *Session) clone() *Session {
	c := *s
	c.examined = maps.Clone(s.examined)
	c.interrogated = maps.Clone(s.interrogated)
	c.answers = maps.Clone(s.answers)
	if s.interrogation != nil {
		in := *s.interrogation
		in.transcript = slices.Clone(s.interrogation.transcript)
		c.interrogation = &in
	}
	return &c
}
