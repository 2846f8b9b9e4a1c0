package main

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/game"
)

// intentFunc applies one intent read from the parsed form of r to s.
type intentFunc func(ctx context.Context, r *http.Request, s *game.Session) (game.Change, error)

// handleIntent loads the playthrough, applies the intent, stores the result and starts the reveal stream of the
// change. A rejected intent re-renders the unchanged screen with a client error status.
func (app *application) handleIntent(w http.ResponseWriter, r *http.Request, apply intentFunc) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	s := app.loadGame(ctx)
	change, err := apply(ctx, r, s)
	if err != nil {
		status, ok := intentStatus(err)
		if !ok {
			app.serverError(w, r, err)
			return
		}
		app.logger.LogAttrs(ctx, slog.LevelDebug, "rejected intent",
			slog.Int("status", status), errors.SlogError(err))
		app.renderCase(w, r, status, s, rejection(status))
		return
	}
	if err = app.saveGame(ctx, s); err != nil {
		app.serverError(w, r, err)
		return
	}
	if err = app.startReveals(ctx, s, change); err != nil {
		app.serverError(w, r, err)
		return
	}

	h := app.htmx.NewHandler(w, r)
	if h.IsHxRequest() {
		h.PushURL("/")
		app.renderCase(w, r, http.StatusOK, s, "")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func rejection(status int) string {
	if status == http.StatusUnprocessableEntity {
		return "That does not add up. Check your input and try again."
	}
	return "That part of the case is not open to you yet."
}

func (app *application) submitName(w http.ResponseWriter, r *http.Request) {
	app.handleIntent(w, r, func(ctx context.Context, r *http.Request, s *game.Session) (game.Change, error) {
		return app.engine.SubmitName(ctx, s, r.PostForm.Get("name"))
	})
}

func (app *application) navigate(w http.ResponseWriter, r *http.Request) {
	app.handleIntent(w, r, func(ctx context.Context, r *http.Request, s *game.Session) (game.Change, error) {
		return app.engine.Navigate(ctx, s, game.ScreenID(r.PostForm.Get("screen")))
	})
}

func (app *application) examine(w http.ResponseWriter, r *http.Request) {
	app.handleIntent(w, r, func(ctx context.Context, r *http.Request, s *game.Session) (game.Change, error) {
		return app.engine.ExamineExhibit(ctx, s, game.Item(r.PostForm.Get("item")))
	})
}

func (app *application) revealFragment(w http.ResponseWriter, r *http.Request) {
	app.handleIntent(w, r, func(ctx context.Context, r *http.Request, s *game.Session) (game.Change, error) {
		id, err := formInt(r, "fragment")
		if err != nil {
			return game.Change{}, err
		}
		return app.engine.RevealFragment(ctx, s, id)
	})
}

func (app *application) startInterrogation(w http.ResponseWriter, r *http.Request) {
	app.handleIntent(w, r, func(ctx context.Context, r *http.Request, s *game.Session) (game.Change, error) {
		return app.engine.StartInterrogation(ctx, s, catalog.SuspectID(r.PostForm.Get("suspect")))
	})
}

func (app *application) chooseApproach(w http.ResponseWriter, r *http.Request) {
	app.handleIntent(w, r, func(ctx context.Context, r *http.Request, s *game.Session) (game.Change, error) {
		option, err := formInt(r, "option")
		if err != nil {
			return game.Change{}, err
		}
		return app.engine.SelectInterrogationOption(ctx, s, option)
	})
}

func (app *application) advanceInterrogation(w http.ResponseWriter, r *http.Request) {
	app.handleIntent(w, r, func(ctx context.Context, _ *http.Request, s *game.Session) (game.Change, error) {
		return app.engine.AdvanceInterrogation(ctx, s)
	})
}

func (app *application) setContradiction(w http.ResponseWriter, r *http.Request) {
	app.handleIntent(w, r, func(ctx context.Context, r *http.Request, s *game.Session) (game.Change, error) {
		item, err := formInt(r, "item")
		if err != nil {
			return game.Change{}, err
		}
		value, err := formInt(r, "value")
		if err != nil {
			return game.Change{}, err
		}
		return app.engine.SetContradictionValue(ctx, s, item, value)
	})
}

func (app *application) submitContradictions(w http.ResponseWriter, r *http.Request) {
	app.handleIntent(w, r, func(ctx context.Context, _ *http.Request, s *game.Session) (game.Change, error) {
		return app.engine.SubmitContradictions(ctx, s)
	})
}

func (app *application) answerAssessment(w http.ResponseWriter, r *http.Request) {
	app.handleIntent(w, r, func(ctx context.Context, r *http.Request, s *game.Session) (game.Change, error) {
		question, err := formInt(r, "question")
		if err != nil {
			return game.Change{}, err
		}
		return app.engine.AnswerAssessment(ctx, s, question, strings.TrimSpace(r.PostForm.Get("option")))
	})
}

func (app *application) chooseVerdict(w http.ResponseWriter, r *http.Request) {
	app.handleIntent(w, r, func(ctx context.Context, r *http.Request, s *game.Session) (game.Change, error) {
		return app.engine.ChooseVerdict(ctx, s, catalog.BlameTarget(r.PostForm.Get("target")))
	})
}

func (app *application) toggleAudio(w http.ResponseWriter, r *http.Request) {
	app.handleIntent(w, r, func(ctx context.Context, _ *http.Request, s *game.Session) (game.Change, error) {
		return app.engine.ToggleAudio(ctx, s)
	})
}

// reset starts the case over. The playthrough id is dropped with the session so that nothing scheduled before
// the reset reaches the new playthrough.
func (app *application) reset(w http.ResponseWriter, r *http.Request) {
	app.handleIntent(w, r, func(ctx context.Context, _ *http.Request, s *game.Session) (game.Change, error) {
		change, err := app.engine.Reset(ctx, s)
		if err != nil {
			return change, err
		}
		if id := app.sessionManager.GetString(ctx, playthroughKey); id != "" {
			app.replaceProducer(id, producer{token: "", cancel: nil})
		}
		app.sessionManager.Remove(ctx, playthroughKey)
		return change, nil
	})
}
