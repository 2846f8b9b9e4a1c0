package main

import (
	"net/http"
	"strings"

	"github.com/myrjola/casefile/internal/game"
)

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	s := app.loadGame(r.Context())
	app.renderCase(w, r, http.StatusOK, s, "")
}

// renderCase renders the current screen of s. message is shown when an intent was rejected.
func (app *application) renderCase(w http.ResponseWriter, r *http.Request, status int, s *game.Session, message string) {
	ctx := r.Context()
	var (
		token   = app.sessionManager.GetString(ctx, revealTokenKey)
		pending = strings.Fields(app.sessionManager.GetString(ctx, revealPendingKey))
	)
	data := app.newCaseTemplateData(app.engine.View(s), token, pending)
	data.Error = message
	app.render(w, r, status, "case", data)
}
