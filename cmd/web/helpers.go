package main

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/game"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status),
		slog.String("method", method), slog.String("uri", uri), slog.Any("formdata", r.PostForm))
	http.Error(w, http.StatusText(status), status)
}

// intentStatus maps a rejected intent to the response status. ok is false for errors that are not the
// player's doing.
func intentStatus(err error) (status int, ok bool) {
	switch {
	case errors.Is(err, game.ErrInvalidInput):
		return http.StatusUnprocessableEntity, true
	case errors.Is(err, game.ErrScreenLocked),
		errors.Is(err, game.ErrOutOfOrderInterrogation),
		errors.Is(err, game.ErrInvalidState):
		return http.StatusConflict, true
	default:
		return http.StatusInternalServerError, false
	}
}

// formInt parses the form value key as an integer. A missing or malformed value is invalid input.
func formInt(r *http.Request, key string) (int, error) {
	raw := r.PostForm.Get(key)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrap(game.ErrInvalidInput, "parse form value",
			slog.String("key", key), slog.String("value", raw))
	}
	return v, nil
}
