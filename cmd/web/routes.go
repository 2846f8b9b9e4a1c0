package main

import (
	"io/fs"
	"net/http"

	"github.com/justinas/alice"
	"github.com/myrjola/casefile/ui"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	static, err := fs.Sub(ui.Files, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", cacheForeverHeaders(http.StripPrefix("/static", http.FileServerFS(static))))

	mux.HandleFunc("GET /api/healthy", app.healthy)

	session := alice.New(app.serializeSession, app.sessionManager.LoadAndSave, noSurf, commonContext, app.sessionContext)
	timed := session.Append(func(next http.Handler) http.Handler {
		return timeoutHandler(next, defaultTimeout)
	})

	mux.Handle("GET /{$}", timed.ThenFunc(app.home))
	mux.Handle("POST /name", timed.ThenFunc(app.submitName))
	mux.Handle("POST /navigate", timed.ThenFunc(app.navigate))
	mux.Handle("POST /examine", timed.ThenFunc(app.examine))
	mux.Handle("POST /fragment", timed.ThenFunc(app.revealFragment))
	mux.Handle("POST /suspects/start", timed.ThenFunc(app.startInterrogation))
	mux.Handle("POST /interrogation/choose", timed.ThenFunc(app.chooseApproach))
	mux.Handle("POST /interrogation/advance", timed.ThenFunc(app.advanceInterrogation))
	mux.Handle("POST /contradictions/value", timed.ThenFunc(app.setContradiction))
	mux.Handle("POST /contradictions/submit", timed.ThenFunc(app.submitContradictions))
	mux.Handle("POST /assessment/answer", timed.ThenFunc(app.answerAssessment))
	mux.Handle("POST /verdict", timed.ThenFunc(app.chooseVerdict))
	mux.Handle("POST /audio", timed.ThenFunc(app.toggleAudio))
	mux.Handle("POST /reset", timed.ThenFunc(app.reset))

	// Streams must not be buffered by LoadAndSave nor cut short by the timeout handler.
	stream := alice.New(app.serverSentEventMiddleware, app.sessionContext)
	mux.Handle("GET /reveals/{token}", stream.ThenFunc(app.streamReveals))

	return alice.New(app.recoverPanic, app.logRequest, secureHeaders).Then(mux)
}
