// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/danielhkuo/quickly-pick-live/cliparse"
	"github.com/danielhkuo/quickly-pick-live/handlers"
	"github.com/danielhkuo/quickly-pick-live/middleware"
	"github.com/danielhkuo/quickly-pick-live/poll"
)

func NewRouter(engine *poll.Engine, cfg cliparse.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(engine, cfg)
	audienceHandler := handlers.NewAudienceHandler(engine, cfg)
	resultsHandler := handlers.NewResultsHandler(engine, cfg)
	presenterHandler := handlers.NewPresenterHandler(engine, cfg)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Audience sessions
	r.Post("/sessions", middleware.WithLogging(sessionHandler.Login))
	r.Delete("/sessions", middleware.WithLogging(sessionHandler.Logout))

	// Audience polling and responses
	r.Get("/state", middleware.WithLogging(audienceHandler.GetState))
	r.Post("/responses", middleware.WithLogging(audienceHandler.Submit))

	// Questions and tallies (public)
	r.Get("/questions", middleware.WithLogging(resultsHandler.ListQuestions))
	r.Get("/questions/{ordinal}/tally", middleware.WithLogging(resultsHandler.GetTally))

	// Presenter (requires X-Presenter-Key)
	r.Route("/presenter", func(r chi.Router) {
		r.Post("/activate", middleware.WithLogging(presenterHandler.Activate))
		r.Get("/status", middleware.WithLogging(presenterHandler.Status))
	})

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-pick live API v1"))
	})

	return middleware.CORS(r)
}
