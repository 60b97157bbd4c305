// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/quickly-pick-live/cliparse"
	"github.com/danielhkuo/quickly-pick-live/middleware"
	"github.com/danielhkuo/quickly-pick-live/models"
	"github.com/danielhkuo/quickly-pick-live/poll"
)

type ResultsHandler struct {
	engine *poll.Engine
	cfg    cliparse.Config
}

func NewResultsHandler(engine *poll.Engine, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{engine: engine, cfg: cfg}
}

// ListQuestions handles GET /questions
func (h *ResultsHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, map[string][]models.Question{
		"questions": h.engine.Questions(),
	})
}

// GetTally handles GET /questions/{ordinal}/tally
// With ?cached=true the question table's counts are served when present.
func (h *ResultsHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	ordinal, err := strconv.Atoi(chi.URLParam(r, "ordinal"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ordinal must be an integer")
		return
	}

	cached, _ := strconv.ParseBool(r.URL.Query().Get("cached"))

	var tally models.Tally
	if cached {
		tally, err = h.engine.CachedTally(ordinal)
	} else {
		tally, err = h.engine.Tally(ordinal)
	}
	if err != nil {
		writeEngineError(w, err, "tally")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally)
}
