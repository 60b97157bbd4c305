// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-pick-live/cliparse"
	"github.com/danielhkuo/quickly-pick-live/middleware"
	"github.com/danielhkuo/quickly-pick-live/models"
	"github.com/danielhkuo/quickly-pick-live/poll"
)

type AudienceHandler struct {
	engine *poll.Engine
	cfg    cliparse.Config
}

func NewAudienceHandler(engine *poll.Engine, cfg cliparse.Config) *AudienceHandler {
	return &AudienceHandler{engine: engine, cfg: cfg}
}

// GetState handles GET /state
func (h *AudienceHandler) GetState(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionID(r)
	if id == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Session-ID header required")
		return
	}

	state, err := h.engine.State(id)
	if err != nil {
		writeEngineError(w, err, "state")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, state)
}

// Submit handles POST /responses
func (h *AudienceHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionID(r)
	if id == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Session-ID header required")
		return
	}

	var req models.SubmitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.engine.Submit(id, req.Ordinal, req.Option)
	if err != nil {
		writeEngineError(w, err, "submit")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, resp)
}
