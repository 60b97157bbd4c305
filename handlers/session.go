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

type SessionHandler struct {
	engine *poll.Engine
	cfg    cliparse.Config
}

func NewSessionHandler(engine *poll.Engine, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{engine: engine, cfg: cfg}
}

// Login handles POST /sessions
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	s, err := h.engine.Login(req.DisplayName)
	if err != nil {
		writeEngineError(w, err, "login")
		return
	}

	middleware.SetSessionCookie(w, s.ID, h.cfg.SessionTTL)
	middleware.JSONResponse(w, http.StatusCreated, models.LoginResponse{
		SessionID:   s.ID,
		DisplayName: s.DisplayName,
	})
}

// Logout handles DELETE /sessions
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionID(r)
	if id == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Session-ID header required")
		return
	}

	h.engine.Logout(id)
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
