// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-pick-live/auth"
	"github.com/danielhkuo/quickly-pick-live/cliparse"
	"github.com/danielhkuo/quickly-pick-live/middleware"
	"github.com/danielhkuo/quickly-pick-live/models"
	"github.com/danielhkuo/quickly-pick-live/poll"
)

type PresenterHandler struct {
	engine *poll.Engine
	cfg    cliparse.Config
}

func NewPresenterHandler(engine *poll.Engine, cfg cliparse.Config) *PresenterHandler {
	return &PresenterHandler{engine: engine, cfg: cfg}
}

func (h *PresenterHandler) authorized(w http.ResponseWriter, r *http.Request) bool {
	if err := auth.ValidatePresenterRequest(r, h.cfg.PresenterKey); err != nil {
		slog.Warn("rejected presenter request", "path", r.URL.Path, "remote", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid presenter key")
		return false
	}
	return true
}

// Activate handles POST /presenter/activate
func (h *PresenterHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	var req models.ActivateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.engine.Activate(req.Ordinal)
	if err != nil {
		writeEngineError(w, err, "activate")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Status handles GET /presenter/status
func (h *PresenterHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}

	status, err := h.engine.Status()
	if err != nil {
		writeEngineError(w, err, "status")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, status)
}
