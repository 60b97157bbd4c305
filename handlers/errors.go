// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-pick-live/middleware"
	"github.com/danielhkuo/quickly-pick-live/poll"
)

// writeEngineError maps an engine error onto a status code. ErrNotActive is
// checked before ErrInvalidOrdinal since it wraps it.
func writeEngineError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, poll.ErrStorageUnavailable):
		slog.Error("storage unavailable", "op", op, "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Storage unavailable, try again")
	case errors.Is(err, poll.ErrNotActive):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, poll.ErrInvalidOrdinal):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, poll.ErrNoActiveSession):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "No active session, log in again")
	case errors.Is(err, poll.ErrNoSelection),
		errors.Is(err, poll.ErrUnknownOption),
		errors.Is(err, poll.ErrInvalidName):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("unexpected error", "op", op, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}
