// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	r.Get("/health", middleware.WithLogging(handler))

Logs completion with status, chi request ID and duration_ms. The request
start line is logged at debug level.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(r),
	}

Allows methods GET, POST, DELETE, OPTIONS with headers
Content-Type, X-Session-ID, X-Presenter-Key.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.SubmitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Sessions

Audience requests identify themselves with the X-Session-ID header or the
qp_session cookie set at login:

	id := middleware.SessionID(r)

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Handles X-Forwarded-For and X-Real-IP. Used in request logs.
*/
package middleware
