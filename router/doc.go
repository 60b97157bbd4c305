// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the live poll API.

# Route Registration

NewRouter builds a chi router with request IDs, panic recovery and CORS:

	handler := router.NewRouter(engine, cfg)

# Endpoints

Health:

	GET /health

Audience (session from X-Session-ID or the qp_session cookie):

	POST   /sessions  - Log in with a display name
	DELETE /sessions  - Log out
	GET    /state     - WAITING or ACTIVE with the question
	POST   /responses - Submit an answer

Questions (public):

	GET /questions                  - Question table with cached counts
	GET /questions/{ordinal}/tally  - Tally, ?cached=true to read the cache

Presenter (requires X-Presenter-Key):

	POST /presenter/activate - Advance the active question
	GET  /presenter/status   - Pointer, ledger and registry overview

Wrong methods on known paths return 405, unknown paths 404.
*/
package router
