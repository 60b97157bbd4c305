// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the live poll API.

# Handler Types

Each handler is a struct with engine and config dependencies:

  - SessionHandler: Audience login and logout
  - AudienceHandler: State polling and response submission
  - ResultsHandler: Question listing and tallies
  - PresenterHandler: Question activation and status

Handlers are created via constructor functions that accept *poll.Engine and
Config:

	audience := handlers.NewAudienceHandler(engine, cfg)

# Audience Flow

	POST   /sessions  → Login (returns session_id, sets qp_session cookie)
	GET    /state     → GetState (WAITING or ACTIVE with the question)
	POST   /responses → Submit (returns SUBMITTED)
	DELETE /sessions  → Logout

Audience operations read the session from X-Session-ID or the cookie.

# Presenter Flow

	POST /presenter/activate → Activate (advanced or noop)
	GET  /presenter/status   → Status

Presenter operations require the X-Presenter-Key header.

# Errors

Engine errors map to status codes in one place (errors.go):

	ErrStorageUnavailable → 503
	ErrNotActive          → 409
	ErrInvalidOrdinal     → 400
	ErrNoActiveSession    → 401
	ErrNoSelection        → 400
	ErrUnknownOption      → 400
*/
package handlers
