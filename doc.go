// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the quickly-pick live poll server.

A presenter steps through a fixed list of questions; every audience member
polls for the active one, answers it once, then waits for the next. Answers
are appended to a durable ledger and tallied on demand.

# Starting the Server

	PRESENTER_KEY=secret go run .

Or with flags:

	go run . -p 3318 -data ./data -presenter-key secret

A .env file in the working directory is loaded first; variables already set
in the environment win.

# Configuration

Required settings:

  - PRESENTER_KEY (-presenter-key): Shared secret for presenter endpoints

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATA_DIR (-data): Directory for pointer, ledger, questions, registry (default: data)
  - LEDGER_BACKEND (-t): file, sqlite or postgres (default: file)
  - DATABASE_URL (-d): Connection string for the sql ledgers
  - SCRIPT_PATH (-script): YAML question script that replaces questions.csv
  - MIN_ACTIVE_ORDINAL (-min-active): Lowest ordinal served as a question (default: 2)
  - SESSION_TTL (-session-ttl): Idle session lifetime (default: 12h)
  - DUPLICATE_POLICY (-duplicates): replace or append (default: replace)
  - RESET_ON_START (-reset): Clear pointer, ledger and registry at startup (default: true)
  - TLS_CERT, TLS_KEY (-tls-cert, -tls-key): Serve HTTPS with this PEM pair; both or neither

# Architecture

  - store: Active pointer, response ledger, question table, name registry
  - session: In-memory audience sessions and cursors
  - poll: Sync gate, aggregation and the engine tying them together
  - handlers: HTTP request handlers
  - router: Route definitions using chi
  - middleware: CORS, logging, JSON and session helpers
  - models: Request/response and domain types
  - auth: Presenter key checks
  - db: SQL ledger schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
