// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// Driver names registered by modernc.org/sqlite and github.com/lib/pq
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// CreateSchema creates the response ledger table.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Types are restricted to ones both SQLite and PostgreSQL accept.
const schema = `
-- Responses (append-only ledger)
CREATE TABLE IF NOT EXISTS response (
    seq BIGINT PRIMARY KEY,
    session_id TEXT NOT NULL,
    display_name TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    chosen_option TEXT NOT NULL,
    recorded_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_response_ordinal ON response(ordinal);
`
