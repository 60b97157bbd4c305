// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles schema creation for the SQL-backed response ledger.

# Schema Creation

CreateSchema initializes the ledger table:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for the table and index.

# Tables

  - response: one row per submitted response, keyed by seq (append order)

recorded_at is stored as Unix nanoseconds so the same DDL works on SQLite
(modernc.org/sqlite) and PostgreSQL (lib/pq).

# Indexes

  - response.ordinal
*/
package db
