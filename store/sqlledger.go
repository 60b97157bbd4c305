// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-pick-live/db"
	"github.com/danielhkuo/quickly-pick-live/models"
)

// SQLLedger keeps the response log in a database table. Seq is assigned
// under the ledger mutex, so table order matches append order.
type SQLLedger struct {
	db *sql.DB

	mu      sync.Mutex
	nextSeq int64
}

// OpenSQLLedger creates the schema if needed and resumes the sequence.
func OpenSQLLedger(conn *sql.DB) (*SQLLedger, error) {
	if err := db.CreateSchema(conn); err != nil {
		return nil, unavailable("create ledger schema", err)
	}

	var last sql.NullInt64
	if err := conn.QueryRow(`SELECT MAX(seq) FROM response`).Scan(&last); err != nil {
		return nil, unavailable("read ledger sequence", err)
	}

	return &SQLLedger{db: conn, nextSeq: last.Int64 + 1}, nil
}

func (l *SQLLedger) Append(rec models.ResponseRecord) (models.ResponseRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec.Seq = l.nextSeq
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}

	_, err := l.db.Exec(`
		INSERT INTO response (seq, session_id, display_name, ordinal, chosen_option, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.Seq, rec.SessionID, rec.DisplayName, rec.Ordinal, rec.Option, rec.RecordedAt.UnixNano())
	if err != nil {
		return models.ResponseRecord{}, unavailable("insert response", err)
	}

	l.nextSeq++
	return rec, nil
}

func (l *SQLLedger) Scan(ordinal int) ([]models.ResponseRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	query := `
		SELECT seq, session_id, display_name, ordinal, chosen_option, recorded_at
		FROM response
		ORDER BY seq
	`
	args := []interface{}{}
	if ordinal > 0 {
		query = `
		SELECT seq, session_id, display_name, ordinal, chosen_option, recorded_at
		FROM response
		WHERE ordinal = $1
		ORDER BY seq
	`
		args = append(args, ordinal)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, unavailable("query responses", err)
	}
	defer rows.Close()

	out := []models.ResponseRecord{}
	for rows.Next() {
		var rec models.ResponseRecord
		var recordedAt int64
		if err := rows.Scan(&rec.Seq, &rec.SessionID, &rec.DisplayName, &rec.Ordinal, &rec.Option, &recordedAt); err != nil {
			return nil, unavailable("scan response", err)
		}
		rec.RecordedAt = time.Unix(0, recordedAt).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate responses", err)
	}
	return out, nil
}

// Stats reports the row count; Bytes stays 0 because table size is not
// portable across drivers.
func (l *SQLLedger) Stats() (models.LedgerStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var stats models.LedgerStats
	if err := l.db.QueryRow(`SELECT COUNT(*) FROM response`).Scan(&stats.Records); err != nil {
		return stats, unavailable("count responses", err)
	}
	return stats, nil
}

func (l *SQLLedger) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.db.Exec(`DELETE FROM response`); err != nil {
		return unavailable("clear responses", err)
	}
	l.nextSeq = 1
	return nil
}

func (l *SQLLedger) Close() error {
	if err := l.db.Close(); err != nil {
		return fmt.Errorf("close ledger database: %w", err)
	}
	return nil
}
