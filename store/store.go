// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/quickly-pick-live/db"
)

// File names inside the data directory
const (
	PointerFile   = "pointer"
	LedgerFile    = "responses.jsonl"
	QuestionsFile = "questions.csv"
	RegistryFile  = "registry.bolt"
)

// Ledger backends
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Stores bundles the four shared resources. Each has its own lock and none
// of them is ever locked together with another.
type Stores struct {
	Pointer   *Pointer
	Ledger    Ledger
	Questions *QuestionTable
	Registry  *Registry

	resetMu   sync.Mutex
	resetDone bool
}

// Open opens the file-based stores under dataDir around an already opened
// ledger.
func Open(dataDir string, ledger Ledger) (*Stores, error) {
	pointer, err := OpenPointer(filepath.Join(dataDir, PointerFile))
	if err != nil {
		return nil, err
	}
	questions, err := OpenQuestionTable(filepath.Join(dataDir, QuestionsFile))
	if err != nil {
		return nil, err
	}
	registry, err := OpenRegistry(filepath.Join(dataDir, RegistryFile))
	if err != nil {
		return nil, err
	}

	return &Stores{
		Pointer:   pointer,
		Ledger:    ledger,
		Questions: questions,
		Registry:  registry,
	}, nil
}

// OpenLedger opens the ledger for backend. databaseURL is ignored by the file
// backend; for sqlite it defaults to a file in dataDir.
func OpenLedger(backend, dataDir, databaseURL string) (Ledger, error) {
	switch backend {
	case "", BackendFile:
		return OpenFileLedger(filepath.Join(dataDir, LedgerFile))
	case BackendSQLite, BackendPostgres:
		driver := db.DriverSQLite
		if backend == BackendPostgres {
			driver = db.DriverPostgres
			if databaseURL == "" {
				return nil, errors.New("postgres ledger requires a database URL")
			}
		}
		if databaseURL == "" {
			databaseURL = filepath.Join(dataDir, "responses.db")
		}
		conn, err := sql.Open(driver, databaseURL)
		if err != nil {
			return nil, unavailable("open ledger database", err)
		}
		if err := conn.Ping(); err != nil {
			_ = conn.Close()
			return nil, unavailable("ping ledger database", err)
		}
		ledger, err := OpenSQLLedger(conn)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		return ledger, nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", backend)
	}
}

// ResetOnce empties the pointer, ledger, registry and count cache. It runs at
// most once per Stores; later calls return false without touching anything.
// The question rows themselves are kept.
func (s *Stores) ResetOnce() (bool, error) {
	s.resetMu.Lock()
	defer s.resetMu.Unlock()

	if s.resetDone {
		return false, nil
	}

	if err := s.Pointer.Reset(); err != nil {
		return false, err
	}
	if err := s.Ledger.Reset(); err != nil {
		return false, err
	}
	if err := s.Registry.Reset(); err != nil {
		return false, err
	}
	if err := s.Questions.ClearCounts(); err != nil {
		return false, err
	}

	s.resetDone = true
	slog.Info("stores reset", "questions", s.Questions.Count())
	return true, nil
}

func (s *Stores) Close() error {
	return s.Ledger.Close()
}
