// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/quickly-pick-live/cliparse"
	"github.com/danielhkuo/quickly-pick-live/models"
	"github.com/danielhkuo/quickly-pick-live/poll"
	"github.com/danielhkuo/quickly-pick-live/session"
	"github.com/danielhkuo/quickly-pick-live/store"
)

// TestPresenterKey is the presenter key used by GetTestConfig
const TestPresenterKey = "test-presenter-key"

// TestQuestions is the question table seeded by SetupTestEngine. Row 1 is
// the reserved welcome slide.
const TestQuestions = "Welcome\n" +
	"Ship on Friday?,yes,,no,,maybe,\n" +
	"Colour?,red,,blue,\n"

// GetTestConfig returns a standard test configuration rooted at dataDir
func GetTestConfig(dataDir string) cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DataDir:          dataDir,
		LedgerBackend:    store.BackendFile,
		PresenterKey:     TestPresenterKey,
		MinActiveOrdinal: poll.DefaultMinActiveOrdinal,
		SessionTTL:       time.Hour,
		DuplicatePolicy:  models.DuplicateReplace,
	}
}

// SetupTestEngine creates a fresh data directory with TestQuestions and
// returns an engine over it. Stores are closed when the test ends.
func SetupTestEngine(t *testing.T) (*poll.Engine, *store.Stores, cliparse.Config) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, store.QuestionsFile), []byte(TestQuestions), 0o644); err != nil {
		t.Fatalf("Failed to seed questions: %v", err)
	}

	cfg := GetTestConfig(dir)

	ledger, err := store.OpenLedger(cfg.LedgerBackend, dir, "")
	if err != nil {
		t.Fatalf("Failed to open ledger: %v", err)
	}
	stores, err := store.Open(dir, ledger)
	if err != nil {
		t.Fatalf("Failed to open stores: %v", err)
	}
	t.Cleanup(func() { _ = stores.Close() })

	engine := poll.NewEngine(stores, session.NewStore(cfg.SessionTTL), poll.Options{
		MinActiveOrdinal: cfg.MinActiveOrdinal,
		DuplicatePolicy:  cfg.DuplicatePolicy,
	})
	return engine, stores, cfg
}

// Login starts a session on the engine and returns its ID
func Login(t *testing.T, engine *poll.Engine, name string) string {
	t.Helper()

	s, err := engine.Login(name)
	if err != nil {
		t.Fatalf("Failed to log in %s: %v", name, err)
	}
	return s.ID
}

// Activate moves the pointer to ordinal
func Activate(t *testing.T, engine *poll.Engine, ordinal int) {
	t.Helper()

	if _, err := engine.Activate(ordinal); err != nil {
		t.Fatalf("Failed to activate %d: %v", ordinal, err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// WithURLParam attaches a chi URL parameter so handlers can be called
// without going through the router
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
