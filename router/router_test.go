// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-pick-live/auth"
	"github.com/danielhkuo/quickly-pick-live/middleware"
	"github.com/danielhkuo/quickly-pick-live/models"
	"github.com/danielhkuo/quickly-pick-live/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	engine, _, cfg := testutil.SetupTestEngine(t)
	return NewRouter(engine, cfg)
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "quickly-pick live API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t)

	// 400 and 401 are valid responses, the route just has to be matched
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"POST", "/sessions"},
		{"DELETE", "/sessions"},
		{"GET", "/state"},
		{"POST", "/responses"},
		{"GET", "/questions"},
		{"GET", "/questions/2/tally"},
		{"POST", "/presenter/activate"},
		{"GET", "/presenter/status"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed || w.Code == http.StatusNotFound {
				t.Errorf("Route %s %s returned %d, expected route handler to exist", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"PUT", "/sessions"},
		{"POST", "/state"},
		{"GET", "/responses"},
		{"POST", "/questions/2/tally"},
		{"GET", "/presenter/activate"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/polls/abc", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/responses", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Error("Expected origin to be echoed")
	}
}

// TestLivePollFlow drives one question round trip through the router
func TestLivePollFlow(t *testing.T) {
	mux := newTestRouter(t)
	presenter := map[string]string{auth.PresenterKeyHeader: testutil.TestPresenterKey}

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		return w
	}

	// Log in
	w := serve(testutil.MakeRequest("POST", "/sessions", models.LoginRequest{DisplayName: "Ada"}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var login models.LoginResponse
	testutil.AssertJSON(t, w, &login)
	audience := map[string]string{middleware.SessionHeader: login.SessionID}

	// Nothing active yet
	w = serve(testutil.MakeRequest("GET", "/state", nil, audience))
	testutil.AssertStatus(t, w, http.StatusOK)
	var state models.StateResponse
	testutil.AssertJSON(t, w, &state)
	if state.Mode != models.ModeWaiting {
		t.Fatalf("Expected WAITING, got %s", state.Mode)
	}

	// Presenter opens question 2
	w = serve(testutil.MakeRequest("POST", "/presenter/activate", models.ActivateRequest{Ordinal: 2}, presenter))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = serve(testutil.MakeRequest("GET", "/state", nil, audience))
	state = models.StateResponse{}
	testutil.AssertJSON(t, w, &state)
	if state.Mode != models.ModeActive || state.Ordinal != 2 {
		t.Fatalf("Expected ACTIVE on 2, got %s on %d", state.Mode, state.Ordinal)
	}

	// Answer it
	w = serve(testutil.MakeRequest("POST", "/responses", models.SubmitRequest{Ordinal: 2, Option: "no"}, audience))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = serve(testutil.MakeRequest("GET", "/state", nil, audience))
	state = models.StateResponse{}
	testutil.AssertJSON(t, w, &state)
	if state.Mode != models.ModeWaiting {
		t.Errorf("Expected WAITING after answering, got %s", state.Mode)
	}

	// Tally through the chi URL parameter
	w = serve(testutil.MakeRequest("GET", "/questions/2/tally", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var tally models.Tally
	testutil.AssertJSON(t, w, &tally)
	if tally.Counts["no"] != 1 || tally.Total != 1 {
		t.Errorf("Unexpected tally %+v", tally)
	}

	// Log out
	w = serve(testutil.MakeRequest("DELETE", "/sessions", nil, audience))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = serve(testutil.MakeRequest("GET", "/state", nil, audience))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
