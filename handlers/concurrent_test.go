// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/quickly-pick-live/auth"
	"github.com/danielhkuo/quickly-pick-live/middleware"
	"github.com/danielhkuo/quickly-pick-live/models"
	"github.com/danielhkuo/quickly-pick-live/testutil"
)

// TestConcurrentSubmissions verifies that simultaneous responses from many
// sessions all land in the ledger exactly once
func TestConcurrentSubmissions(t *testing.T) {
	engine, stores, cfg := testutil.SetupTestEngine(t)
	audience := NewAudienceHandler(engine, cfg)
	results := NewResultsHandler(engine, cfg)

	testutil.Activate(t, engine, 2)

	numClients := 20
	ids := make([]string, numClients)
	for i := range ids {
		ids[i] = testutil.Login(t, engine, fmt.Sprintf("Client%02d", i))
	}

	options := []string{"yes", "no", "maybe"}
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/responses",
				models.SubmitRequest{Ordinal: 2, Option: options[idx%3]},
				map[string]string{middleware.SessionHeader: ids[idx]})
			w := httptest.NewRecorder()

			audience.Submit(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numClients {
		t.Errorf("Expected %d successful submissions, got %d", numClients, successCount.Load())
	}

	recs, err := stores.Ledger.Scan(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != numClients {
		t.Errorf("Expected %d ledger records, got %d", numClients, len(recs))
	}

	seen := make(map[int64]bool)
	for _, rec := range recs {
		if seen[rec.Seq] {
			t.Errorf("Duplicate sequence number %d", rec.Seq)
		}
		seen[rec.Seq] = true
	}

	req := testutil.WithURLParam(testutil.MakeRequest("GET", "/questions/2/tally", nil, nil), "ordinal", "2")
	w := httptest.NewRecorder()
	results.GetTally(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var tally models.Tally
	testutil.AssertJSON(t, w, &tally)
	// 20 clients over 3 options: 7 yes, 7 no, 6 maybe
	if tally.Counts["yes"] != 7 || tally.Counts["no"] != 7 || tally.Counts["maybe"] != 6 {
		t.Errorf("Unexpected counts %v", tally.Counts)
	}
}

// TestConcurrentActivate verifies that when several presenter requests race
// to the same ordinal, exactly one advances the pointer
func TestConcurrentActivate(t *testing.T) {
	engine, stores, cfg := testutil.SetupTestEngine(t)
	presenter := NewPresenterHandler(engine, cfg)

	numAttempts := 5
	var advanced atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/presenter/activate", models.ActivateRequest{Ordinal: 2},
				map[string]string{auth.PresenterKeyHeader: testutil.TestPresenterKey})
			w := httptest.NewRecorder()

			presenter.Activate(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
				return
			}
			var resp models.ActivateResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Errorf("Failed to decode response: %v", err)
				return
			}
			if resp.Result == models.ActivateAdvanced {
				advanced.Add(1)
			}
		}()
	}

	wg.Wait()

	if advanced.Load() != 1 {
		t.Errorf("Expected exactly 1 advance, got %d", advanced.Load())
	}
	if got := stores.Pointer.Read(); got != 2 {
		t.Errorf("Expected pointer 2, got %d", got)
	}
}

// TestConcurrentPollingDuringActivate checks that clients polling while the
// presenter advances only ever see WAITING or the active question
func TestConcurrentPollingDuringActivate(t *testing.T) {
	engine, _, cfg := testutil.SetupTestEngine(t)
	audience := NewAudienceHandler(engine, cfg)

	numClients := 10
	ids := make([]string, numClients)
	for i := range ids {
		ids[i] = testutil.Login(t, engine, fmt.Sprintf("Poller%02d", i))
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, ordinal := range []int{1, 2, 3} {
			if _, err := engine.Activate(ordinal); err != nil {
				t.Errorf("Activate(%d): %v", ordinal, err)
			}
		}
	}()

	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for n := 0; n < 5; n++ {
				req := testutil.MakeRequest("GET", "/state", nil, map[string]string{middleware.SessionHeader: ids[idx]})
				w := httptest.NewRecorder()
				audience.GetState(w, req)
				if w.Code != http.StatusOK {
					t.Errorf("Expected status 200, got %d", w.Code)
					return
				}
				var state models.StateResponse
				if err := json.NewDecoder(w.Body).Decode(&state); err != nil {
					t.Errorf("Failed to decode state: %v", err)
					return
				}
				if state.Mode == models.ModeActive && state.Ordinal < 2 {
					t.Errorf("Reserved ordinal %d served as ACTIVE", state.Ordinal)
				}
			}
		}(i)
	}

	wg.Wait()
}
