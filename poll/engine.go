// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-pick-live/models"
	"github.com/danielhkuo/quickly-pick-live/session"
	"github.com/danielhkuo/quickly-pick-live/store"
)

type Options struct {
	MinActiveOrdinal int
	DuplicatePolicy  string
}

// Engine runs the presenter/audience protocol on top of the stores. Each
// method touches one store at a time and releases it before the next.
type Engine struct {
	stores   *store.Stores
	sessions *session.Store
	gate     Gate
	policy   string
}

func NewEngine(stores *store.Stores, sessions *session.Store, opts Options) *Engine {
	policy := opts.DuplicatePolicy
	if policy == "" {
		policy = models.DuplicateReplace
	}
	return &Engine{
		stores:   stores,
		sessions: sessions,
		gate:     Gate{MinActiveOrdinal: opts.MinActiveOrdinal},
		policy:   policy,
	}
}

// Activate moves the active pointer forward to ordinal. Requests at or
// behind the current pointer are no-ops.
func (e *Engine) Activate(ordinal int) (models.ActivateResponse, error) {
	if ordinal < 1 || ordinal > e.stores.Questions.Count() {
		return models.ActivateResponse{}, fmt.Errorf("%w: %d", ErrInvalidOrdinal, ordinal)
	}

	advanced, err := e.stores.Pointer.AdvanceTo(ordinal)
	if err != nil {
		return models.ActivateResponse{}, err
	}

	resp := models.ActivateResponse{Result: models.ActivateNoop, Active: e.stores.Pointer.Read()}
	if advanced {
		resp.Result = models.ActivateAdvanced
		slog.Info("question activated", "ordinal", ordinal)
	}
	return resp, nil
}

// Login starts a session and appends the name to the registry.
func (e *Engine) Login(displayName string) (session.Session, error) {
	name := strings.TrimSpace(displayName)
	if name == "" || utf8.RuneCountInString(name) > 50 {
		return session.Session{}, ErrInvalidName
	}

	s := e.sessions.Create(name)
	if err := e.stores.Registry.Register(name, s.ID); err != nil {
		e.sessions.Delete(s.ID)
		return session.Session{}, err
	}

	slog.Info("session started", "session_id", s.ID, "display_name", name)
	return s, nil
}

func (e *Engine) Logout(sessionID string) {
	e.sessions.Delete(sessionID)
}

// State is the client poll. In ACTIVE mode the cursor is moved up to the
// active ordinal as soon as the question is served, so a client that never
// answers does not hold itself back.
func (e *Engine) State(sessionID string) (models.StateResponse, error) {
	s, err := e.sessions.Get(sessionID)
	if err != nil {
		return models.StateResponse{}, ErrNoActiveSession
	}

	active := e.stores.Pointer.Read()
	if e.gate.Evaluate(s.Cursor, active) == models.ModeWaiting {
		return models.StateResponse{Mode: models.ModeWaiting}, nil
	}

	q, ok := e.stores.Questions.Get(active)
	if !ok {
		slog.Warn("active pointer past end of question table", "active", active)
		return models.StateResponse{Mode: models.ModeWaiting}, nil
	}

	_, err = e.sessions.Update(sessionID, func(s *session.Session) error {
		if s.Cursor < active {
			s.Cursor = active
		}
		return nil
	})
	if err != nil {
		return models.StateResponse{}, ErrNoActiveSession
	}

	return models.StateResponse{
		Mode:     models.ModeActive,
		Ordinal:  active,
		Question: withoutCounts(q),
	}, nil
}

// Submit records one response. Nothing is written and the cursor stays put
// unless every check passes; the cursor only moves after the ledger append
// succeeded.
func (e *Engine) Submit(sessionID string, ordinal int, option string) (models.SubmitResponse, error) {
	s, err := e.sessions.Get(sessionID)
	if err != nil {
		return models.SubmitResponse{}, ErrNoActiveSession
	}

	option = strings.TrimSpace(option)
	if option == "" {
		return models.SubmitResponse{}, ErrNoSelection
	}

	q, ok := e.stores.Questions.Get(ordinal)
	if !ok {
		return models.SubmitResponse{}, fmt.Errorf("%w: %d", ErrInvalidOrdinal, ordinal)
	}
	// The reserved rows are never served, so they cannot be answered either.
	if ordinal < e.gate.MinActiveOrdinal || ordinal > e.stores.Pointer.Read() {
		return models.SubmitResponse{}, ErrNotActive
	}
	if !q.HasOption(option) {
		return models.SubmitResponse{}, ErrUnknownOption
	}

	rec, err := e.stores.Ledger.Append(models.ResponseRecord{
		SessionID:   s.ID,
		DisplayName: s.DisplayName,
		Ordinal:     ordinal,
		Option:      option,
	})
	if err != nil {
		slog.Error("failed to append response", "error", err, "session_id", s.ID, "ordinal", ordinal)
		return models.SubmitResponse{}, err
	}

	_, err = e.sessions.Update(sessionID, func(s *session.Session) error {
		if s.Cursor < ordinal+1 {
			s.Cursor = ordinal + 1
		}
		s.Answered[ordinal] = true
		return nil
	})
	if err != nil {
		// The response is committed; only the cursor update was lost.
		slog.Warn("session gone after response was recorded", "session_id", s.ID, "seq", rec.Seq)
	}

	if err := e.stores.Questions.InvalidateCounts(ordinal); err != nil {
		slog.Warn("failed to invalidate cached tally", "error", err, "ordinal", ordinal)
	}

	slog.Info("response recorded", "seq", rec.Seq, "session_id", s.ID, "ordinal", ordinal)

	return models.SubmitResponse{
		Mode:    models.ModeSubmitted,
		Ordinal: ordinal,
		Message: "Response recorded",
	}, nil
}

// Tally recomputes counts for ordinal from the ledger and refreshes the
// question table's cache. A failed cache write is logged and ignored.
func (e *Engine) Tally(ordinal int) (models.Tally, error) {
	q, ok := e.stores.Questions.Get(ordinal)
	if !ok {
		return models.Tally{}, fmt.Errorf("%w: %d", ErrInvalidOrdinal, ordinal)
	}

	recs, err := e.stores.Ledger.Scan(ordinal)
	if err != nil {
		return models.Tally{}, err
	}

	tally := Aggregate(q, recs, e.policy)

	if err := e.stores.Questions.UpdateCounts(ordinal, tally.Counts); err != nil {
		slog.Warn("failed to cache tally", "error", err, "ordinal", ordinal)
	}

	return tally, nil
}

// CachedTally serves the cached counts when every option has one and falls
// back to Tally otherwise. Submit drops the cache of the answered ordinal, so
// a cached tally never misses a response recorded before it was read.
func (e *Engine) CachedTally(ordinal int) (models.Tally, error) {
	q, ok := e.stores.Questions.Get(ordinal)
	if !ok {
		return models.Tally{}, fmt.Errorf("%w: %d", ErrInvalidOrdinal, ordinal)
	}
	if t, ok := tallyFromCache(q); ok {
		return t, nil
	}
	return e.Tally(ordinal)
}

func (e *Engine) Questions() []models.Question {
	return e.stores.Questions.All()
}

func (e *Engine) Status() (models.StatusResponse, error) {
	stats, err := e.stores.Ledger.Stats()
	if err != nil {
		return models.StatusResponse{}, err
	}
	names, err := e.stores.Registry.Names()
	if err != nil {
		return models.StatusResponse{}, err
	}

	return models.StatusResponse{
		Active:        e.stores.Pointer.Read(),
		QuestionCount: e.stores.Questions.Count(),
		Ledger:        stats,
		LedgerSize:    humanize.Bytes(uint64(stats.Bytes)),
		Sessions:      e.sessions.Len(),
		Registered:    names,
	}, nil
}

func withoutCounts(q models.Question) *models.Question {
	out := models.Question{Ordinal: q.Ordinal, Title: q.Title, Options: make([]models.Option, 0, len(q.Options))}
	for _, opt := range q.Options {
		out.Options = append(out.Options, models.Option{Label: opt.Label})
	}
	return &out
}
