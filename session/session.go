// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Session is one audience member's browser session. Cursor is the last
// ordinal this session was served or answered.
type Session struct {
	ID          string
	DisplayName string
	Cursor      int
	Answered    map[int]bool
	CreatedAt   time.Time
	LastSeen    time.Time
}

func (s *Session) clone() Session {
	out := *s
	out.Answered = make(map[int]bool, len(s.Answered))
	for k, v := range s.Answered {
		out.Answered[k] = v
	}
	return out
}

// Store keeps sessions in process memory. Nothing survives a restart.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
// ttl <= 0 disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// SetClock replaces the time source; used by tests.
func (st *Store) SetClock(now func() time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.now = now
}

func (st *Store) Create(displayName string) Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	s := &Session{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		Answered:    make(map[int]bool),
		CreatedAt:   now,
		LastSeen:    now,
	}
	st.sessions[s.ID] = s
	return s.clone()
}

// Get returns a copy of the session and refreshes its expiry.
func (st *Store) Get(id string) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, err := st.liveLocked(id)
	if err != nil {
		return Session{}, err
	}
	s.LastSeen = st.now()
	return s.clone(), nil
}

// Update runs fn on the stored session under the store lock. fn must not
// block or touch other stores.
func (st *Store) Update(id string, fn func(s *Session) error) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, err := st.liveLocked(id)
	if err != nil {
		return Session{}, err
	}
	if err := fn(s); err != nil {
		return s.clone(), err
	}
	s.LastSeen = st.now()
	return s.clone(), nil
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if st.expiredLocked(s) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

func (st *Store) liveLocked(id string) (*Session, error) {
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if st.expiredLocked(s) {
		delete(st.sessions, id)
		return nil, ErrNotFound
	}
	return s, nil
}

func (st *Store) expiredLocked(s *Session) bool {
	return st.ttl > 0 && st.now().Sub(s.LastSeen) > st.ttl
}
