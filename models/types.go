package models

import "time"

// Client-visible modes
const (
	ModeWaiting   = "WAITING"
	ModeActive    = "ACTIVE"
	ModeSubmitted = "SUBMITTED"
)

// Activate results
const (
	ActivateAdvanced = "advanced"
	ActivateNoop     = "noop"
)

// Duplicate response policies: how repeated responses from one session to
// one ordinal are counted
const (
	DuplicateReplace = "replace"
	DuplicateAppend  = "append"
)

// Domain types

// Option is one answer slot of a question. Count is the cached tally from the
// last aggregation; nil means the cache is cold.
type Option struct {
	Label string `json:"label"`
	Count *int   `json:"count,omitempty"`
}

type Question struct {
	Ordinal int      `json:"ordinal"`
	Title   string   `json:"title"`
	Options []Option `json:"options"`
}

// Labels returns the configured option labels in order
func (q Question) Labels() []string {
	labels := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		labels = append(labels, opt.Label)
	}
	return labels
}

// HasOption reports whether label is one of the question's options
func (q Question) HasOption(label string) bool {
	for _, opt := range q.Options {
		if opt.Label == label {
			return true
		}
	}
	return false
}

type ResponseRecord struct {
	Seq         int64     `json:"seq"`
	SessionID   string    `json:"session_id"`
	DisplayName string    `json:"display_name"`
	Ordinal     int       `json:"ordinal"`
	Option      string    `json:"option"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type OptionCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Tally struct {
	Ordinal int            `json:"ordinal"`
	Title   string         `json:"title"`
	Counts  map[string]int `json:"counts"`
	Options []OptionCount  `json:"options"` // configured order, then unconfigured labels sorted
	Total   int            `json:"total"`
	Cached  bool           `json:"cached"`
}

type LedgerStats struct {
	Records int64 `json:"records"`
	Bytes   int64 `json:"bytes"`
}

type RegistryEntry struct {
	Name         string    `json:"name"`
	SessionID    string    `json:"session_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Request types

type LoginRequest struct {
	DisplayName string `json:"display_name"`
}

type SubmitRequest struct {
	Ordinal int    `json:"ordinal"`
	Option  string `json:"option"`
}

type ActivateRequest struct {
	Ordinal int `json:"ordinal"`
}

// Response types

type LoginResponse struct {
	SessionID   string `json:"session_id"`
	DisplayName string `json:"display_name"`
}

// StateResponse is what a polling client receives. Question is only set in
// ACTIVE mode.
type StateResponse struct {
	Mode     string    `json:"mode"`
	Ordinal  int       `json:"ordinal,omitempty"`
	Question *Question `json:"question,omitempty"`
}

type SubmitResponse struct {
	Mode    string `json:"mode"`
	Ordinal int    `json:"ordinal"`
	Message string `json:"message"`
}

type ActivateResponse struct {
	Result string `json:"result"`
	Active int    `json:"active"`
}

type StatusResponse struct {
	Active        int             `json:"active"`
	QuestionCount int             `json:"question_count"`
	Ledger        LedgerStats     `json:"ledger"`
	LedgerSize    string          `json:"ledger_size"`
	Sessions      int             `json:"sessions"`
	Registered    []RegistryEntry `json:"registered"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
