// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import "github.com/danielhkuo/quickly-pick-live/models"

// DefaultMinActiveOrdinal keeps ordinal 1 as the script's intro row, which
// is never served as a question.
const DefaultMinActiveOrdinal = 2

// Gate decides what a polling client sees from its cursor and the active
// pointer.
type Gate struct {
	MinActiveOrdinal int
}

// Evaluate returns ModeWaiting when the client is ahead of the presenter or
// nothing answerable is active yet, and ModeActive otherwise.
func (g Gate) Evaluate(cursor, pointer int) string {
	if cursor > pointer || pointer < g.MinActiveOrdinal {
		return models.ModeWaiting
	}
	return models.ModeActive
}
