// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import (
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-pick-live/store"
)

var (
	// ErrStorageUnavailable is returned when a durable store fails; the
	// operation was not committed.
	ErrStorageUnavailable = store.ErrStorageUnavailable

	ErrInvalidOrdinal  = errors.New("invalid ordinal")
	ErrNoActiveSession = errors.New("no active session")
	ErrNoSelection     = errors.New("no option selected")
	ErrUnknownOption   = errors.New("option is not offered for this question")
	ErrInvalidName     = errors.New("display name must be 1-50 characters")

	// ErrNotActive is an ErrInvalidOrdinal for a question the presenter has
	// not reached yet.
	ErrNotActive = fmt.Errorf("question not active yet: %w", ErrInvalidOrdinal)
)
