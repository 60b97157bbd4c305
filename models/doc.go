// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain, request and response types shared by the
stores, the poll engine and the HTTP handlers.

# Domain Types

  - Question: one row of the presenter's script (ordinal, title, options)
  - Option: label plus the nullable cached count
  - ResponseRecord: one immutable ledger row
  - Tally: per-option counts for one ordinal, derived from the ledger

# Modes

A polling client is always in one of:

	WAITING   - nothing new to answer yet
	ACTIVE    - the active question is being served
	SUBMITTED - returned by a successful submission

# Nullable Counts

Option.Count is a cache, not a source of truth. A nil Count means the
question table has never been aggregated (or was reset); tallies are always
recomputable from the ledger.
*/
package models
