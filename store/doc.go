// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store holds the four durable, process-local resources of a live poll.

# Resources

  - Pointer: the active question ordinal (file "pointer"), forward-only
  - Ledger: append-only response log (JSON lines file, or a SQL table via
    modernc.org/sqlite / lib/pq)
  - QuestionTable: the presenter's script as CSV, with a per-option count cache
  - Registry: append-only log of display names (bbolt)

# Locking

Every resource owns exactly one lock and no operation ever holds two of them.
There is therefore no cross-resource atomicity: a reader may see the pointer
advanced while the question table still caches counts for an older ordinal.
The ledger is authoritative for tallies, so the cache can always be rebuilt.

	stores, err := store.Open(dataDir, ledger)
	advanced, err := stores.Pointer.AdvanceTo(2)
	rec, err := stores.Ledger.Append(models.ResponseRecord{...})

# Failures

I/O failures are wrapped with ErrStorageUnavailable. Writes are all-or-nothing:
ledger rows are appended and fsynced one at a time, and the pointer and
question table are replaced through a temp file and rename.

# Lifecycle

Stores.ResetOnce clears the pointer, ledger, registry and count cache. It is
meant to run once at process start and is a no-op afterwards.
*/
package store
