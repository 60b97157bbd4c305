// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-pick-live/db"
	"github.com/danielhkuo/quickly-pick-live/models"
)

// ledgerBackends runs fn against every backend that needs no external server
func ledgerBackends(t *testing.T, fn func(t *testing.T, open func() Ledger)) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), LedgerFile)
		fn(t, func() Ledger {
			l, err := OpenFileLedger(path)
			require.NoError(t, err)
			return l
		})
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "responses.db")
		fn(t, func() Ledger {
			conn, err := sql.Open(db.DriverSQLite, path)
			require.NoError(t, err)
			l, err := OpenSQLLedger(conn)
			require.NoError(t, err)
			t.Cleanup(func() { _ = l.Close() })
			return l
		})
	})
}

func TestLedger_AppendAndScan(t *testing.T) {
	ledgerBackends(t, func(t *testing.T, open func() Ledger) {
		l := open()

		recs := []models.ResponseRecord{
			{SessionID: "a", DisplayName: "Ann", Ordinal: 2, Option: "yes"},
			{SessionID: "b", DisplayName: "Bob", Ordinal: 2, Option: "no"},
			{SessionID: "a", DisplayName: "Ann", Ordinal: 3, Option: "blue"},
		}
		for i, rec := range recs {
			got, err := l.Append(rec)
			require.NoError(t, err)
			require.Equal(t, int64(i+1), got.Seq)
			require.False(t, got.RecordedAt.IsZero())
		}

		two, err := l.Scan(2)
		require.NoError(t, err)
		require.Len(t, two, 2)
		require.Equal(t, "yes", two[0].Option)
		require.Equal(t, "no", two[1].Option)

		all, err := l.Scan(0)
		require.NoError(t, err)
		require.Len(t, all, 3)

		none, err := l.Scan(9)
		require.NoError(t, err)
		require.Empty(t, none)

		stats, err := l.Stats()
		require.NoError(t, err)
		require.Equal(t, int64(3), stats.Records)
	})
}

func TestLedger_SequenceResumesAfterReopen(t *testing.T) {
	ledgerBackends(t, func(t *testing.T, open func() Ledger) {
		l1 := open()
		_, err := l1.Append(models.ResponseRecord{SessionID: "a", Ordinal: 2, Option: "yes"})
		require.NoError(t, err)
		_, err = l1.Append(models.ResponseRecord{SessionID: "b", Ordinal: 2, Option: "no"})
		require.NoError(t, err)

		l2 := open()
		rec, err := l2.Append(models.ResponseRecord{SessionID: "c", Ordinal: 2, Option: "yes"})
		require.NoError(t, err)
		require.Equal(t, int64(3), rec.Seq)

		all, err := l2.Scan(0)
		require.NoError(t, err)
		require.Len(t, all, 3)
	})
}

func TestLedger_Reset(t *testing.T) {
	ledgerBackends(t, func(t *testing.T, open func() Ledger) {
		l := open()
		_, err := l.Append(models.ResponseRecord{SessionID: "a", Ordinal: 2, Option: "yes"})
		require.NoError(t, err)

		require.NoError(t, l.Reset())

		all, err := l.Scan(0)
		require.NoError(t, err)
		require.Empty(t, all)

		rec, err := l.Append(models.ResponseRecord{SessionID: "a", Ordinal: 2, Option: "no"})
		require.NoError(t, err)
		require.Equal(t, int64(1), rec.Seq)
	})
}

func TestLedger_ConcurrentAppends(t *testing.T) {
	ledgerBackends(t, func(t *testing.T, open func() Ledger) {
		l := open()

		const n = 40
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := l.Append(models.ResponseRecord{
					SessionID: fmt.Sprintf("s%d", i),
					Ordinal:   2,
					Option:    "yes",
				})
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		all, err := l.Scan(2)
		require.NoError(t, err)
		require.Len(t, all, n)

		seen := make(map[int64]bool)
		for _, rec := range all {
			require.False(t, seen[rec.Seq], "duplicate seq %d", rec.Seq)
			seen[rec.Seq] = true
		}
	})
}

func TestFileLedger_IgnoresTornTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), LedgerFile)
	l, err := OpenFileLedger(path)
	require.NoError(t, err)

	_, err = l.Append(models.ResponseRecord{SessionID: "a", Ordinal: 2, Option: "yes"})
	require.NoError(t, err)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"seq":2,"session_id":"b","ord`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	all, err := l.Scan(0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "a", all[0].SessionID)
}

func TestFileLedger_AppendAfterTornTailOnReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), LedgerFile)
	l, err := OpenFileLedger(path)
	require.NoError(t, err)
	_, err = l.Append(models.ResponseRecord{SessionID: "a", Ordinal: 2, Option: "yes"})
	require.NoError(t, err)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"seq":2,"session_id":"b","ord`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	l, err = OpenFileLedger(path)
	require.NoError(t, err)
	for _, id := range []string{"c", "d", "e"} {
		_, err := l.Append(models.ResponseRecord{SessionID: id, Ordinal: 2, Option: "no"})
		require.NoError(t, err)
	}

	all, err := l.Scan(0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, rec := range all {
		require.Equal(t, int64(i+1), rec.Seq)
	}
	require.Equal(t, "e", all[3].SessionID)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), `"ord{`)
}

func TestFileLedger_AppendAfterTornTailWhileOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), LedgerFile)
	l, err := OpenFileLedger(path)
	require.NoError(t, err)
	_, err = l.Append(models.ResponseRecord{SessionID: "a", Ordinal: 2, Option: "yes"})
	require.NoError(t, err)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"seq":2,"sess`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rec, err := l.Append(models.ResponseRecord{SessionID: "b", Ordinal: 2, Option: "no"})
	require.NoError(t, err)
	require.Equal(t, int64(2), rec.Seq)

	all, err := l.Scan(2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "b", all[1].SessionID)
}

func TestFileLedger_SkipsCorruptMiddleLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), LedgerFile)
	content := `{"seq":1,"session_id":"a","ordinal":2,"option":"yes"}` + "\n" +
		"not json\n" +
		`{"seq":3,"session_id":"c","ordinal":2,"option":"no"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	l, err := OpenFileLedger(path)
	require.NoError(t, err)

	all, err := l.Scan(0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "c", all[1].SessionID)

	rec, err := l.Append(models.ResponseRecord{SessionID: "d", Ordinal: 2, Option: "yes"})
	require.NoError(t, err)
	require.Equal(t, int64(4), rec.Seq)
}

func TestFileLedger_UnavailableStorage(t *testing.T) {
	dir := t.TempDir()
	l, err := OpenFileLedger(filepath.Join(dir, "ledger", LedgerFile))
	require.NoError(t, err)

	// Replace the directory with a plain file
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "ledger")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ledger"), []byte("x"), 0o644))

	_, err = l.Append(models.ResponseRecord{SessionID: "a", Ordinal: 2, Option: "yes"})
	require.ErrorIs(t, err, ErrStorageUnavailable)
}
