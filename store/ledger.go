// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-pick-live/models"
)

// Ledger is the append-only response log. Both operations hold one exclusive
// lock for their whole duration, so a scan never observes a half-written row.
type Ledger interface {
	// Append assigns Seq (and RecordedAt when zero) and durably writes rec.
	Append(rec models.ResponseRecord) (models.ResponseRecord, error)
	// Scan returns records for ordinal in append order; ordinal <= 0 returns all.
	Scan(ordinal int) ([]models.ResponseRecord, error)
	Stats() (models.LedgerStats, error)
	Reset() error
	Close() error
}

// FileLedger stores one JSON record per line.
type FileLedger struct {
	path string

	mu      sync.Mutex
	nextSeq int64
}

func OpenFileLedger(path string) (*FileLedger, error) {
	if err := ensureDir(path); err != nil {
		return nil, unavailable("create ledger dir", err)
	}
	l := &FileLedger{path: path}

	if _, err := os.Stat(path); err == nil {
		f, _, err := l.openForAppend()
		if err != nil {
			return nil, err
		}
		_ = f.Close()
	}

	var last int64
	err := l.replay(func(rec models.ResponseRecord) {
		if rec.Seq > last {
			last = rec.Seq
		}
	})
	if err != nil {
		return nil, err
	}
	l.nextSeq = last + 1
	return l, nil
}

func (l *FileLedger) Path() string { return l.path }

func (l *FileLedger) Append(rec models.ResponseRecord) (models.ResponseRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec.Seq = l.nextSeq
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return models.ResponseRecord{}, err
	}
	line = append(line, '\n')

	f, offset, err := l.openForAppend()
	if err != nil {
		return models.ResponseRecord{}, err
	}
	if _, err := f.WriteAt(line, offset); err != nil {
		_ = f.Truncate(offset)
		_ = f.Close()
		return models.ResponseRecord{}, unavailable("write ledger", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Truncate(offset)
		_ = f.Close()
		return models.ResponseRecord{}, unavailable("sync ledger", err)
	}
	if err := f.Close(); err != nil {
		return models.ResponseRecord{}, unavailable("close ledger", err)
	}

	l.nextSeq++
	return rec, nil
}

func (l *FileLedger) Scan(ordinal int) ([]models.ResponseRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := []models.ResponseRecord{}
	err := l.replay(func(rec models.ResponseRecord) {
		if ordinal <= 0 || rec.Ordinal == ordinal {
			out = append(out, rec)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (l *FileLedger) Stats() (models.LedgerStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var stats models.LedgerStats
	info, err := os.Stat(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return stats, nil
	}
	if err != nil {
		return stats, unavailable("stat ledger", err)
	}
	stats.Bytes = info.Size()
	err = l.replay(func(models.ResponseRecord) { stats.Records++ })
	return stats, err
}

func (l *FileLedger) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := writeFileAtomic(l.path, nil); err != nil {
		return unavailable("truncate ledger", err)
	}
	l.nextSeq = 1
	return nil
}

func (l *FileLedger) Close() error { return nil }

// openForAppend opens the ledger for writing and returns the offset just past
// the last complete line. A torn tail left by a crash or a short write is cut
// off first so the next record starts on its own line.
func (l *FileLedger) openForAppend() (*os.File, int64, error) {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, 0, unavailable("open ledger", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, unavailable("stat ledger", err)
	}
	size := info.Size()
	offset, err := completeLength(f, size)
	if err != nil {
		_ = f.Close()
		return nil, 0, unavailable("read ledger", err)
	}
	if offset < size {
		if err := f.Truncate(offset); err != nil {
			_ = f.Close()
			return nil, 0, unavailable("truncate ledger", err)
		}
		slog.Warn("dropped torn ledger tail", "path", l.path, "bytes", size-offset)
	}
	return f, offset, nil
}

// completeLength returns the length of the prefix of f that ends in '\n'.
func completeLength(f *os.File, size int64) (int64, error) {
	buf := make([]byte, 4096)
	end := size
	for end > 0 {
		n := int64(len(buf))
		if n > end {
			n = end
		}
		start := end - n
		if _, err := f.ReadAt(buf[:n], start); err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		if i := bytes.LastIndexByte(buf[:n], '\n'); i >= 0 {
			return start + int64(i) + 1, nil
		}
		end = start
	}
	return 0, nil
}

// replay reads every complete line. Lines that fail to decode are skipped
// and logged; a torn tail is ignored until the next append cuts it off.
func (l *FileLedger) replay(on func(rec models.ResponseRecord)) error {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return unavailable("open ledger", err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			var rec models.ResponseRecord
			if e := json.Unmarshal(line, &rec); e != nil {
				if line[len(line)-1] == '\n' {
					slog.Warn("skipping corrupt ledger line", "path", l.path, "error", e)
				}
			} else {
				on(rec)
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return unavailable("read ledger", err)
		}
	}
}
