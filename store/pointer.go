// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Pointer is the durable active-question ordinal. It only ever moves forward.
type Pointer struct {
	path string

	mu      sync.RWMutex
	current int
}

// OpenPointer loads the pointer file, treating a missing file as 0.
func OpenPointer(path string) (*Pointer, error) {
	p := &Pointer{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, unavailable("read pointer", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return p, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("corrupt pointer file %s: %q", path, text)
	}
	p.current = n
	return p, nil
}

// Read returns the active ordinal. Readers only wait for an in-flight write.
func (p *Pointer) Read() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// AdvanceTo moves the pointer to n when n is ahead of the current value.
// Late or repeated calls are no-ops and report advanced=false.
func (p *Pointer) AdvanceTo(n int) (advanced bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n <= p.current {
		return false, nil
	}
	if err := p.persist(n); err != nil {
		return false, err
	}
	p.current = n
	return true, nil
}

// Reset puts the pointer back to 0. Only the lifecycle reset calls this.
func (p *Pointer) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.persist(0); err != nil {
		return err
	}
	p.current = 0
	return nil
}

func (p *Pointer) persist(n int) error {
	if err := writeFileAtomic(p.path, []byte(strconv.Itoa(n)+"\n")); err != nil {
		return unavailable("write pointer", err)
	}
	return nil
}
