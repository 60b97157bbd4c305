// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"encoding/binary"
	"encoding/json"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/danielhkuo/quickly-pick-live/models"
)

var registryBucket = []byte("display_names")

// Registry is the append-only list of display names that have logged in.
// The database is opened per operation so the bbolt file lock is only held
// while the operation runs.
type Registry struct {
	path string
	mu   sync.Mutex
}

func OpenRegistry(path string) (*Registry, error) {
	if err := ensureDir(path); err != nil {
		return nil, unavailable("create registry dir", err)
	}
	r := &Registry{path: path}
	err := r.update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(registryBucket)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Register appends a name. Names are not unique; the registry is a log.
func (r *Registry) Register(name, sessionID string) error {
	entry := models.RegistryEntry{Name: name, SessionID: sessionID, RegisteredAt: time.Now().UTC()}
	value, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return r.update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(registryBucket)
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, value)
	})
}

// Names returns every entry in registration order.
func (r *Registry) Names() ([]models.RegistryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	db, err := r.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	out := []models.RegistryEntry{}
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(registryBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var entry models.RegistryEntry
			if e := json.Unmarshal(v, &entry); e != nil {
				// Skip malformed entries instead of failing the whole read
				return nil
			}
			out = append(out, entry)
			return nil
		})
	})
	if err != nil {
		return nil, unavailable("read registry", err)
	}
	return out, nil
}

func (r *Registry) Reset() error {
	return r.update(func(tx *bolt.Tx) error {
		if tx.Bucket(registryBucket) != nil {
			if err := tx.DeleteBucket(registryBucket); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket(registryBucket)
		return err
	})
}

func (r *Registry) update(fn func(tx *bolt.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	db, err := r.open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.Update(fn); err != nil {
		return unavailable("write registry", err)
	}
	return nil
}

func (r *Registry) open() (*bolt.DB, error) {
	db, err := bolt.Open(r.path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, unavailable("open registry", err)
	}
	return db, nil
}
