// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// ErrKeyNotFound is returned by BadgerStore.Get for missing or expired keys.
var ErrKeyNotFound = errors.New("cache: key not found")

// BadgerStore is a JSON-encoded key/value store on BadgerDB with per-entry TTL.
// Keys are namespaced under a prefix so Clear only touches this store's entries.
type BadgerStore struct {
	db     *badger.DB
	prefix string
	owned  bool
}

// OpenBadgerStore opens (or creates) a BadgerDB at path. An empty path keeps
// the database in memory.
func OpenBadgerStore(path, prefix string) (*BadgerStore, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
		// Cached payloads are small.
		opts.ValueLogFileSize = 16 << 20
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache at %q: %w", path, err)
	}

	return &BadgerStore{db: db, prefix: prefix, owned: true}, nil
}

// NewBadgerStore wraps an existing database. Close leaves db open.
func NewBadgerStore(db *badger.DB, prefix string) *BadgerStore {
	return &BadgerStore{db: db, prefix: prefix}
}

// Get decodes the value stored under key into dest.
// Returns ErrKeyNotFound when the key is absent or its TTL has passed.
func (s *BadgerStore) Get(key string, dest interface{}) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(s.prefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		if err != nil {
			return fmt.Errorf("get %q: %w", key, err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// Set stores value under key. A non-positive ttl keeps the entry until cleared.
func (s *BadgerStore) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(s.prefix+key), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Delete removes key. Missing keys are not an error.
func (s *BadgerStore) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(s.prefix + key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete %q: %w", key, err)
		}
		return nil
	})
}

// Clear drops every entry under the store's prefix.
func (s *BadgerStore) Clear() error {
	if s.prefix == "" {
		return s.db.DropAll()
	}
	return s.db.DropPrefix([]byte(s.prefix))
}

// Len counts live entries under the prefix.
func (s *BadgerStore) Len() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(s.prefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}

// Close closes the database if the store opened it.
func (s *BadgerStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
