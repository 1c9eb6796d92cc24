// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package recommend

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/tomtom215/ratingcorr/internal/cache"
	"github.com/tomtom215/ratingcorr/internal/metrics"
)

// SimilarityCache stores full correlation mappings per reference.
// Keys include the dataset fingerprint and the minimum overlap, so an entry is
// only ever served for the data and settings that produced it, even across
// processes sharing a persistent tier.
type SimilarityCache interface {
	Get(key string) (map[string]SimilarityResult, bool)
	Set(key string, results map[string]SimilarityResult)
	Clear()
}

// similarityKey builds the cache key for a reference against a dataset fingerprint.
func similarityKey(fingerprint uint64, minOverlap int, reference string) string {
	return cache.GenerateKey("similar", struct {
		Fingerprint uint64 `json:"f"`
		MinOverlap  int    `json:"o"`
		Reference   string `json:"r"`
	}{fingerprint, minOverlap, reference})
}

// MemoryCache is an in-process LRU tier.
type MemoryCache struct {
	lru *cache.LRUCache[map[string]SimilarityResult]
}

// NewMemoryCache creates an LRU-backed SimilarityCache.
func NewMemoryCache(cfg CacheConfig) *MemoryCache {
	return &MemoryCache{lru: cache.NewLRUCache[map[string]SimilarityResult](cfg.MaxEntries, cfg.TTL)}
}

// Get returns the cached mapping. Callers must not modify it.
func (m *MemoryCache) Get(key string) (map[string]SimilarityResult, bool) {
	results, ok := m.lru.Get(key)
	metrics.RecordCacheLookup("memory", ok)
	return results, ok
}

// Set stores a mapping.
func (m *MemoryCache) Set(key string, results map[string]SimilarityResult) {
	m.lru.Add(key, results)
}

// Clear drops every entry.
func (m *MemoryCache) Clear() {
	m.lru.Clear()
}

// Len returns the number of entries.
func (m *MemoryCache) Len() int {
	return m.lru.Len()
}

// PersistentCache keeps mappings in BadgerDB so they survive restarts.
// Backend failures are logged and treated as misses.
type PersistentCache struct {
	store  *cache.BadgerStore
	cfg    CacheConfig
	logger zerolog.Logger
}

// NewPersistentCache wraps a BadgerStore.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPersistentCache(store *cache.BadgerStore, cfg CacheConfig, logger zerolog.Logger) *PersistentCache {
	return &PersistentCache{
		store:  store,
		cfg:    cfg,
		logger: logger.With().Str("cache", "badger").Logger(),
	}
}

// Get decodes the mapping stored under key.
func (p *PersistentCache) Get(key string) (map[string]SimilarityResult, bool) {
	var results map[string]SimilarityResult
	err := p.store.Get(key, &results)
	switch {
	case err == nil:
		metrics.RecordCacheLookup("badger", true)
		return results, true
	case errors.Is(err, cache.ErrKeyNotFound):
		metrics.RecordCacheLookup("badger", false)
	default:
		metrics.RecordCacheError("badger", "get")
		p.logger.Warn().Err(err).Str("key", key).Msg("similarity cache read failed")
	}
	return nil, false
}

// Set writes the mapping with the configured TTL.
func (p *PersistentCache) Set(key string, results map[string]SimilarityResult) {
	if err := p.store.Set(key, results, p.cfg.TTL); err != nil {
		metrics.RecordCacheError("badger", "set")
		p.logger.Warn().Err(err).Str("key", key).Msg("similarity cache write failed")
	}
}

// Clear drops every persisted mapping.
func (p *PersistentCache) Clear() {
	if err := p.store.Clear(); err != nil {
		metrics.RecordCacheError("badger", "clear")
		p.logger.Warn().Err(err).Msg("similarity cache clear failed")
	}
}

// TieredCache consults a fast tier before a slow one and backfills on slow hits.
type TieredCache struct {
	fast SimilarityCache
	slow SimilarityCache
}

// NewTieredCache chains two caches.
func NewTieredCache(fast, slow SimilarityCache) *TieredCache {
	return &TieredCache{fast: fast, slow: slow}
}

// Get checks the fast tier, then the slow tier.
func (t *TieredCache) Get(key string) (map[string]SimilarityResult, bool) {
	if results, ok := t.fast.Get(key); ok {
		return results, true
	}
	results, ok := t.slow.Get(key)
	if ok {
		t.fast.Set(key, results)
	}
	return results, ok
}

// Set writes through to both tiers.
func (t *TieredCache) Set(key string, results map[string]SimilarityResult) {
	t.fast.Set(key, results)
	t.slow.Set(key, results)
}

// Clear empties both tiers.
func (t *TieredCache) Clear() {
	t.fast.Clear()
	t.slow.Clear()
}
