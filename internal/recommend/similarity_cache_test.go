// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/ratingcorr/internal/cache"
)

func sampleResults() map[string]SimilarityResult {
	return map[string]SimilarityResult{
		"Empire Strikes Back, The (1980)": {Correlation: Defined(0.75), Support: 120},
		"Obscure (1995)":                  {Correlation: Undefined(ReasonInsufficientOverlap), Support: 1},
	}
}

func checkResults(t *testing.T, got map[string]SimilarityResult) {
	t.Helper()

	want := sampleResults()
	if len(got) != len(want) {
		t.Fatalf("len(results) = %d, want %d", len(got), len(want))
	}
	for title, w := range want {
		if got[title] != w {
			t.Errorf("results[%q] = %+v, want %+v", title, got[title], w)
		}
	}
}

func testCacheConfig() CacheConfig {
	return CacheConfig{Enabled: true, TTL: time.Minute, MaxEntries: 4, InvalidateOnLoad: true}
}

func TestSimilarityKey(t *testing.T) {
	t.Parallel()

	base := similarityKey(1, 2, "A")
	if base != similarityKey(1, 2, "A") {
		t.Error("similarityKey() not deterministic")
	}

	others := []string{
		similarityKey(2, 2, "A"),
		similarityKey(1, 3, "A"),
		similarityKey(1, 2, "B"),
	}
	for i, k := range others {
		if k == base {
			t.Errorf("key %d collides with base key", i)
		}
	}
}

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(testCacheConfig())

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) ok = true")
	}

	c.Set("k", sampleResults())
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("Get(k) ok = false")
	}
	checkResults(t, got)

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestMemoryCache_Eviction(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(testCacheConfig())
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		c.Set(k, sampleResults())
	}

	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry survived eviction")
	}
}

func newTestPersistentCache(t *testing.T) *PersistentCache {
	t.Helper()

	store, err := cache.OpenBadgerStore(t.TempDir(), "similar:")
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return NewPersistentCache(store, testCacheConfig(), testLogger())
}

func TestPersistentCache(t *testing.T) {
	t.Parallel()

	c := newTestPersistentCache(t)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) ok = true")
	}

	c.Set("k", sampleResults())
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("Get(k) ok = false")
	}
	checkResults(t, got)

	c.Clear()
	if _, ok := c.Get("k"); ok {
		t.Error("Get(k) ok = true after Clear")
	}
}

func TestTieredCache_Backfill(t *testing.T) {
	t.Parallel()

	fast := NewMemoryCache(testCacheConfig())
	slow := newTestPersistentCache(t)
	tiered := NewTieredCache(fast, slow)

	slow.Set("k", sampleResults())

	got, ok := tiered.Get("k")
	if !ok {
		t.Fatal("Get(k) ok = false with slow tier populated")
	}
	checkResults(t, got)

	if _, ok := fast.Get("k"); !ok {
		t.Error("fast tier not backfilled after slow hit")
	}

	tiered.Set("k2", sampleResults())
	if _, ok := slow.Get("k2"); !ok {
		t.Error("Set did not write through to slow tier")
	}

	tiered.Clear()
	if _, ok := tiered.Get("k"); ok {
		t.Error("Get(k) ok = true after Clear")
	}
}

func TestEngine_PersistentCacheAcrossEngines(t *testing.T) {
	t.Parallel()

	store, err := cache.OpenBadgerStore(t.TempDir(), "similar:")
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := DefaultConfig()
	cfg.Cache.InvalidateOnLoad = false

	first := newLoadedEngine(t, cfg)
	first.SetCache(NewPersistentCache(store, cfg.Cache, testLogger()))

	q := Query{Title: "Star Wars (1977)", TopN: 5}
	want, err := first.Similar(context.Background(), q)
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}

	second := newLoadedEngine(t, cfg)
	second.SetCache(NewPersistentCache(store, cfg.Cache, testLogger()))

	got, err := second.Similar(context.Background(), q)
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if !got.Metadata.CacheHit {
		t.Error("second engine did not hit the persisted entry")
	}
	if len(got.Items) != len(want.Items) {
		t.Fatalf("cached items = %v, want %v", titlesOf(got.Items), titlesOf(want.Items))
	}
	for i := range want.Items {
		if got.Items[i] != want.Items[i] {
			t.Errorf("Items[%d] = %+v, want %+v", i, got.Items[i], want.Items[i])
		}
	}
}

func TestEngine_PersistentCacheDifferentData(t *testing.T) {
	t.Parallel()

	store, err := cache.OpenBadgerStore(t.TempDir(), "similar:")
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := DefaultConfig()
	cfg.Cache.InvalidateOnLoad = false

	first := newLoadedEngine(t, cfg)
	first.SetCache(NewPersistentCache(store, cfg.Cache, testLogger()))

	q := Query{Title: "Star Wars (1977)", TopN: 10}
	if _, err := first.Similar(context.Background(), q); err != nil {
		t.Fatalf("Similar() error = %v", err)
	}

	// Same titles, but Empire's ratings run against Star Wars.
	inverted := movieProvider()
	for i, obs := range inverted.observations {
		if obs.ItemID == 172 {
			inverted.observations[i].Rating = 6 - obs.Rating
		}
	}

	second, err := NewEngine(cfg, testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	second.SetDataProvider(inverted)
	if err := second.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second.SetCache(NewPersistentCache(store, cfg.Cache, testLogger()))

	got, err := second.Similar(context.Background(), q)
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if got.Metadata.CacheHit {
		t.Fatal("engine with different data hit the other engine's entry")
	}

	var empire *Recommendation
	for i := range got.Items {
		if got.Items[i].Title == "Empire Strikes Back, The (1980)" {
			empire = &got.Items[i]
		}
	}
	if empire == nil {
		t.Fatalf("Empire missing from %v", titlesOf(got.Items))
	}
	if empire.Correlation != -1 {
		t.Errorf("Empire correlation = %v, want -1", empire.Correlation)
	}
	if got.Items[len(got.Items)-1].Title != empire.Title {
		t.Errorf("last item = %q, want Empire", got.Items[len(got.Items)-1].Title)
	}
}
