// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package recommend

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"sync"
)

// itemAggregate accumulates the running sums behind ItemStats.
type itemAggregate struct {
	sum   float64
	count int
}

// RatingStore holds the ingested observations and the title lookup.
//
// The store is the single source of truth: ItemStats and RatingMatrix are
// both derived from it. It is safe for concurrent readers; Ingest takes the
// write lock and must not race with BuildMatrix on the same store.
type RatingStore struct {
	mu sync.RWMutex

	bounds RatingRange

	// titles maps item id to title; ids maps title back to item id.
	titles map[int]string
	ids    map[string]int

	// observations is kept in ingestion order for the duplicate policy.
	observations []Observation

	// aggregates is keyed by title.
	aggregates map[string]*itemAggregate

	users   map[int]struct{}
	version uint64

	// digest folds the title lookup and every ingested observation, in order,
	// into a content fingerprint.
	digest hash.Hash64
}

// NewRatingStore creates an empty store for the given title lookup.
// Titles must be non-empty and unique because they are the public item identifier.
func NewRatingStore(titles map[int]string, bounds RatingRange) (*RatingStore, error) {
	if err := bounds.Validate(); err != nil {
		return nil, &ValidationError{Index: -1, Field: "bounds", Message: err.Error()}
	}

	s := &RatingStore{
		bounds:     bounds,
		titles:     make(map[int]string, len(titles)),
		ids:        make(map[string]int, len(titles)),
		aggregates: make(map[string]*itemAggregate),
		users:      make(map[int]struct{}),
		digest:     fnv.New64a(),
	}

	// Iterate in id order so duplicate-title errors are deterministic.
	ids := make([]int, 0, len(titles))
	for id := range titles {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		title := titles[id]
		if strings.TrimSpace(title) == "" {
			return nil, &ValidationError{Index: -1, Field: "title", Message: fmt.Sprintf("empty title for item %d", id)}
		}
		if other, dup := s.ids[title]; dup {
			return nil, &ValidationError{
				Index:   -1,
				Field:   "title",
				Message: fmt.Sprintf("title %q shared by items %d and %d", title, other, id),
			}
		}
		s.titles[id] = title
		s.ids[title] = id
		s.writeDigest(uint64(id), uint64(len(title)))
		_, _ = s.digest.Write([]byte(title))
	}

	return s, nil
}

// Bounds returns the accepted rating range.
func (s *RatingStore) Bounds() RatingRange {
	return s.bounds
}

// Ingest appends observations in order. Every observation is validated before
// any is stored, so a failed call leaves the store unchanged.
//
//nolint:gocritic // rangeValCopy: Observation is small
func (s *RatingStore) Ingest(observations []Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved := make([]string, len(observations))
	for i, obs := range observations {
		if !s.bounds.Contains(obs.Rating) {
			return &ValidationError{
				Index:   i,
				Field:   "rating",
				Message: fmt.Sprintf("rating %v outside [%v, %v]", obs.Rating, s.bounds.Min, s.bounds.Max),
			}
		}
		title, ok := s.titles[obs.ItemID]
		if !ok {
			return &ValidationError{Index: i, Field: "item_id", Message: fmt.Sprintf("item %d has no title", obs.ItemID)}
		}
		resolved[i] = title
	}

	if len(observations) == 0 {
		return nil
	}

	for i, obs := range observations {
		agg := s.aggregates[resolved[i]]
		if agg == nil {
			agg = &itemAggregate{}
			s.aggregates[resolved[i]] = agg
		}
		agg.sum += obs.Rating
		agg.count++
		s.users[obs.UserID] = struct{}{}
		s.writeDigest(uint64(obs.UserID), uint64(obs.ItemID), math.Float64bits(obs.Rating))
	}
	s.observations = append(s.observations, observations...)
	s.version++

	return nil
}

func (s *RatingStore) writeDigest(values ...uint64) {
	var buf [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = s.digest.Write(buf[:])
	}
}

// Fingerprint identifies the store's content: the title lookup plus the
// observation sequence. Stores holding the same titles and the same
// observations in the same order share a fingerprint, whatever process built them.
func (s *RatingStore) Fingerprint() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.digest.Sum64()
}

// StatsFor returns the aggregate for a title. Unknown or unrated titles
// yield a zero record.
func (s *RatingStore) StatsFor(title string) ItemStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.statsLocked(title)
}

func (s *RatingStore) statsLocked(title string) ItemStats {
	agg, ok := s.aggregates[title]
	if !ok || agg.count == 0 {
		return ItemStats{}
	}
	return ItemStats{
		MeanRating:  agg.sum / float64(agg.count),
		RatingCount: agg.count,
	}
}

// Stats returns a snapshot of ItemStats for every rated item.
func (s *RatingStore) Stats() map[string]ItemStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]ItemStats, len(s.aggregates))
	for title := range s.aggregates {
		out[title] = s.statsLocked(title)
	}
	return out
}

// TitleFor resolves an item id to its title.
func (s *RatingStore) TitleFor(itemID int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	title, ok := s.titles[itemID]
	if !ok {
		return "", notFoundf("item id %d", itemID)
	}
	return title, nil
}

// IDFor resolves a title to its item id.
func (s *RatingStore) IDFor(title string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.ids[title]
	if !ok {
		return 0, notFoundf("title %q", title)
	}
	return id, nil
}

// Titles returns every known title in ascending order, rated or not.
func (s *RatingStore) Titles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.ids))
	for title := range s.ids {
		out = append(out, title)
	}
	sort.Strings(out)
	return out
}

// Observations returns a copy of the observations in ingestion order.
func (s *RatingStore) Observations() []Observation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Observation, len(s.observations))
	copy(out, s.observations)
	return out
}

// Len returns the number of ingested observations.
func (s *RatingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observations)
}

// UserCount returns the number of distinct users seen.
func (s *RatingStore) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// ItemCount returns the number of items with at least one observation.
func (s *RatingStore) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.aggregates)
}

// Version increments on every successful non-empty Ingest.
func (s *RatingStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// storeView is a consistent read of the store taken under one read lock.
type storeView struct {
	observations []Observation
	titles       map[int]string
	stats        map[string]ItemStats
	version      uint64
	fingerprint  uint64
}

// view captures the store at its current version. The observation slice aliases
// the store's backing array with its capacity clipped; Ingest only appends, so the
// prefix seen here is never rewritten. titles is never modified after construction.
func (s *RatingStore) view(withStats bool) storeView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := storeView{
		observations: s.observations[:len(s.observations):len(s.observations)],
		titles:       s.titles,
		version:      s.version,
		fingerprint:  s.digest.Sum64(),
	}
	if withStats {
		v.stats = make(map[string]ItemStats, len(s.aggregates))
		for title := range s.aggregates {
			v.stats[title] = s.statsLocked(title)
		}
	}
	return v
}
