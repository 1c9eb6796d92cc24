// Ratingcorr - Item Similarity from Rating Correlation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingcorr

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/ratingcorr/internal/metrics"
)

// DataProvider supplies the title lookup and the observations for a full load.
// It is typically implemented by the dataset package.
type DataProvider interface {
	// LoadTitles returns the item id to title mapping.
	LoadTitles(ctx context.Context) (map[int]string, error)

	// LoadObservations returns every rating in file order.
	LoadObservations(ctx context.Context) ([]Observation, error)
}

// snapshot pairs a store with the matrix and stats derived from it.
// A snapshot is replaced, never modified.
type snapshot struct {
	store  *RatingStore
	matrix *RatingMatrix
	stats  map[string]ItemStats

	// installedLen is the store length when it was installed; anything past it
	// arrived through Ingest.
	installedLen int
}

// Engine owns the live dataset and answers similarity queries against it.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	correlator *Correlator
	cache      SimilarityCache

	dataProvider DataProvider

	// loadMu serializes Load; queries never take it.
	loadMu  sync.Mutex
	loading atomic.Bool

	// mu guards current and the load status fields.
	mu         sync.RWMutex
	current    *snapshot
	loadedAt   time.Time
	lastLoadMS int64
	lastError  string

	// rebuildMu serializes lazy matrix rebuilds after Ingest.
	rebuildMu sync.Mutex

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
}

// NewEngine creates an engine with no dataset installed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		correlator: NewCorrelator(cfg.Correlation),
	}
	if cfg.Cache.Enabled {
		e.cache = NewMemoryCache(cfg.Cache)
	}

	return e, nil
}

// SetDataProvider sets the source used by Load.
func (e *Engine) SetDataProvider(dp DataProvider) {
	e.dataProvider = dp
}

// SetCache replaces the similarity cache. nil disables caching.
func (e *Engine) SetCache(c SimilarityCache) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = c
}

// Load reads titles and observations from the data provider into a fresh store
// and installs it. The previous dataset keeps serving until the new one is ready.
// Returns ErrLoadInProgress immediately if another load is running.
func (e *Engine) Load(ctx context.Context) error {
	if !e.loadMu.TryLock() {
		return ErrLoadInProgress
	}
	defer e.loadMu.Unlock()

	if e.dataProvider == nil {
		return fmt.Errorf("data provider not set")
	}

	e.loading.Store(true)
	defer e.loading.Store(false)

	start := time.Now()
	e.logger.Info().Msg("starting dataset load")

	loadCtx, cancel := context.WithTimeout(ctx, e.config.Limits.LoadTimeout)
	defer cancel()

	store, err := e.loadStore(loadCtx)
	if err != nil {
		e.recordLoadFailure(start, err)
		return err
	}

	snap := e.install(store)
	duration := time.Since(start)

	e.mu.Lock()
	e.loadedAt = time.Now()
	e.lastLoadMS = duration.Milliseconds()
	e.lastError = ""
	e.mu.Unlock()

	metrics.RecordLoad(duration, store.Len(), store.ItemCount(), store.UserCount(), "")

	e.logger.Info().
		Int("observations", store.Len()).
		Int("items", snap.matrix.Len()).
		Int("users", snap.matrix.Users()).
		Uint64("version", store.Version()).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("dataset load complete")

	return nil
}

// loadStore builds a populated store from the data provider.
func (e *Engine) loadStore(ctx context.Context) (*RatingStore, error) {
	titles, err := e.dataProvider.LoadTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load titles: %w", err)
	}

	store, err := NewRatingStore(titles, e.config.Ratings)
	if err != nil {
		return nil, fmt.Errorf("build store: %w", err)
	}

	observations, err := e.dataProvider.LoadObservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load observations: %w", err)
	}

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	if err := store.Ingest(observations); err != nil {
		return nil, fmt.Errorf("ingest observations: %w", err)
	}

	e.logger.Debug().
		Int("titles", len(titles)).
		Int("observations", len(observations)).
		Msg("loaded dataset")

	return store, nil
}

func (e *Engine) recordLoadFailure(start time.Time, err error) {
	duration := time.Since(start)

	e.mu.Lock()
	e.lastLoadMS = duration.Milliseconds()
	e.lastError = err.Error()
	e.mu.Unlock()

	metrics.RecordLoad(duration, 0, 0, 0, ErrorType(err))
	e.logger.Error().Err(err).Int64("duration_ms", duration.Milliseconds()).Msg("dataset load failed")
}

// UseStore installs an externally built store, replacing the current dataset.
func (e *Engine) UseStore(store *RatingStore) error {
	if store == nil {
		return fmt.Errorf("store is nil")
	}

	e.install(store)

	e.mu.Lock()
	e.loadedAt = time.Now()
	e.lastError = ""
	e.mu.Unlock()

	metrics.RecordLoad(0, store.Len(), store.ItemCount(), store.UserCount(), "")
	return nil
}

// install derives the matrix for store and swaps it in.
// Observations ingested into the previous store are not carried over.
func (e *Engine) install(store *RatingStore) *snapshot {
	snap := e.buildSnapshot(store)
	snap.installedLen = store.Len()

	e.mu.Lock()
	prev := e.current
	e.current = snap
	c := e.cache
	e.mu.Unlock()

	if prev != nil && prev.store != store {
		if dropped := prev.store.Len() - prev.installedLen; dropped > 0 {
			e.logger.Warn().
				Int("dropped_observations", dropped).
				Msg("replaced dataset discarded observations ingested since the last load")
		}
	}

	if c != nil && e.config.Cache.InvalidateOnLoad {
		c.Clear()
		e.logger.Debug().Msg("similarity cache cleared")
	}

	return snap
}

func (e *Engine) buildSnapshot(store *RatingStore) *snapshot {
	start := time.Now()
	view := store.view(true)
	matrix := buildMatrix(view)
	metrics.RecordMatrixBuild(time.Since(start), matrix.Version())

	e.logger.Debug().
		Uint64("version", matrix.Version()).
		Int("columns", matrix.Len()).
		Dur("duration", time.Since(start)).
		Msg("rating matrix built")

	return &snapshot{
		store:  store,
		matrix: matrix,
		stats:  view.stats,
	}
}

// Ingest appends observations to the live store. The matrix is rebuilt on the
// next query that sees the new store version.
//
// Ingested observations live in memory only. The next Load or UseStore
// replaces the store and discards them, including loads run by the reload
// scheduler; Status reports how many are pending.
func (e *Engine) Ingest(observations []Observation) error {
	e.mu.RLock()
	snap := e.current
	e.mu.RUnlock()

	if snap == nil {
		return ErrNotLoaded
	}

	err := snap.store.Ingest(observations)
	metrics.RecordIngest(len(observations), err)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	e.logger.Debug().
		Int("observations", len(observations)).
		Uint64("store_version", snap.store.Version()).
		Msg("observations ingested")
	return nil
}

// snapshot returns the live snapshot, rebuilding the matrix if the store moved on.
func (e *Engine) snapshot() (*snapshot, error) {
	e.mu.RLock()
	snap := e.current
	e.mu.RUnlock()

	if snap == nil {
		return nil, ErrNotLoaded
	}
	if snap.store.Version() == snap.matrix.Version() {
		return snap, nil
	}

	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()

	// Another query may have rebuilt while we waited.
	e.mu.RLock()
	snap = e.current
	e.mu.RUnlock()
	if snap.store.Version() == snap.matrix.Version() {
		return snap, nil
	}

	fresh := e.buildSnapshot(snap.store)
	fresh.installedLen = snap.installedLen

	e.mu.Lock()
	// A Load may have installed a different store meanwhile; keep it.
	if e.current.store == snap.store {
		e.current = fresh
	} else {
		fresh = e.current
	}
	e.mu.Unlock()

	return fresh, nil
}

// Similar returns the items whose ratings correlate most strongly with q.Title.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (e *Engine) Similar(ctx context.Context, q Query) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	q = e.prepareQuery(q)
	logger := e.logger.With().
		Str("request_id", q.RequestID).
		Str("title", q.Title).
		Logger()
	logger.Debug().Msg("processing similarity query")

	resp, err := e.similar(ctx, q, start, logger)

	returned := 0
	cacheHit := false
	if resp != nil {
		returned = len(resp.Items)
		cacheHit = resp.Metadata.CacheHit
	}
	metrics.RecordQuery(time.Since(start), cacheHit, returned, ErrorType(err))

	if err != nil {
		e.errorCount.Add(1)
		logger.Debug().Err(err).Msg("similarity query failed")
		return nil, err
	}

	logger.Debug().
		Int("candidates", resp.TotalCandidates).
		Int("undefined", resp.Undefined).
		Int("returned", returned).
		Bool("cache_hit", cacheHit).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("similarity query complete")

	return resp, nil
}

//nolint:gocritic // hugeParam: q passed by value for immutability
func (e *Engine) similar(ctx context.Context, q Query, start time.Time, logger zerolog.Logger) (*Response, error) {
	if q.Title == "" {
		return nil, invalidArgumentf("title is required")
	}

	snap, err := e.snapshot()
	if err != nil {
		return nil, err
	}

	if _, err := snap.store.IDFor(q.Title); err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, e.config.Limits.QueryTimeout)
	defer cancel()

	results, cacheHit, err := e.correlations(queryCtx, snap, q.Title, logger)
	if err != nil {
		return nil, err
	}

	undefined := 0
	for _, res := range results {
		if !res.Correlation.IsDefined() {
			undefined++
		}
	}

	items, err := Recommend(results, snap.stats, q.MinSupport, q.TopN)
	if err != nil {
		return nil, err
	}

	return &Response{
		Reference:       q.Title,
		Items:           items,
		TotalCandidates: len(results),
		Undefined:       undefined,
		Metadata: ResponseMetadata{
			RequestID:     q.RequestID,
			LatencyMS:     time.Since(start).Milliseconds(),
			CacheHit:      cacheHit,
			MatrixVersion: snap.matrix.Version(),
			Timestamp:     time.Now(),
		},
	}, nil
}

// correlations returns the mapping for reference, from cache when possible.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) correlations(ctx context.Context, snap *snapshot, reference string, logger zerolog.Logger) (map[string]SimilarityResult, bool, error) {
	e.mu.RLock()
	c := e.cache
	e.mu.RUnlock()

	key := similarityKey(snap.matrix.Fingerprint(), e.correlator.MinOverlap(), reference)
	if c != nil {
		if results, ok := c.Get(key); ok {
			e.cacheHits.Add(1)
			logger.Debug().Msg("cache hit")
			return results, true, nil
		}
		e.cacheMisses.Add(1)
	}

	results, err := e.correlator.Correlate(ctx, snap.matrix, reference)
	if err != nil {
		return nil, false, err
	}

	outcomes := make(map[string]int, 3)
	for _, res := range results {
		if res.Correlation.IsDefined() {
			outcomes["defined"]++
		} else {
			outcomes[res.Correlation.Reason().String()]++
		}
	}
	metrics.RecordCorrelations(outcomes)

	if c != nil {
		c.Set(key, results)
	}
	return results, false, nil
}

// prepareQuery applies defaults and generates a request ID if needed.
// A negative MinSupport is left for Recommend to reject.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (e *Engine) prepareQuery(q Query) Query {
	if q.RequestID == "" {
		q.RequestID = uuid.NewString()
	}
	if q.TopN == 0 {
		q.TopN = e.config.Limits.DefaultTopN
	}
	if q.TopN > e.config.Limits.MaxTopN {
		q.TopN = e.config.Limits.MaxTopN
	}
	return q
}

// Stats returns the aggregate for a known title.
func (e *Engine) Stats(title string) (ItemStats, error) {
	snap, err := e.snapshot()
	if err != nil {
		return ItemStats{}, err
	}
	if _, err := snap.store.IDFor(title); err != nil {
		return ItemStats{}, err
	}
	return snap.stats[title], nil
}

// AllStats returns the aggregates of every rated item.
// The returned map is shared and must not be modified.
func (e *Engine) AllStats() (map[string]ItemStats, error) {
	snap, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.stats, nil
}

// Status describes the installed dataset.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st := Status{
		Loading:    e.loading.Load(),
		LoadedAt:   e.loadedAt,
		LastLoadMS: e.lastLoadMS,
		LastError:  e.lastError,
	}
	if e.current != nil {
		st.Loaded = true
		st.Observations = e.current.store.Len()
		st.Items = e.current.store.ItemCount()
		st.Users = e.current.store.UserCount()
		st.StoreVersion = e.current.store.Version()
		st.MatrixVersion = e.current.matrix.Version()
		st.Ingested = st.Observations - e.current.installedLen
	}
	return st
}

// Ready reports whether a dataset is installed.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current != nil
}

// Counters returns request, cache hit, cache miss and error counts since start.
func (e *Engine) Counters() (requests, hits, misses, errs int64) {
	return e.requestCount.Load(), e.cacheHits.Load(), e.cacheMisses.Load(), e.errorCount.Load()
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}
