package ruleset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// metricsCacheName labels store cache activity in exported metrics.
const metricsCacheName = "ruleset"

// Source provides raw rule-set documents to a Store.
//
// Read returns the document bytes for a name; it must return a
// *NotFoundError when no backing resource exists. Fingerprint returns a
// cheap modification signal (e.g., mtime plus size) without reading the
// document content, so cache-hit checks stay inexpensive.
type Source interface {
	Read(ctx context.Context, name string) (*SourceDocument, error)
	Fingerprint(ctx context.Context, name string) (string, error)
}

// SourceDocument is one raw document handed back by a Source.
type SourceDocument struct {
	// Data is the raw document bytes.
	Data []byte

	// Path identifies the backing resource (used for format detection and
	// diagnostics). Memory-backed sources use a synthetic path.
	Path string
}

// CacheRecorder receives cache activity for metrics export. Implementations
// must be safe for concurrent use. The telemetry/metrics package provides a
// prometheus-backed implementation.
type CacheRecorder interface {
	RecordHit(cache string)
	RecordMiss(cache string)
	RecordEviction(cache string)
	UpdateSize(cache string, size int)
}

// CacheStats is a point-in-time snapshot of store cache performance,
// exposed for operational tooling (health and metrics endpoints).
type CacheStats struct {
	// Hits is the number of loads served from cache.
	Hits uint64 `json:"hits"`

	// Misses is the number of loads that re-read the backing source.
	Misses uint64 `json:"misses"`

	// HitRate is Hits / (Hits + Misses), zero when no loads have happened.
	HitRate float64 `json:"hit_rate"`

	// CachedItems is the current number of cached documents.
	CachedItems int `json:"cached_items"`

	// ApproxBytes approximates cache memory use as the sum of the raw
	// document sizes backing each cached entry.
	ApproxBytes int64 `json:"approx_bytes"`
}

// StoreConfig configures a Store.
type StoreConfig struct {
	// TTL is how long a cache entry stays fresh. Zero disables caching:
	// every Load re-reads the backing source.
	TTL time.Duration

	// Logger receives structured load/miss events. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Metrics optionally receives cache activity. May be nil.
	Metrics CacheRecorder
}

// cacheEntry is one cached parsed document.
type cacheEntry struct {
	doc         *Document
	storedAt    time.Time
	fingerprint string
	size        int
}

// Store loads named rule sets from a Source, shape-validates them, and keeps
// parsed documents warm. See the package documentation for the caching
// contract.
type Store struct {
	source  Source
	ttl     time.Duration
	logger  *slog.Logger
	metrics CacheRecorder

	// mu guards entries and the hit/miss counters. A single coarse lock is
	// deliberate: loads are rare relative to evaluations.
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	hits    uint64
	misses  uint64
}

// NewStore creates a rule-set store backed by the given source.
func NewStore(source Source, config StoreConfig) *Store {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		source:  source,
		ttl:     config.TTL,
		logger:  logger.With("component", "ruleset.store"),
		metrics: config.Metrics,
		entries: make(map[string]*cacheEntry),
	}
}

// Load returns the parsed document for a rule-set name.
//
// It serves the cached document when an entry exists, is younger than the
// TTL, and the source fingerprint is unchanged; otherwise it re-reads,
// re-validates, and replaces the entry. Failures return *NotFoundError,
// *InvalidFormatError, or *SourceError unchanged; a corrupt document will
// not self-heal by retrying, so no retries happen here.
func (s *Store) Load(ctx context.Context, name string) (*Document, error) {
	fingerprint, err := s.source.Fingerprint(ctx, name)
	if err != nil {
		return nil, err
	}

	if doc, ok := s.lookup(name, fingerprint); ok {
		if s.metrics != nil {
			s.metrics.RecordHit(metricsCacheName)
		}
		return doc, nil
	}

	if s.metrics != nil {
		s.metrics.RecordMiss(metricsCacheName)
	}

	doc, size, err := s.loadFresh(ctx, name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.misses++
	if _, existed := s.entries[name]; existed && s.metrics != nil {
		s.metrics.RecordEviction(metricsCacheName)
	}
	s.entries[name] = &cacheEntry{
		doc:         doc,
		storedAt:    time.Now(),
		fingerprint: fingerprint,
		size:        size,
	}
	count := len(s.entries)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.UpdateSize(metricsCacheName, count)
	}

	s.logger.Info("rule set loaded",
		"name", name,
		"rules", len(doc.Rules),
		"version", doc.Metadata.Version,
	)

	return doc, nil
}

// lookup returns the cached document when the entry is fresh: present,
// younger than the TTL, and matching the current fingerprint. It records
// the hit counter on success.
func (s *Store) lookup(name, fingerprint string) (*Document, bool) {
	if s.ttl == 0 {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[name]
	if !ok {
		return nil, false
	}
	if time.Since(entry.storedAt) >= s.ttl {
		return nil, false
	}
	if entry.fingerprint != fingerprint {
		return nil, false
	}

	s.hits++
	return entry.doc, true
}

// loadFresh reads, parses, and shape-validates a document from the source.
func (s *Store) loadFresh(ctx context.Context, name string) (*Document, int, error) {
	src, err := s.source.Read(ctx, name)
	if err != nil {
		return nil, 0, err
	}

	raw, err := decodeRaw(src.Data, src.Path)
	if err != nil {
		return nil, 0, &InvalidFormatError{Name: name, Errors: []string{err.Error()}}
	}

	if errs := ValidateShape(raw); len(errs) > 0 {
		s.logger.Warn("rule set failed shape validation",
			"name", name,
			"error_count", len(errs),
		)
		return nil, 0, &InvalidFormatError{Name: name, Errors: errs}
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, 0, &InvalidFormatError{Name: name, Errors: []string{err.Error()}}
	}

	return doc, len(src.Data), nil
}

// Clear drops the named cache entries, or every entry when called with no
// arguments. This is an administrative operation; request-path callers rely
// on TTL and fingerprint checks instead.
func (s *Store) Clear(names ...string) {
	s.mu.Lock()
	if len(names) == 0 {
		for range s.entries {
			if s.metrics != nil {
				s.metrics.RecordEviction(metricsCacheName)
			}
		}
		s.entries = make(map[string]*cacheEntry)
	} else {
		for _, name := range names {
			if _, ok := s.entries[name]; ok {
				delete(s.entries, name)
				if s.metrics != nil {
					s.metrics.RecordEviction(metricsCacheName)
				}
			}
		}
	}
	count := len(s.entries)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.UpdateSize(metricsCacheName, count)
	}
}

// Stats returns a snapshot of cache performance counters.
func (s *Store) Stats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := CacheStats{
		Hits:        s.hits,
		Misses:      s.misses,
		CachedItems: len(s.entries),
	}
	if total := s.hits + s.misses; total > 0 {
		stats.HitRate = float64(s.hits) / float64(total)
	}
	for _, entry := range s.entries {
		stats.ApproxBytes += int64(entry.size)
	}
	return stats
}

// String implements fmt.Stringer for debug logging.
func (s CacheStats) String() string {
	return fmt.Sprintf("hits=%d misses=%d hit_rate=%.2f items=%d bytes=%d",
		s.Hits, s.Misses, s.HitRate, s.CachedItems, s.ApproxBytes)
}
