package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	CatalogFetches          map[string]uint64
	CatalogFallbacks        uint64
	UpstreamDurationCount   uint64
	UpstreamDurationTotalNs int64
	WeatherRequests         map[string]uint64
	CacheHits               map[string]uint64
	CacheMisses             map[string]uint64
	FavouritesAdded         uint64
	FavouritesRemoved       uint64
	AnalyticsComputed       uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	catalogFallbacks        uint64
	upstreamDurationCount   uint64
	upstreamDurationTotalNs int64
	favouritesAdded         uint64
	favouritesRemoved       uint64
	analyticsComputed       uint64

	mu              sync.Mutex
	catalogFetches  map[string]uint64
	weatherRequests map[string]uint64
	cacheHits       map[string]uint64
	cacheMisses     map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		catalogFetches:  make(map[string]uint64),
		weatherRequests: make(map[string]uint64),
		cacheHits:       make(map[string]uint64),
		cacheMisses:     make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		CatalogFetches:          copyCounts(m.catalogFetches),
		CatalogFallbacks:        atomic.LoadUint64(&m.catalogFallbacks),
		UpstreamDurationCount:   atomic.LoadUint64(&m.upstreamDurationCount),
		UpstreamDurationTotalNs: atomic.LoadInt64(&m.upstreamDurationTotalNs),
		WeatherRequests:         copyCounts(m.weatherRequests),
		CacheHits:               copyCounts(m.cacheHits),
		CacheMisses:             copyCounts(m.cacheMisses),
		FavouritesAdded:         atomic.LoadUint64(&m.favouritesAdded),
		FavouritesRemoved:       atomic.LoadUint64(&m.favouritesRemoved),
		AnalyticsComputed:       atomic.LoadUint64(&m.analyticsComputed),
	}
}

// IncCatalogFetch counts a catalog fetch by the endpoint that served it.
func (m *InMemoryRecorder) IncCatalogFetch(source string) {
	m.inc(m.catalogFetches, source)
}

// IncCatalogFallback counts a catalog endpoint that failed over to the next.
func (m *InMemoryRecorder) IncCatalogFallback() {
	atomic.AddUint64(&m.catalogFallbacks, 1)
}

// ObserveUpstreamDuration records an upstream call duration.
func (m *InMemoryRecorder) ObserveUpstreamDuration(api string, duration time.Duration) {
	atomic.AddUint64(&m.upstreamDurationCount, 1)
	atomic.AddInt64(&m.upstreamDurationTotalNs, duration.Nanoseconds())
}

// IncWeatherRequest counts weather lookups by outcome.
func (m *InMemoryRecorder) IncWeatherRequest(status string) {
	m.inc(m.weatherRequests, status)
}

// IncCacheHit increments the hit counter of cache.
func (m *InMemoryRecorder) IncCacheHit(cache string) {
	m.inc(m.cacheHits, cache)
}

// IncCacheMiss increments the miss counter of cache.
func (m *InMemoryRecorder) IncCacheMiss(cache string) {
	m.inc(m.cacheMisses, cache)
}

// IncFavouriteAdded increments favourite added counter.
func (m *InMemoryRecorder) IncFavouriteAdded() {
	atomic.AddUint64(&m.favouritesAdded, 1)
}

// IncFavouriteRemoved increments favourite removed counter.
func (m *InMemoryRecorder) IncFavouriteRemoved() {
	atomic.AddUint64(&m.favouritesRemoved, 1)
}

// IncAnalyticsComputed increments the analytics computation counter.
func (m *InMemoryRecorder) IncAnalyticsComputed() {
	atomic.AddUint64(&m.analyticsComputed, 1)
}

func (m *InMemoryRecorder) inc(counts map[string]uint64, label string) {
	m.mu.Lock()
	counts[label]++
	m.mu.Unlock()
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
