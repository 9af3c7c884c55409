// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Catalog metrics
	IncCatalogFetch(source string) // source: "v3.1-fields", "v3.1-all", "v2-all" or "failed"
	IncCatalogFallback()
	ObserveUpstreamDuration(api string, duration time.Duration)

	// Weather metrics
	IncWeatherRequest(status string) // status: "success", "failed", "skipped"

	// Cache metrics
	IncCacheHit(cache string)
	IncCacheMiss(cache string)

	// Favourites metrics
	IncFavouriteAdded()
	IncFavouriteRemoved()
	IncAnalyticsComputed()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
