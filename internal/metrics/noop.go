package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncCatalogFetch is a no-op.
func (n *NoopRecorder) IncCatalogFetch(source string) {}

// IncCatalogFallback is a no-op.
func (n *NoopRecorder) IncCatalogFallback() {}

// ObserveUpstreamDuration is a no-op.
func (n *NoopRecorder) ObserveUpstreamDuration(api string, duration time.Duration) {}

// IncWeatherRequest is a no-op.
func (n *NoopRecorder) IncWeatherRequest(status string) {}

// IncCacheHit is a no-op.
func (n *NoopRecorder) IncCacheHit(cache string) {}

// IncCacheMiss is a no-op.
func (n *NoopRecorder) IncCacheMiss(cache string) {}

// IncFavouriteAdded is a no-op.
func (n *NoopRecorder) IncFavouriteAdded() {}

// IncFavouriteRemoved is a no-op.
func (n *NoopRecorder) IncFavouriteRemoved() {}

// IncAnalyticsComputed is a no-op.
func (n *NoopRecorder) IncAnalyticsComputed() {}
