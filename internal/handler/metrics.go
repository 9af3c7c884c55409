package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/countries-explorer/explorer/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeLabeled(w, "explorer_catalog_fetches_total", "source", snap.CatalogFetches)
	writeMetric(w, "explorer_catalog_fallbacks_total %d\n", snap.CatalogFallbacks)
	writeMetric(w, "explorer_upstream_duration_seconds_count %d\n", snap.UpstreamDurationCount)
	writeMetric(w, "explorer_upstream_duration_seconds_sum %.6f\n", float64(snap.UpstreamDurationTotalNs)/1e9)

	writeLabeled(w, "explorer_weather_requests_total", "status", snap.WeatherRequests)
	writeLabeled(w, "explorer_cache_hits_total", "cache", snap.CacheHits)
	writeLabeled(w, "explorer_cache_misses_total", "cache", snap.CacheMisses)

	writeMetric(w, "explorer_favourites_added_total %d\n", snap.FavouritesAdded)
	writeMetric(w, "explorer_favourites_removed_total %d\n", snap.FavouritesRemoved)
	writeMetric(w, "explorer_analytics_computed_total %d\n", snap.AnalyticsComputed)
}

// writeLabeled writes one line per label value in sorted order.
func writeLabeled(w http.ResponseWriter, name, label string, counts map[string]uint64) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeMetric(w, "%s{%s=%q} %d\n", name, label, k, counts[k])
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
