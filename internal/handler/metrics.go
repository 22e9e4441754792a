package handler

import (
	"fmt"
	"net/http"

	"github.com/inkwell/inkwell/internal/metrics"
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

	writeMetric(w, "inkwell_generations_created_total %d\n", snap.GenerationsCreated)
	writeMetric(w, "inkwell_generations_failed_total %d\n", snap.GenerationsFailed)
	writeMetric(w, "inkwell_insufficient_credits_total %d\n", snap.InsufficientCredits)
	writeMetric(w, "inkwell_credits_spent_total %d\n", snap.CreditsSpent)
	writeMetric(w, "inkwell_generation_duration_seconds_count %d\n", snap.GenerationDurationCount)
	writeMetric(w, "inkwell_generation_duration_seconds_sum %.6f\n", float64(snap.GenerationDurationTotalNs)/1e9)

	writeMetric(w, "inkwell_auth_cache_hits_total %d\n", snap.AuthCacheHits)
	writeMetric(w, "inkwell_auth_cache_misses_total %d\n", snap.AuthCacheMisses)

	writeMetric(w, "inkwell_usage_events_published_total{status=\"success\"} %d\n", snap.UsageEventsPublished)
	writeMetric(w, "inkwell_usage_events_published_total{status=\"dropped\"} %d\n", snap.UsageEventsDropped)

	writeMetric(w, "inkwell_usage_events_processed_total{status=\"success\"} %d\n", snap.UsageEventsProcessed)
	writeMetric(w, "inkwell_usage_events_processed_total{status=\"failed\"} %d\n", snap.UsageEventsFailed)
	writeMetric(w, "inkwell_usage_events_processed_total{status=\"skipped\"} %d\n", snap.UsageEventsSkipped)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
