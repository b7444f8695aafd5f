package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docforge"

var (
	// CacheLookups counts response cache lookups by result (exact, fuzzy, miss)
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "response_cache",
		Name:      "lookups_total",
		Help:      "Response cache lookups by result",
	}, []string{"result"})

	// CacheRemovals counts entries removed from the response cache by reason (evicted, expired)
	CacheRemovals = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "response_cache",
		Name:      "removals_total",
		Help:      "Response cache entries removed by reason",
	}, []string{"reason"})

	// CachePersistFailures counts snapshot writes that failed after all retries
	CachePersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "response_cache",
		Name:      "persist_failures_total",
		Help:      "Response cache snapshot writes that exhausted retries",
	})

	// ScanRuns counts notification scans by outcome (success, failure)
	ScanRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notification_scan",
		Name:      "runs_total",
		Help:      "Notification scan runs by outcome",
	}, []string{"outcome"})

	// NotificationsCreated counts notifications emitted by type
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notification_scan",
		Name:      "notifications_created_total",
		Help:      "Notifications created by the scan, by type",
	}, []string{"type"})

	// ScanErrors counts per-entity and per-user scan errors
	ScanErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notification_scan",
		Name:      "errors_total",
		Help:      "Errors counted during notification scans",
	})
)

// Handler serves the default Prometheus registry
func Handler() http.Handler {
	return promhttp.Handler()
}
