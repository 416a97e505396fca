// Package metrics provides Prometheus metrics for willow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchesTotal tracks selected personas
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "willow",
			Subsystem: "matching",
			Name:      "matches_total",
			Help:      "Total number of matches by selected persona",
		},
		[]string{"persona_id"},
	)

	// MatchScore tracks the final score of selected personas
	MatchScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "willow",
			Subsystem: "matching",
			Name:      "match_score",
			Help:      "Final score of selected personas",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	// StorageOperationsTotal tracks storage operations by key and result status
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "willow",
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "Total number of storage operations by key, operation and status",
		},
		[]string{"key", "operation", "status"},
	)

	// SessionsCompletedTotal tracks completed sessions
	SessionsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "willow",
			Subsystem: "sessions",
			Name:      "completed_total",
			Help:      "Total number of completed sessions",
		},
	)

	// AnalyticsEventsTotal tracks tracked analytics events by type
	AnalyticsEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "willow",
			Subsystem: "analytics",
			Name:      "events_total",
			Help:      "Total number of analytics events by type",
		},
		[]string{"type"},
	)
)

// RecordMatch records a selected persona and its score
func RecordMatch(personaID string, score float64) {
	MatchesTotal.WithLabelValues(personaID).Inc()
	MatchScore.Observe(score)
}

// RecordStorageOperation records the outcome of a storage operation
func RecordStorageOperation(key, operation, status string) {
	StorageOperationsTotal.WithLabelValues(key, operation, status).Inc()
}
