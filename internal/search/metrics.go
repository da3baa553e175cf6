package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// sourceQueriesTotal tracks fan-out queries by source and outcome.
	sourceQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "search",
			Name:      "source_queries_total",
			Help:      "Total number of per-source queries by outcome",
		},
		[]string{"source", "outcome"},
	)

	// sourceQueryDuration tracks per-source query latency.
	sourceQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nexus",
			Subsystem: "search",
			Name:      "source_query_duration_seconds",
			Help:      "Duration of per-source queries in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"source"},
	)

	// searchesTotal tracks unified searches.
	searchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "search",
			Name:      "searches_total",
			Help:      "Total number of unified searches",
		},
	)
)
