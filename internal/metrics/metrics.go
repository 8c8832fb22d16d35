// Package metrics declares the Prometheus collectors for extraction runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_runs_total",
			Help: "Total number of PO/GRN/MRN processing runs by outcome",
		},
		[]string{"status"},
	)

	DocumentExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_extractions_total",
			Help: "Total number of single-document extractions by document type and outcome",
		},
		[]string{"doc_type", "status"},
	)

	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inference_request_duration_seconds",
			Help:    "Duration of inference calls in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160, 240},
		},
		[]string{"provider", "doc_type"},
	)

	MergedRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "merged_rows",
			Help:    "Number of merged rows produced per run",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		},
	)

	DroppedItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "positional_items_dropped_total",
			Help: "GRN/MRN items discarded because their position exceeds the PO item count",
		},
		[]string{"doc_type"},
	)
)
