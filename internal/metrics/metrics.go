// Package metrics exposes Prometheus instrumentation for model fits and queries.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query kinds.
const (
	QueryRecommend = "recommend"
	QueryPredict   = "predict"
	QueryProfiles  = "profiles"
	QueryProducts  = "products"
)

// Query outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeMiss     = "miss"
	OutcomeEmpty    = "empty"
	OutcomeBadInput = "bad_input"
	OutcomeError    = "error"
)

var (
	// QueriesTotal counts analytics queries by kind and outcome.
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spectrum_queries_total",
			Help: "Total number of analytics queries",
		},
		[]string{"kind", "outcome"},
	)

	// QueryDuration tracks analytics query latency.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spectrum_query_duration_seconds",
			Help:    "Duration of analytics queries in seconds",
			Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"kind"},
	)

	// FitDuration tracks how long a full model build takes.
	FitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spectrum_fit_duration_seconds",
			Help:    "Duration of analytics core builds in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
	)

	// FittedCustomers is the number of customers in the loaded model.
	FittedCustomers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spectrum_fitted_customers",
			Help: "Number of customers in the loaded segmentation model",
		},
	)

	// FittedItems is the number of items in the loaded affinity index.
	FittedItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spectrum_fitted_items",
			Help: "Number of items in the loaded affinity index",
		},
	)

	// ClusterSize is the number of customers per segment.
	ClusterSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spectrum_cluster_customers",
			Help: "Number of customers assigned to each segment",
		},
		[]string{"cluster"},
	)
)

// RecordQuery records one query of the given kind.
func RecordQuery(kind, outcome string, start time.Time) {
	QueriesTotal.WithLabelValues(kind, outcome).Inc()
	QueryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// RecordFit publishes the shape of a freshly loaded model.
func RecordFit(customers, items int, clusterSizes []int, took time.Duration) {
	FitDuration.Observe(took.Seconds())
	FittedCustomers.Set(float64(customers))
	FittedItems.Set(float64(items))
	ClusterSize.Reset()
	for cluster, size := range clusterSizes {
		ClusterSize.WithLabelValues(strconv.Itoa(cluster)).Set(float64(size))
	}
}
