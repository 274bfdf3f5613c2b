// Package metrics declares the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricebati_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricebati_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Training
	TrainingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricebati_training_runs_total",
			Help: "Training runs by outcome",
		},
		[]string{"outcome"},
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricebati_training_duration_seconds",
			Help:    "Wall time of completed training runs",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	TrainingLastLoss = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pricebati_training_last_loss",
			Help: "Final-epoch MSE of the last successful run, by split",
		},
		[]string{"split"},
	)

	// Prediction
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricebati_predictions_total",
			Help: "Predictions by outcome",
		},
		[]string{"outcome"},
	)

	// Seeding
	SeededRecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricebati_seeded_records_total",
			Help: "Synthetic project records written by the seeder",
		},
	)
)
