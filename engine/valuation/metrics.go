package valuation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	valuationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "valuations_total",
		Help: "Completed valuations.",
	})
	valuationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "valuation_errors_total",
		Help: "Rejected or failed valuations, by reason.",
	}, []string{"reason"})
	predictorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predictor_failures_total",
		Help: "Regressor invocation failures, by model.",
	}, []string{"model"})
	valuationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "valuation_duration_seconds",
		Help:    "End-to-end valuation latency.",
		Buckets: prometheus.DefBuckets,
	})
)
