package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	predictionsTotal  *prometheus.CounterVec
	predictionLatency *prometheus.HistogramVec
	fallbacksTotal    prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.HistogramVec, prometheus.Counter) {
	preds := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Number of completed prediction calls",
		},
		[]string{"prediction_type", "method", "risk_level"},
	)
	lat := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prediction_latency_seconds",
			Help:    "Latency of prediction calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	fb := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prediction_fallbacks_total",
			Help: "Number of calls served by the formula path",
		},
	)
	return preds, lat, fb
}

func init() {
	predictionsTotal, predictionLatency, fallbacksTotal = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers engine metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(predictionsTotal, predictionLatency, fallbacksTotal)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	predictionsTotal, predictionLatency, fallbacksTotal = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
