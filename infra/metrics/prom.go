package metrics

import (
	coremetrics "github.com/railfleet/locopredict/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records prediction events in Prometheus metrics.
type PromSink struct {
	events    *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	fallbacks *prometheus.CounterVec
	hours     *prometheus.GaugeVec
	fleet     prometheus.Gauge
}

// NewPromSink registers prediction metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.PredictionSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.PredictionSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_events_total",
		Help: "Total number of prediction events per locomotive",
	}, []string{"locomotive", "prediction_type", "method", "risk_level"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prediction_event_latency_seconds",
		Help:    "Time spent serving a prediction",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_fallback_events_total",
		Help: "Fallback activations per locomotive",
	}, []string{"locomotive"})
	hours := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "locomotive_operating_hours",
		Help: "Last reported cumulative operating hours",
	}, []string{"locomotive", "status"})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_locomotives_total",
		Help: "Number of locomotives registered in the fleet store",
	})

	if err := reg.Register(events); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			events = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fallbacks); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fallbacks = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(hours); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			hours = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fleet); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fleet = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{events: events, latency: latency, fallbacks: fallbacks, hours: hours, fleet: fleet}, nil
}

// RecordPrediction increments the event counter and observes the latency.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.events.WithLabelValues(ev.LocomotiveNumber, string(ev.Type), string(ev.Method), string(ev.RiskLevel)).Inc()
	s.latency.WithLabelValues(string(ev.Method)).Observe(ev.Duration.Seconds())
	return nil
}

// RecordFallback counts a downgrade to the formula path.
func (s *PromSink) RecordFallback(ev coremetrics.FallbackEvent) error {
	s.fallbacks.WithLabelValues(ev.LocomotiveNumber).Inc()
	return nil
}

// RecordUsage sets the operating-hours gauge for the unit.
func (s *PromSink) RecordUsage(ev coremetrics.UsageEvent) error {
	s.hours.WithLabelValues(ev.LocomotiveNumber, string(ev.Status)).Set(ev.OperatingHours)
	return nil
}

// RecordFleetSize sets the gauge to the number of registered locomotives.
func (s *PromSink) RecordFleetSize(size int) error {
	if s.fleet != nil {
		s.fleet.Set(float64(size))
	}
	return nil
}
