package metrics

import (
	"github.com/railfleet/locopredict/core/factory"
	coremetrics "github.com/railfleet/locopredict/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// init registers built-in prediction sinks.
func init() {
	_ = coremetrics.RegisterPredictionSink("nop", func(map[string]any) (coremetrics.PredictionSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterPredictionSink("prometheus", func(conf map[string]any) (coremetrics.PredictionSink, error) {
		var c struct {
			Port string `json:"prometheus_port"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		// Port is used by the HTTP server only; PromSink itself doesn't need it.
		return NewPromSinkWithRegistry(coremetrics.Config{}, prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterPredictionSink("influx", func(conf map[string]any) (coremetrics.PredictionSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
