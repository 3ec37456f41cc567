package metrics

import "github.com/railfleet/locopredict/core/factory"

// Config defines settings for metrics sinks. The typed fields cover the
// built-in Prometheus and Influx sinks; Sinks lists additional ones built
// through the registered factories.
type Config struct {
	PrometheusEnabled bool                   `json:"prometheus_enabled"`
	PrometheusPort    string                 `json:"prometheus_port"`
	InfluxEnabled     bool                   `json:"influx_enabled"`
	InfluxToken       string                 `json:"influx_token"`
	InfluxURL         string                 `json:"influx_url"`
	InfluxOrg         string                 `json:"influx_org"`
	InfluxBucket      string                 `json:"influx_bucket"`
	Sinks             []factory.ModuleConfig `json:"sinks"`
}

// SetDefaults fills unset fields with usable defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9090"
	}
}
