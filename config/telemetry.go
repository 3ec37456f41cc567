package config

import (
	"fmt"
	"strings"
)

// TelemetryConfig holds configuration for the telemetry manager.
type TelemetryConfig struct {
	Enabled         bool   `json:"enabled"`
	Mode            string `json:"mode"`
	TopicPrefix     string `json:"topic_prefix"`
	RequestTopic    string `json:"request_topic"`
	ResponsePrefix  string `json:"response_topic_prefix"`
	IntervalSeconds int    `json:"interval_seconds"`
	TimeoutSeconds  int    `json:"timeout_seconds"`
}

// Prefix returns the root of the fleet report topics.
func (c TelemetryConfig) Prefix() string {
	if c.TopicPrefix == "" {
		return "fleet"
	}
	return c.TopicPrefix
}

func (c TelemetryConfig) Interval() int {
	if c.IntervalSeconds <= 0 {
		return 30
	}
	return c.IntervalSeconds
}

func (c TelemetryConfig) Timeout() int {
	if c.TimeoutSeconds <= 0 {
		return 3
	}
	return c.TimeoutSeconds
}

// Validate checks the collection mode and its required topics.
func (c TelemetryConfig) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "", "push":
	case "pull", "hybrid":
		if c.RequestTopic == "" || c.ResponsePrefix == "" {
			return fmt.Errorf("telemetry mode %s requires request_topic and response_topic_prefix", c.Mode)
		}
	default:
		return fmt.Errorf("unknown telemetry mode %s", c.Mode)
	}
	return nil
}
