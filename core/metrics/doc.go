// Package metrics defines the interfaces and events through which
// prediction activity is recorded. Concrete sinks live in infra/metrics
// and register themselves with the factory registry here; MultiSink fans
// events out to several of them and NopSink satisfies every recorder for
// components that run without observability.
package metrics
