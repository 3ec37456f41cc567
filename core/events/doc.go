// Package events defines the fleet and prediction events emitted on the
// event bus.
//
// Available event types:
//   - UsageEvent: usage telemetry applied to a fleet snapshot
//   - MaintenanceEvent: completed maintenance reported for a locomotive
//   - PredictionEvent: prediction served to a caller
package events
