package events

import "github.com/railfleet/locopredict/core/model"

// UsageEvent is published when a usage telemetry reading is applied to a
// fleet snapshot.
type UsageEvent struct {
	LocomotiveNumber string
	OperatingHours   float64
	Status           model.Status
}
