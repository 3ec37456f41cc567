package events

import "time"

// MaintenanceEvent is published when completed maintenance is reported
// for a locomotive.
type MaintenanceEvent struct {
	LocomotiveNumber string
	Date             time.Time
}
