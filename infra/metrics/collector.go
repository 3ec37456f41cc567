package metrics

import (
	"context"
	"time"

	"github.com/railfleet/locopredict/core/events"
	coremetrics "github.com/railfleet/locopredict/core/metrics"
	"github.com/railfleet/locopredict/internal/bus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// fleet telemetry events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, eb bus.EventBus, sink coremetrics.PredictionSink) {
	if eb == nil || sink == nil {
		return
	}
	sub := eb.Subscribe()
	go func() {
		defer eb.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.UsageEvent:
					if r, ok := sink.(coremetrics.UsageRecorder); ok {
						_ = r.RecordUsage(coremetrics.UsageEvent{
							LocomotiveNumber: e.LocomotiveNumber,
							OperatingHours:   e.OperatingHours,
							Status:           e.Status,
							Time:             time.Now(),
						})
					}
				case events.MaintenanceEvent:
					if r, ok := sink.(coremetrics.MaintenanceRecorder); ok {
						_ = r.RecordMaintenance(coremetrics.MaintenanceEvent{
							LocomotiveNumber: e.LocomotiveNumber,
							Date:             e.Date,
							Time:             time.Now(),
						})
					}
				}
			}
		}
	}()
}
