package simulator

import (
	"context"
	"math/rand"
	"time"

	"github.com/railfleet/locopredict/core/logger"
	"github.com/railfleet/locopredict/core/model"
	"github.com/railfleet/locopredict/core/mqtt"
)

// Runner replays usage telemetry for a generated fleet over MQTT.
type Runner struct {
	Client   mqtt.Client
	Fleet    []model.Locomotive
	Interval time.Duration
	Rng      *rand.Rand
	Log      logger.Logger

	// MaintenanceRate is the per-reading chance that a unit reports a
	// completed maintenance instead of a usage update.
	MaintenanceRate float64
}

// Run publishes one reading per locomotive every Interval until the
// context ends. Operating hours advance by 0.5-1.5x the elapsed
// interval; retired units stay silent.
func (r *Runner) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case at := <-ticker.C:
			r.tick(at, interval)
		}
	}
}

func (r *Runner) tick(at time.Time, interval time.Duration) {
	for i := range r.Fleet {
		l := &r.Fleet[i]
		if l.Status == model.StatusRetired {
			continue
		}
		if r.Rng.Float64() < r.MaintenanceRate {
			l.LastMaintenance = at
			if err := r.Client.PublishMaintenance(l.Number, at); err != nil {
				r.Log.Errorf("publish maintenance %s: %v", l.Number, err)
			}
			continue
		}
		l.OperatingHours += interval.Hours() * (0.5 + r.Rng.Float64())
		if err := r.Client.PublishUsage(l.Number, l.OperatingHours, l.Status); err != nil {
			r.Log.Errorf("publish usage %s: %v", l.Number, err)
		}
	}
}
