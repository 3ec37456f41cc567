package mqtt

import (
	"time"

	"github.com/railfleet/locopredict/core/model"
)

// Client publishes locomotive telemetry to the fleet topics. The
// simulator and seeding tools use it to feed the ingest side.
type Client interface {
	// PublishUsage reports cumulative operating hours and the current
	// status for one locomotive.
	PublishUsage(number string, hours float64, status model.Status) error

	// PublishMaintenance reports a completed service on the given date.
	PublishMaintenance(number string, date time.Time) error
}
