package metrics

import (
	"time"

	"github.com/railfleet/locopredict/core/model"
)

// PredictionEvent represents a completed prediction call to be recorded.
type PredictionEvent struct {
	LocomotiveNumber string
	Type             model.PredictionType
	Method           model.Method
	RiskLevel        model.RiskLevel
	RiskScore        float64
	Reliability      model.ReliabilityCategory
	Duration         time.Duration
	Time             time.Time
}

// PredictionSink records prediction results for observability purposes.
type PredictionSink interface {
	RecordPrediction(ev PredictionEvent) error
}

// FallbackEvent captures a downgrade to the formula path, either per call
// or process-wide when the artifact bundle failed to load.
type FallbackEvent struct {
	LocomotiveNumber string
	Reason           string
	Time             time.Time
}

// FallbackRecorder records fallback activations.
type FallbackRecorder interface {
	RecordFallback(ev FallbackEvent) error
}

// ArtifactEvent captures the outcome of the one-time bundle load.
type ArtifactEvent struct {
	Dir    string
	Loaded bool
	Error  string
	Time   time.Time
}

// ArtifactRecorder records artifact bundle loads.
type ArtifactRecorder interface {
	RecordArtifactLoad(ev ArtifactEvent) error
}

// UsageEvent is a telemetry update for a fleet unit.
type UsageEvent struct {
	LocomotiveNumber string
	OperatingHours   float64
	Status           model.Status
	Time             time.Time
}

// UsageRecorder records usage telemetry updates.
type UsageRecorder interface {
	RecordUsage(ev UsageEvent) error
}

// MaintenanceEvent is a completed-maintenance report for a fleet unit.
type MaintenanceEvent struct {
	LocomotiveNumber string
	Date             time.Time
	Time             time.Time
}

// MaintenanceRecorder records maintenance completion reports.
type MaintenanceRecorder interface {
	RecordMaintenance(ev MaintenanceEvent) error
}

// BatchEvent summarizes a bulk prediction request.
type BatchEvent struct {
	Size     int
	Failed   int
	Duration time.Duration
	Time     time.Time
}

// BatchRecorder records bulk prediction summaries.
type BatchRecorder interface {
	RecordBatch(ev BatchEvent) error
}

// FleetSizeRecorder records the number of registered fleet units.
type FleetSizeRecorder interface {
	RecordFleetSize(size int) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordPrediction(PredictionEvent) error { return nil }

func (NopSink) RecordFallback(FallbackEvent) error { return nil }

func (NopSink) RecordArtifactLoad(ArtifactEvent) error { return nil }

func (NopSink) RecordUsage(UsageEvent) error { return nil }

func (NopSink) RecordMaintenance(MaintenanceEvent) error { return nil }

func (NopSink) RecordBatch(BatchEvent) error { return nil }

func (NopSink) RecordFleetSize(int) error { return nil }
