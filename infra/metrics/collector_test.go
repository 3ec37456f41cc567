package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/railfleet/locopredict/core/events"
	coremetrics "github.com/railfleet/locopredict/core/metrics"
	"github.com/railfleet/locopredict/core/model"
	"github.com/railfleet/locopredict/internal/bus"
)

type channelSink struct {
	usage       chan coremetrics.UsageEvent
	maintenance chan coremetrics.MaintenanceEvent
}

func newChannelSink() *channelSink {
	return &channelSink{
		usage:       make(chan coremetrics.UsageEvent, 1),
		maintenance: make(chan coremetrics.MaintenanceEvent, 1),
	}
}

func (s *channelSink) RecordPrediction(coremetrics.PredictionEvent) error { return nil }

func (s *channelSink) RecordUsage(ev coremetrics.UsageEvent) error {
	s.usage <- ev
	return nil
}

func (s *channelSink) RecordMaintenance(ev coremetrics.MaintenanceEvent) error {
	s.maintenance <- ev
	return nil
}

func TestStartEventCollector(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.New()
	sink := newChannelSink()
	StartEventCollector(ctx, b, sink)

	b.Publish(events.UsageEvent{LocomotiveNumber: "DE10-001", OperatingHours: 1500, Status: model.StatusActive})
	select {
	case ev := <-sink.usage:
		if ev.LocomotiveNumber != "DE10-001" || ev.OperatingHours != 1500 {
			t.Fatalf("unexpected usage event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("usage event not recorded")
	}

	date := time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)
	b.Publish(events.MaintenanceEvent{LocomotiveNumber: "DE10-001", Date: date})
	select {
	case ev := <-sink.maintenance:
		if !ev.Date.Equal(date) {
			t.Fatalf("unexpected maintenance event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("maintenance event not recorded")
	}
}

func TestStartEventCollectorNilBus(t *testing.T) {
	// Must not panic.
	StartEventCollector(context.Background(), nil, coremetrics.NopSink{})
}
