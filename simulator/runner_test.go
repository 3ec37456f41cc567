package simulator

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/railfleet/locopredict/core/model"
	"github.com/railfleet/locopredict/infra/logger"
	"github.com/railfleet/locopredict/infra/mqtt"
)

func testRunner(pub *mqtt.MockPublisher, rate float64) *Runner {
	return &Runner{
		Client: pub,
		Fleet: []model.Locomotive{
			{Number: "DE10-001", Model: "DE10", ManufacturingYear: 1990, OperatingHours: 40000, Status: model.StatusActive},
			{Number: "DE10-002", Model: "DE10", ManufacturingYear: 1992, OperatingHours: 45000, Status: model.StatusRepair},
			{Number: "DE11-001", Model: "DE11", ManufacturingYear: 2018, OperatingHours: 8000, Status: model.StatusRetired},
		},
		Interval:        time.Minute,
		Rng:             rand.New(rand.NewSource(1)),
		Log:             logger.NopLogger{},
		MaintenanceRate: rate,
	}
}

func TestRunnerTickUsage(t *testing.T) {
	pub := mqtt.NewMockPublisher()
	r := testRunner(pub, 0)
	r.tick(simNow, time.Minute)

	if len(pub.Usage) != 2 {
		t.Fatalf("expected 2 usage reports, got %d", len(pub.Usage))
	}
	if _, ok := pub.Usage["DE11-001"]; ok {
		t.Fatalf("retired unit reported usage")
	}
	hours := pub.Usage["DE10-001"]
	if hours <= 40000 || hours > 40000+0.025 {
		t.Fatalf("hours drift out of range: %f", hours)
	}
	if pub.Statuses["DE10-002"] != model.StatusRepair {
		t.Fatalf("status not carried: %v", pub.Statuses)
	}
	if r.Fleet[0].OperatingHours != hours {
		t.Fatalf("fleet state not advanced")
	}
}

func TestRunnerTickMaintenance(t *testing.T) {
	pub := mqtt.NewMockPublisher()
	r := testRunner(pub, 1)
	r.tick(simNow, time.Minute)

	if len(pub.Maintenance) != 2 || len(pub.Usage) != 0 {
		t.Fatalf("expected maintenance only, got %d/%d", len(pub.Maintenance), len(pub.Usage))
	}
	if !pub.Maintenance["DE10-001"].Equal(simNow) {
		t.Fatalf("unexpected maintenance date %v", pub.Maintenance["DE10-001"])
	}
	if !r.Fleet[0].LastMaintenance.Equal(simNow) {
		t.Fatalf("fleet state not updated")
	}
}

func TestRunnerStopsOnContextEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := testRunner(mqtt.NewMockPublisher(), 0)
	if err := r.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
}
