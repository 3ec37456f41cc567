package engine

import (
	"math"
	"testing"

	"github.com/railfleet/locopredict/core/model"
)

func TestSynthesizeAllMetrics(t *testing.T) {
	loco := model.Locomotive{
		Number:            "DE10-500",
		Model:             "DE10",
		ManufacturingYear: 2015,
		OperatingHours:    20000,
	}
	got := synthesize(loco, model.TypeAll, 45, engineNow)

	want := map[string]float64{
		"availability_days":  math.Floor(285 * (1 - 45.0/200)),
		"distance_travelled": math.Floor(20000 * 45 * (1 - 45.0/300)),
		"distance_per_day":   round2(120 * (1 - 45.0/200)),
		"total_failures":     math.Floor((10*0.5 + 20000.0/15000) * (1 + 45.0/100)),
		"reliability":        round2(70 * (1 - 45.0/150)),
		"fuel_efficiency":    round2(72 * (1 - 45.0/200)),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d metrics got %v", len(want), got)
	}
	for k, v := range want {
		if math.Abs(got[k]-v) > 1e-9 {
			t.Fatalf("metric %s: expected %v got %v", k, v, got[k])
		}
	}
}

func TestSynthesizeSingleMetric(t *testing.T) {
	loco := model.Locomotive{
		Number:            "DE10-501",
		Model:             "DE10",
		ManufacturingYear: 2015,
		OperatingHours:    20000,
	}
	got := synthesize(loco, model.TypeFuelEfficiency, 45, engineNow)
	if len(got) != 1 {
		t.Fatalf("expected single metric got %v", got)
	}
	if _, ok := got["fuel_efficiency"]; !ok {
		t.Fatalf("expected fuel_efficiency key got %v", got)
	}
}

func TestSynthesizeNonNegativeAtMaxRisk(t *testing.T) {
	loco := model.Locomotive{
		Number:            "DE10-502",
		Model:             "DE10",
		ManufacturingYear: 1980,
		OperatingHours:    90000,
	}
	got := synthesize(loco, model.TypeAll, 100, engineNow)
	for k, v := range got {
		if v < 0 {
			t.Fatalf("metric %s went negative: %v", k, v)
		}
	}
	if got["reliability"] > 100 || got["fuel_efficiency"] > 100 {
		t.Fatalf("percentage metrics must stay within 100: %v", got)
	}
}

func TestSynthesizeZeroRisk(t *testing.T) {
	loco := model.Locomotive{
		Number:            "DE11-1",
		Model:             "DE11",
		ManufacturingYear: engineNow.Year(),
		OperatingHours:    0,
	}
	got := synthesize(loco, model.TypeAll, 0, engineNow)
	if got["availability_days"] != 365 {
		t.Fatalf("expected full availability got %v", got["availability_days"])
	}
	if got["distance_travelled"] != 0 {
		t.Fatalf("expected zero distance got %v", got["distance_travelled"])
	}
	if got["distance_per_day"] != 120 {
		t.Fatalf("expected nominal daily distance got %v", got["distance_per_day"])
	}
}
