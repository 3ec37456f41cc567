package model

import (
	"math/rand"
	"testing"
)

func TestGenerateTrendSeeded(t *testing.T) {
	l := Locomotive{ManufacturingYear: 2010, OperatingHours: 30000, LastMaintenance: testNow.AddDate(0, 0, -40)}
	a := GenerateTrend(l, 30, testNow, rand.New(rand.NewSource(7)))
	b := GenerateTrend(l, 30, testNow, rand.New(rand.NewSource(7)))

	if len(a.Labels) != 30 || len(a.Performance) != 30 || len(a.Risk) != 30 {
		t.Fatalf("expected 30 points got %d/%d/%d", len(a.Labels), len(a.Performance), len(a.Risk))
	}
	if a.Labels[0] != "Day 1" || a.Labels[29] != "Day 30" {
		t.Fatalf("unexpected labels %q %q", a.Labels[0], a.Labels[29])
	}
	for i := range a.Performance {
		if a.Performance[i] != b.Performance[i] || a.Risk[i] != b.Risk[i] {
			t.Fatalf("seeded runs diverged at day %d", i+1)
		}
	}
}

func TestGenerateTrendBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	l := Locomotive{ManufacturingYear: 1985, OperatingHours: 80000}
	series := GenerateTrend(l, 90, testNow, rng)
	for i, p := range series.Performance {
		if p < 20 {
			t.Fatalf("performance %v below floor at day %d", p, i+1)
		}
	}
	for i, r := range series.Risk {
		if r > 95 {
			t.Fatalf("risk %v above ceiling at day %d", r, i+1)
		}
	}
}
