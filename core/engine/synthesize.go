package engine

import (
	"math"
	"time"

	"github.com/railfleet/locopredict/core/model"
)

// synthesize projects the requested per-metric predictions from the risk
// score and the snapshot's age/usage baseline. Day and distance counts are
// truncated to whole numbers; every metric is clamped to zero or above and
// percentages are capped at 100.
func synthesize(loco model.Locomotive, t model.PredictionType, riskScore float64, at time.Time) map[string]float64 {
	age := float64(loco.Age(at))
	hours := loco.OperatingHours
	out := make(map[string]float64)

	if t.Covers(model.TypeAvailabilityDays) {
		base := math.Max(250, 365-age*8)
		out[string(model.TypeAvailabilityDays)] = math.Max(0, math.Floor(base*(1-riskScore/200)))
	}
	if t.Covers(model.TypeDistanceTravelled) {
		out[string(model.TypeDistanceTravelled)] = math.Max(0, math.Floor(hours*45*(1-riskScore/300)))
	}
	if t.Covers(model.TypeDistancePerDay) {
		out[string(model.TypeDistancePerDay)] = math.Max(0, round2(120*(1-riskScore/200)))
	}
	if t.Covers(model.TypeTotalFailures) {
		base := age*0.5 + hours/15000
		out[string(model.TypeTotalFailures)] = math.Max(0, math.Floor(base*(1+riskScore/100)))
	}
	if t.Covers(model.TypeReliability) {
		base := math.Max(50, 95-age*2.5)
		out[string(model.TypeReliability)] = clampPct(round2(base * (1 - riskScore/150)))
	}
	if t.Covers(model.TypeFuelEfficiency) {
		base := math.Max(60, 90-age*1.8)
		out[string(model.TypeFuelEfficiency)] = clampPct(round2(base * (1 - riskScore/200)))
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
