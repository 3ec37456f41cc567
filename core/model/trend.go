package model

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// TrendSeries holds day-by-day performance and risk projections for
// charting. Values carry deliberate random noise, so two series for the
// same snapshot differ unless the generator is seeded identically.
type TrendSeries struct {
	Labels      []string  `json:"labels"`
	Performance []float64 `json:"performance"`
	Risk        []float64 `json:"risk"`
}

// GenerateTrend projects daily performance and risk over the given number
// of days. Performance drifts down from an age/usage baseline, risk drifts
// up from the additive risk score, both with uniform noise drawn from rng.
func GenerateTrend(loco Locomotive, days int, at time.Time, rng *rand.Rand) TrendSeries {
	series := TrendSeries{
		Labels:      make([]string, 0, days),
		Performance: make([]float64, 0, days),
		Risk:        make([]float64, 0, days),
	}

	basePerformance := 90 - float64(loco.Age(at))*1.5 - loco.OperatingHours/10000
	baseRisk := loco.RiskScore(at)

	for i := 0; i < days; i++ {
		day := float64(i + 1)
		series.Labels = append(series.Labels, fmt.Sprintf("Day %d", i+1))

		performance := math.Max(20, basePerformance-day*0.3+uniform(rng, -5, 5))
		series.Performance = append(series.Performance, round1(performance))

		risk := math.Min(95, baseRisk+day*0.2+uniform(rng, -2, 2))
		series.Risk = append(series.Risk, round1(risk))
	}
	return series
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
