package model

import "fmt"

// PredictionType selects which performance metric a prediction targets.
// TypeAll requests every metric in a single call.
type PredictionType string

const (
	TypeAll               PredictionType = "all"
	TypeAvailabilityDays  PredictionType = "availability_days"
	TypeDistanceTravelled PredictionType = "distance_travelled"
	TypeDistancePerDay    PredictionType = "distance_per_day"
	TypeTotalFailures     PredictionType = "total_failures"
	TypeReliability       PredictionType = "reliability"
	TypeFuelEfficiency    PredictionType = "fuel_efficiency"
)

// PredictionTypes lists every accepted prediction type.
func PredictionTypes() []PredictionType {
	return []PredictionType{
		TypeAll,
		TypeAvailabilityDays,
		TypeDistanceTravelled,
		TypeDistancePerDay,
		TypeTotalFailures,
		TypeReliability,
		TypeFuelEfficiency,
	}
}

// Validate checks that the type is one of the accepted values.
func (t PredictionType) Validate() error {
	for _, known := range PredictionTypes() {
		if t == known {
			return nil
		}
	}
	return fmt.Errorf("unknown prediction type %q", t)
}

// Covers reports whether a prediction of this type includes the given
// metric. TypeAll covers every metric.
func (t PredictionType) Covers(metric PredictionType) bool {
	return t == TypeAll || t == metric
}

// RiskLevel buckets a risk score for operational decisions.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskLevelFor classifies a risk score: 70 and above is High, 40 and
// above is Medium, anything below is Low.
func RiskLevelFor(score float64) RiskLevel {
	switch {
	case score >= 70:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ReliabilityCategory buckets a reliability percentage.
type ReliabilityCategory string

const (
	ReliabilityHigh     ReliabilityCategory = "High"
	ReliabilityMedium   ReliabilityCategory = "Medium"
	ReliabilityLow      ReliabilityCategory = "Low"
	ReliabilityCritical ReliabilityCategory = "Critical"
)

// ReliabilityCategoryFor buckets a reliability percentage: 90 and above
// is High, 75 Medium, 60 Low, anything below Critical.
func ReliabilityCategoryFor(reliability float64) ReliabilityCategory {
	switch {
	case reliability >= 90:
		return ReliabilityHigh
	case reliability >= 75:
		return ReliabilityMedium
	case reliability >= 60:
		return ReliabilityLow
	default:
		return ReliabilityCritical
	}
}

// AgeCategory buckets a locomotive age in years.
type AgeCategory string

const (
	AgeNew    AgeCategory = "New"
	AgeYoung  AgeCategory = "Young"
	AgeMature AgeCategory = "Mature"
	AgeOld    AgeCategory = "Old"
)

// AgeCategoryFor buckets an age: up to 5 years is New, up to 10 Young,
// up to 20 Mature, anything older Old.
func AgeCategoryFor(age int) AgeCategory {
	switch {
	case age <= 5:
		return AgeNew
	case age <= 10:
		return AgeYoung
	case age <= 20:
		return AgeMature
	default:
		return AgeOld
	}
}

// Method identifies which prediction path produced a result.
type Method string

const (
	MethodModel    Method = "ML Performance Model"
	MethodFallback Method = "Fallback Method"
)

// Prediction is the result of a single prediction call. It is
// constructed fresh on every call and owned by the caller once returned.
type Prediction struct {
	Type            PredictionType      `json:"prediction_type"`
	PeriodDays      int                 `json:"period_days"`
	RiskScore       float64             `json:"risk_score"`
	RiskLevel       RiskLevel           `json:"risk_level"`
	Reliability     ReliabilityCategory `json:"reliability_category"`
	Predictions     map[string]float64  `json:"predictions"`
	Recommendations []string            `json:"recommendations"`
	Method          Method              `json:"prediction_method"`
	Timestamp       string              `json:"timestamp"` // ISO-8601
}
