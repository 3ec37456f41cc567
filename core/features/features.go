package features

import (
	"fmt"
	"math"
	"time"

	"github.com/railfleet/locopredict/core/model"
)

// Count is the width of the derived feature vector.
const Count = 21

var columns = []string{
	"LOCO_TYPE",
	"YEAR",
	"Availability_Days",
	"Distance_Travelled",
	"Distance_per_day",
	"Total_Failures",
	"Reliability",
	"Failure_Rate",
	"Age_of_Locomotive",
	"Usage_Intensity",
	"Maintenance_Frequency",
	"Fuel_Efficiency",
	"Operating_Hours",
	"Fleet_Type_Encoded",
	"Efficiency_Score",
	"Maintenance_Score",
	"Reliability_Category_Encoded",
	"Age_Category_Encoded",
	"Failure_Rate_per_Hour",
	"Distance_per_Hour",
	"Availability_Rate",
}

// Columns returns the feature names in the order the fitted models expect.
func Columns() []string {
	out := make([]string, Count)
	copy(out, columns)
	return out
}

// Encoders supplies the categorical encodings fitted alongside the models.
type Encoders interface {
	EncodeFleet(fleet string) (float64, error)
	EncodeReliability(cat model.ReliabilityCategory) (float64, error)
	EncodeAge(cat model.AgeCategory) (float64, error)
}

// DerivationError marks a snapshot whose categorical values are unknown to
// the fitted encoders. It triggers a per-call fallback, never a caller error.
type DerivationError struct {
	Field string
	Err   error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("derive %s: %v", e.Field, e.Err)
}

func (e *DerivationError) Unwrap() error { return e.Err }

// Derive builds the fixed-order feature vector for a snapshot. Every
// division guards its denominator with a floor of 1, so a unit with zero
// operating hours still yields finite features.
func Derive(loco model.Locomotive, enc Encoders, at time.Time) ([]float64, error) {
	age := float64(loco.Age(at))
	hours := loco.OperatingHours

	availabilityDays := math.Max(300, 365-age*5)
	distanceTravelled := hours * 50
	distancePerDay := distanceTravelled / 365
	totalFailures := math.Max(0, age*2+hours/10000)
	reliability := math.Max(60, 95-age*2-totalFailures*5)
	failureRate := totalFailures / math.Max(1, hours/1000)
	usageIntensity := hours / math.Max(1, age*365*24)
	maintenanceFrequency := math.Max(2, age*0.5)
	fuelEfficiency := math.Max(70, 90-age*1.5)
	efficiencyScore := (reliability + fuelEfficiency) / 2
	maintenanceScore := math.Max(60, 100-maintenanceFrequency*10)

	fleetEncoded, err := enc.EncodeFleet(loco.FleetTag())
	if err != nil {
		return nil, &DerivationError{Field: "fleet", Err: err}
	}
	reliabilityEncoded, err := enc.EncodeReliability(model.ReliabilityCategoryFor(reliability))
	if err != nil {
		return nil, &DerivationError{Field: "reliability category", Err: err}
	}
	ageEncoded, err := enc.EncodeAge(model.AgeCategoryFor(loco.Age(at)))
	if err != nil {
		return nil, &DerivationError{Field: "age category", Err: err}
	}

	failureRatePerHour := totalFailures / math.Max(1, hours)
	distancePerHour := distanceTravelled / math.Max(1, hours)
	availabilityRate := availabilityDays / 365

	return []float64{
		typeCode(loco.Model),
		float64(at.Year()),
		availabilityDays,
		distanceTravelled,
		distancePerDay,
		totalFailures,
		reliability,
		failureRate,
		age,
		usageIntensity,
		maintenanceFrequency,
		fuelEfficiency,
		hours,
		fleetEncoded,
		efficiencyScore,
		maintenanceScore,
		reliabilityEncoded,
		ageEncoded,
		failureRatePerHour,
		distancePerHour,
		availabilityRate,
	}, nil
}

// typeCode maps the locomotive class to its numeric model input.
// DE10 units are class 1, everything else class 2.
func typeCode(class string) float64 {
	if class == "DE10" {
		return 1
	}
	return 2
}
