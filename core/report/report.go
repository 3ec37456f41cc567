// Package report builds fleet-wide summaries from locomotive snapshots.
// Reports are pure functions of the snapshot list and the reference time;
// they hold no state and are safe to call concurrently.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/railfleet/locopredict/core/model"
)

// FleetStats counts locomotives per operational status.
type FleetStats struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Maintenance int `json:"maintenance"`
	Repair      int `json:"repair"`
	Retired     int `json:"retired"`
}

// Overview is the fleet composition report.
type Overview struct {
	Title             string         `json:"title"`
	GeneratedAt       time.Time      `json:"generated_at"`
	Stats             FleetStats     `json:"fleet_stats"`
	ModelDistribution map[string]int `json:"model_distribution"`
	AgeGroups         map[string]int `json:"age_groups"`
}

// FleetOverview summarizes the fleet by status, model and age group. Age
// groups are always present in the result, even when empty.
func FleetOverview(locos []model.Locomotive, at time.Time) Overview {
	o := Overview{
		Title:             "Fleet Overview Report",
		GeneratedAt:       at,
		ModelDistribution: map[string]int{},
		AgeGroups:         map[string]int{"0-10": 0, "11-20": 0, "21-30": 0, "30+": 0},
	}
	for _, l := range locos {
		o.Stats.Total++
		switch l.Status {
		case model.StatusActive:
			o.Stats.Active++
		case model.StatusMaintenance:
			o.Stats.Maintenance++
		case model.StatusRepair:
			o.Stats.Repair++
		case model.StatusRetired:
			o.Stats.Retired++
		}
		o.ModelDistribution[l.Model]++
		switch age := l.Age(at); {
		case age <= 10:
			o.AgeGroups["0-10"]++
		case age <= 20:
			o.AgeGroups["11-20"]++
		case age <= 30:
			o.AgeGroups["21-30"]++
		default:
			o.AgeGroups["30+"]++
		}
	}
	return o
}

// ForecastEntry is one locomotive's failure outlook.
type ForecastEntry struct {
	LocomotiveNumber string          `json:"locomotive_number"`
	Model            string          `json:"model"`
	RiskScore        float64         `json:"risk_score"`
	RiskLevel        model.RiskLevel `json:"risk_level"`
	Recommendations  []string        `json:"recommendations"`
}

// Forecast ranks the fleet by failure risk, highest first.
type Forecast struct {
	Title       string          `json:"title"`
	GeneratedAt time.Time       `json:"generated_at"`
	Entries     []ForecastEntry `json:"risk_assessment"`
}

// FailureForecast scores every locomotive with the report-local risk
// weighting and sorts the result by descending score. The weighting is
// intentionally distinct from the prediction engine's formulas: hours
// count at full value up to 30 points and a missing service record adds
// nothing here instead of a fixed penalty.
func FailureForecast(locos []model.Locomotive, at time.Time) Forecast {
	f := Forecast{Title: "Failure Predictions Report", GeneratedAt: at}
	for _, l := range locos {
		score := forecastRisk(l, at)
		f.Entries = append(f.Entries, ForecastEntry{
			LocomotiveNumber: l.Number,
			Model:            l.Model,
			RiskScore:        math.Round(score*10) / 10,
			RiskLevel:        model.RiskLevelFor(score),
			Recommendations:  forecastRecommendations(l, at),
		})
	}
	sort.Slice(f.Entries, func(i, j int) bool {
		if f.Entries[i].RiskScore == f.Entries[j].RiskScore {
			return f.Entries[i].LocomotiveNumber < f.Entries[j].LocomotiveNumber
		}
		return f.Entries[i].RiskScore > f.Entries[j].RiskScore
	})
	return f
}

func forecastRisk(l model.Locomotive, at time.Time) float64 {
	ageFactor := math.Min(50, float64(l.Age(at))*2)
	hoursFactor := math.Min(30, l.OperatingHours/1000)
	maintenanceFactor := 0.0
	if days, ok := l.DaysSinceMaintenance(at); ok {
		maintenanceFactor = math.Min(20, float64(days)/3)
	}
	return math.Min(100, ageFactor+hoursFactor+maintenanceFactor)
}

func forecastRecommendations(l model.Locomotive, at time.Time) []string {
	var recs []string
	if l.Age(at) > 20 {
		recs = append(recs, "Engine overhaul recommended")
	}
	if l.OperatingHours > 50000 {
		recs = append(recs, "Transmission service required")
	}
	if days, ok := l.DaysSinceMaintenance(at); !ok || days > 90 {
		recs = append(recs, "Routine maintenance overdue")
	}
	return recs
}

// ScheduleEntry is one locomotive's place in the maintenance queue.
type ScheduleEntry struct {
	LocomotiveNumber string         `json:"locomotive_number"`
	Model            string         `json:"model"`
	DaysSince        int            `json:"days_since_maintenance"`
	Serviced         bool           `json:"serviced"`
	Priority         model.Priority `json:"priority"`
}

// Schedule orders the fleet by maintenance priority, most urgent first.
type Schedule struct {
	Title       string          `json:"title"`
	GeneratedAt time.Time       `json:"generated_at"`
	Due         []ScheduleEntry `json:"maintenance_due"`
}

// MaintenanceSchedule classifies every locomotive by maintenance urgency.
// Age and hours set a base priority; a service record older than 30 or 60
// days overrides it.
func MaintenanceSchedule(locos []model.Locomotive, at time.Time) Schedule {
	s := Schedule{Title: "Maintenance Schedule Report", GeneratedAt: at}
	for _, l := range locos {
		days, serviced := l.DaysSinceMaintenance(at)

		priority := model.PriorityLow
		switch age := l.Age(at); {
		case age > 25 || l.OperatingHours > 50000:
			priority = model.PriorityHigh
		case age > 20 || l.OperatingHours > 40000:
			priority = model.PriorityMedium
		}
		if serviced {
			switch {
			case days > 60:
				priority = model.PriorityHigh
			case days > 30:
				priority = model.PriorityMedium
			}
		}

		s.Due = append(s.Due, ScheduleEntry{
			LocomotiveNumber: l.Number,
			Model:            l.Model,
			DaysSince:        days,
			Serviced:         serviced,
			Priority:         priority,
		})
	}
	sort.SliceStable(s.Due, func(i, j int) bool {
		return priorityRank(s.Due[i].Priority) < priorityRank(s.Due[j].Priority)
	})
	return s
}

func priorityRank(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return 1
	case model.PriorityMedium:
		return 2
	default:
		return 3
	}
}

// UtilizationBand coarsely grades a utilization rate.
type UtilizationBand string

const (
	UtilizationHigh   UtilizationBand = "High"
	UtilizationMedium UtilizationBand = "Medium"
	UtilizationLow    UtilizationBand = "Low"
)

// UtilizationEntry is one locomotive's utilization estimate.
type UtilizationEntry struct {
	LocomotiveNumber string          `json:"locomotive_number"`
	Model            string          `json:"model"`
	Rate             float64         `json:"utilization_rate"`
	Band             UtilizationBand `json:"status"`
}

// Utilization ranks the fleet by estimated utilization, highest first.
type Utilization struct {
	Title       string             `json:"title"`
	GeneratedAt time.Time          `json:"generated_at"`
	Entries     []UtilizationEntry `json:"utilization_data"`
}

// UtilizationAnalysis estimates how much working capacity each locomotive
// retains: 80 percent and above grades High, 60 and above Medium.
func UtilizationAnalysis(locos []model.Locomotive, at time.Time) Utilization {
	u := Utilization{Title: "Utilization Analysis Report", GeneratedAt: at}
	for _, l := range locos {
		rate := math.Min(100, math.Max(0, 100-float64(l.Age(at))*2-l.OperatingHours/1000))
		rate = math.Round(rate*10) / 10

		band := UtilizationLow
		switch {
		case rate >= 80:
			band = UtilizationHigh
		case rate >= 60:
			band = UtilizationMedium
		}
		u.Entries = append(u.Entries, UtilizationEntry{
			LocomotiveNumber: l.Number,
			Model:            l.Model,
			Rate:             rate,
			Band:             band,
		})
	}
	sort.Slice(u.Entries, func(i, j int) bool {
		if u.Entries[i].Rate == u.Entries[j].Rate {
			return u.Entries[i].LocomotiveNumber < u.Entries[j].LocomotiveNumber
		}
		return u.Entries[i].Rate > u.Entries[j].Rate
	})
	return u
}
