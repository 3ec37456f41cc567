package model

import (
	"fmt"
	"math"
	"time"
)

// Status describes the operational state of a locomotive.
type Status string

const (
	StatusActive      Status = "active"
	StatusMaintenance Status = "maintenance"
	StatusRepair      Status = "repair"
	StatusRetired     Status = "retired"
)

// Display returns the human-readable form of the status.
func (s Status) Display() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusMaintenance:
		return "Under Maintenance"
	case StatusRepair:
		return "Repair Required"
	case StatusRetired:
		return "Retired"
	default:
		return string(s)
	}
}

// Valid reports whether the status is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusMaintenance, StatusRepair, StatusRetired:
		return true
	default:
		return false
	}
}

// DefaultFleet is assumed for snapshots that carry no fleet tag.
const DefaultFleet = "NRZ"

// Locomotive is a point-in-time snapshot of a fleet unit. Derived
// quantities such as age are computed on demand against an explicit
// reference time and are never stored.
type Locomotive struct {
	Number            string    // fleet-unique identifier, e.g. "DE10-1042"
	Model             string    // locomotive class, e.g. "DE10"
	Fleet             string    // owning fleet tag; empty means DefaultFleet
	ManufacturingYear int       // four-digit year the unit entered service
	OperatingHours    float64   // cumulative operating hours
	LastMaintenance   time.Time // zero value when no service record exists
	Status            Status
}

// Validate checks that the snapshot is usable as prediction input.
func (l Locomotive) Validate() error {
	if l.Number == "" {
		return fmt.Errorf("locomotive number is required")
	}
	if l.ManufacturingYear <= 0 {
		return fmt.Errorf("manufacturing year is required")
	}
	if l.OperatingHours < 0 {
		return fmt.Errorf("operating hours must not be negative")
	}
	if l.Status != "" && !l.Status.Valid() {
		return fmt.Errorf("unknown status %q", l.Status)
	}
	return nil
}

// FleetTag returns the fleet the unit belongs to, falling back to
// DefaultFleet when the snapshot carries none.
func (l Locomotive) FleetTag() string {
	if l.Fleet == "" {
		return DefaultFleet
	}
	return l.Fleet
}

// Age returns the locomotive age in calendar years at the given time.
func (l Locomotive) Age(at time.Time) int {
	return at.Year() - l.ManufacturingYear
}

// DaysSinceMaintenance returns the whole days elapsed since the last
// service and whether a service record exists at all.
func (l Locomotive) DaysSinceMaintenance(at time.Time) (int, bool) {
	if l.LastMaintenance.IsZero() {
		return 0, false
	}
	return int(at.Sub(l.LastMaintenance).Hours() / 24), true
}

// RiskScore computes the additive failure-risk score from age, usage and
// maintenance backlog. Age contributes up to 50 points, usage up to 30 and
// maintenance up to 20; a unit with no service record takes the full
// 20-point maintenance penalty. The result is capped at 100.
func (l Locomotive) RiskScore(at time.Time) float64 {
	ageRisk := math.Min(50, float64(l.Age(at))*2)
	usageRisk := math.Min(30, l.OperatingHours/1000*0.6)
	maintenanceRisk := 20.0
	if days, ok := l.DaysSinceMaintenance(at); ok {
		maintenanceRisk = math.Min(20, float64(days)*0.2)
	}
	return math.Min(100, ageRisk+usageRisk+maintenanceRisk)
}

// RiskLevel classifies the additive risk score.
func (l Locomotive) RiskLevel(at time.Time) RiskLevel {
	return RiskLevelFor(l.RiskScore(at))
}

// Reliability estimates the reliability percentage, degraded by age (up to
// 30), usage (up to 20), maintenance backlog (up to 15, or a flat 15 when
// no record exists) and the current operational status. Result in [0,100].
func (l Locomotive) Reliability(at time.Time) float64 {
	reliability := 100.0
	reliability -= math.Min(30, float64(l.Age(at))*1.5)
	reliability -= math.Min(20, l.OperatingHours/10000*2)
	if days, ok := l.DaysSinceMaintenance(at); ok {
		if days > 90 {
			reliability -= math.Min(15, float64(days-90)*0.1)
		}
	} else {
		reliability -= 15
	}
	switch l.Status {
	case StatusRepair:
		reliability -= 25
	case StatusMaintenance:
		reliability -= 10
	}
	return clamp(reliability, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
