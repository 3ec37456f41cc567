package scenarios

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/railfleet/locopredict/core/model"
)

type LocomotiveDef struct {
	Number                 string  `yaml:"number"`
	Model                  string  `yaml:"model"`
	Fleet                  string  `yaml:"fleet,omitempty"`
	AgeYears               int     `yaml:"age_years"`
	OperatingHours         float64 `yaml:"operating_hours"`
	Status                 string  `yaml:"status,omitempty"`
	LastMaintenanceDaysAgo int     `yaml:"last_maintenance_days_ago,omitempty"`
}

// ToModel materialises the definition as a snapshot anchored at the given
// reference time. Ages and maintenance offsets are relative so scenario
// files stay valid from one year to the next; a zero
// last_maintenance_days_ago means the unit has no service record.
func (l LocomotiveDef) ToModel(at time.Time) model.Locomotive {
	loco := model.Locomotive{
		Number:            l.Number,
		Model:             l.Model,
		Fleet:             l.Fleet,
		ManufacturingYear: at.Year() - l.AgeYears,
		OperatingHours:    l.OperatingHours,
		Status:            parseStatus(l.Status),
	}
	if l.LastMaintenanceDaysAgo > 0 {
		loco.LastMaintenance = at.AddDate(0, 0, -l.LastMaintenanceDaysAgo)
	}
	return loco
}

type RequestDef struct {
	Type       string `yaml:"type,omitempty"`
	PeriodDays int    `yaml:"period_days,omitempty"`
}

type Expected struct {
	RiskLevels  map[string]string `yaml:"risk_levels"`
	Method      string            `yaml:"method,omitempty"`
	Reliability map[string]string `yaml:"reliability,omitempty"`
}

type Scenario struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Locomotives []LocomotiveDef `yaml:"locomotives"`
	Request     RequestDef      `yaml:"request,omitempty"`
	Expected    Expected        `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func parseStatus(s string) model.Status {
	switch s {
	case "active":
		return model.StatusActive
	case "maintenance":
		return model.StatusMaintenance
	case "repair":
		return model.StatusRepair
	case "retired":
		return model.StatusRetired
	default:
		return model.StatusActive
	}
}
