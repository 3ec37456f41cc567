package model

import (
	"fmt"
	"time"
)

// Priority ranks how urgently a maintenance action should be scheduled.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// CostBand is a coarse cost estimate for a planned maintenance action.
type CostBand string

const (
	CostHigh   CostBand = "High"
	CostMedium CostBand = "Medium"
	CostLow    CostBand = "Low"
)

// MaintenanceItem is a single recommended maintenance action derived from
// the snapshot's risk factors.
type MaintenanceItem struct {
	Type        string   `json:"type"`
	Priority    Priority `json:"priority"`
	Description string   `json:"description"`
}

// MaintenanceRecommendations lists the actions suggested by the snapshot,
// in evaluation order: engine overhaul past 20 years (high priority past
// 25), transmission service past 50000 hours, routine maintenance when the
// service record is missing or older than 90 days, and a comprehensive
// inspection when the risk score exceeds 60.
func (l Locomotive) MaintenanceRecommendations(at time.Time) []MaintenanceItem {
	var items []MaintenanceItem

	if age := l.Age(at); age > 20 {
		priority := PriorityMedium
		if age > 25 {
			priority = PriorityHigh
		}
		items = append(items, MaintenanceItem{
			Type:        "Engine Overhaul",
			Priority:    priority,
			Description: "Consider major engine overhaul due to age",
		})
	}
	if l.OperatingHours > 50000 {
		items = append(items, MaintenanceItem{
			Type:        "Transmission Service",
			Priority:    PriorityHigh,
			Description: "Transmission requires major service",
		})
	}
	if days, ok := l.DaysSinceMaintenance(at); !ok || days > 90 {
		items = append(items, MaintenanceItem{
			Type:        "Routine Maintenance",
			Priority:    PriorityHigh,
			Description: "Overdue for routine maintenance",
		})
	}
	if l.RiskScore(at) > 60 {
		items = append(items, MaintenanceItem{
			Type:        "Comprehensive Inspection",
			Priority:    PriorityHigh,
			Description: "Full system inspection recommended",
		})
	}
	return items
}

// PlanItem is a maintenance action enriched with a cost band and a target
// timeframe, suitable for schedule planning.
type PlanItem struct {
	Type          string   `json:"type"`
	Priority      Priority `json:"priority"`
	Description   string   `json:"description"`
	EstimatedCost CostBand `json:"estimated_cost"`
	Timeframe     string   `json:"timeframe"`
}

// MaintenancePlan builds the tiered maintenance plan for the snapshot.
// Age and usage each contribute at most one item (the more severe tier
// wins), the maintenance history contributes one, and a risk score above
// 70 adds a comprehensive inspection.
func (l Locomotive) MaintenancePlan(at time.Time) []PlanItem {
	var items []PlanItem

	if age := l.Age(at); age > 25 {
		items = append(items, PlanItem{
			Type:          "Major Overhaul",
			Priority:      PriorityHigh,
			Description:   "Locomotive age exceeds 25 years - major overhaul recommended",
			EstimatedCost: CostHigh,
			Timeframe:     "30-60 days",
		})
	} else if age > 20 {
		items = append(items, PlanItem{
			Type:          "Engine Inspection",
			Priority:      PriorityMedium,
			Description:   "Comprehensive engine inspection due to age",
			EstimatedCost: CostMedium,
			Timeframe:     "7-14 days",
		})
	}

	if l.OperatingHours > 60000 {
		items = append(items, PlanItem{
			Type:          "Transmission Overhaul",
			Priority:      PriorityHigh,
			Description:   "High operating hours - transmission overhaul needed",
			EstimatedCost: CostHigh,
			Timeframe:     "14-30 days",
		})
	} else if l.OperatingHours > 40000 {
		items = append(items, PlanItem{
			Type:          "Transmission Service",
			Priority:      PriorityMedium,
			Description:   "Transmission service recommended",
			EstimatedCost: CostMedium,
			Timeframe:     "3-7 days",
		})
	}

	if days, ok := l.DaysSinceMaintenance(at); !ok {
		items = append(items, PlanItem{
			Type:          "Routine Maintenance",
			Priority:      PriorityHigh,
			Description:   "No maintenance record - immediate inspection needed",
			EstimatedCost: CostLow,
			Timeframe:     "1-3 days",
		})
	} else if days > 90 {
		items = append(items, PlanItem{
			Type:          "Overdue Maintenance",
			Priority:      PriorityHigh,
			Description:   fmt.Sprintf("Maintenance overdue by %d days", days-90),
			EstimatedCost: CostMedium,
			Timeframe:     "1-7 days",
		})
	} else if days > 60 {
		items = append(items, PlanItem{
			Type:          "Scheduled Maintenance",
			Priority:      PriorityMedium,
			Description:   "Routine maintenance due soon",
			EstimatedCost: CostLow,
			Timeframe:     "7-14 days",
		})
	}

	if l.RiskScore(at) > 70 {
		items = append(items, PlanItem{
			Type:          "Comprehensive Inspection",
			Priority:      PriorityHigh,
			Description:   "High risk score - comprehensive inspection required",
			EstimatedCost: CostMedium,
			Timeframe:     "3-7 days",
		})
	}
	return items
}
