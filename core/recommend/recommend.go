// Package recommend turns prediction outcomes into operational guidance.
// There is a single generator for every prediction path, so the wording
// cannot drift between single and bulk predictions.
package recommend

import (
	"time"

	"github.com/railfleet/locopredict/core/model"
)

// Limit caps the number of statements returned for a single prediction.
const Limit = 6

// Input carries the factors the generator keys off.
type Input struct {
	Type           model.PredictionType
	RiskLevel      model.RiskLevel
	Reliability    model.ReliabilityCategory
	AgeYears       int
	OperatingHours float64
	Month          time.Month
}

// Build returns an ordered list of 1 to Limit statements. The first one
// always states the risk level; the rest come from the table selected by
// the prediction type, truncated at Limit. Order is insertion order.
func Build(in Input) []string {
	recs := []string{basic(in.RiskLevel)}

	switch in.Type {
	case model.TypeAvailabilityDays:
		recs = append(recs, availability(in)...)
	case model.TypeDistanceTravelled:
		recs = append(recs, distance(in)...)
	case model.TypeDistancePerDay:
		recs = append(recs, dailyDistance(in)...)
	case model.TypeTotalFailures:
		recs = append(recs, failures(in)...)
	case model.TypeReliability:
		recs = append(recs, reliability(in)...)
	case model.TypeFuelEfficiency:
		recs = append(recs, fuelEfficiency(in)...)
	case model.TypeAll:
		// A digest: the leading statement of four representative tables.
		recs = append(recs, takeFirst(availability(in), 1)...)
		recs = append(recs, takeFirst(dailyDistance(in), 1)...)
		recs = append(recs, takeFirst(fuelEfficiency(in), 1)...)
		recs = append(recs, takeFirst(failures(in), 1)...)
	}

	if len(recs) == 1 {
		recs = append(recs, "✅ Continue regular maintenance and monitoring")
	}
	if len(recs) > Limit {
		recs = recs[:Limit]
	}
	return recs
}

func basic(level model.RiskLevel) string {
	switch level {
	case model.RiskHigh:
		return "🚨 URGENT: High risk detected. Schedule immediate inspection before operations."
	case model.RiskMedium:
		return "📅 Medium risk level. Monitor performance closely during operations."
	default:
		return "✅ Low risk level. Locomotive is in good operational condition."
	}
}

func availability(in Input) []string {
	var recs []string
	switch in.RiskLevel {
	case model.RiskHigh:
		recs = append(recs,
			"📉 LOW AVAILABILITY EXPECTED: Schedule extended maintenance downtime to improve reliability.",
			"🛠️ Multiple system checks required. Consider component replacement.")
	case model.RiskMedium:
		recs = append(recs,
			"📊 MODERATE AVAILABILITY: Plan maintenance during low-demand periods.",
			"🔍 Increase inspection frequency to prevent unexpected downtime.")
	default:
		recs = append(recs,
			"📈 HIGH AVAILABILITY EXPECTED: Continue current maintenance schedule.",
			"✅ Suitable for continuous operations and high-demand periods.")
	}
	if in.AgeYears > 20 {
		recs = append(recs, "⏰ AGED LOCOMOTIVE: Plan for increased maintenance windows due to age.")
	}
	return recs
}

func distance(in Input) []string {
	var recs []string
	switch in.RiskLevel {
	case model.RiskHigh:
		recs = append(recs,
			"🛤️ LIMITED DISTANCE CAPABILITY: Avoid long-distance routes (>500km).",
			"📉 Reduced operational range expected. Plan for shorter routes.")
	case model.RiskMedium:
		recs = append(recs,
			"🛤️ MODERATE DISTANCE CAPABILITY: Suitable for medium-distance routes (200-500km).",
			"📊 Monitor fuel consumption and system performance on longer routes.")
	default:
		recs = append(recs,
			"🛤️ HIGH DISTANCE CAPABILITY: Suitable for long-distance operations.",
			"✅ Can handle extended routes and heavy freight operations.")
	}
	if in.OperatingHours > 50000 {
		recs = append(recs, "⏱️ HIGH USAGE: Consider route planning to minimize wear on high-mileage components.")
	}
	return recs
}

func dailyDistance(in Input) []string {
	var recs []string
	switch in.RiskLevel {
	case model.RiskHigh:
		recs = append(recs,
			"📉 LOW DAILY DISTANCE: Limit to short-haul operations (<200km/day).",
			"🛠️ System performance issues affecting daily range. Schedule diagnostics.")
	case model.RiskMedium:
		recs = append(recs,
			"📊 MODERATE DAILY DISTANCE: Suitable for medium-haul operations (200-400km/day).",
			"🔍 Monitor daily performance metrics and fuel consumption.")
	default:
		recs = append(recs,
			"📈 HIGH DAILY DISTANCE: Capable of long-haul operations (>400km/day).",
			"✅ Optimal for high-intensity daily operations.")
	}
	if in.AgeYears > 20 {
		recs = append(recs, "⏰ AGED LOCOMOTIVE: Daily distance may be limited by component wear.")
	}
	return recs
}

func failures(in Input) []string {
	var recs []string
	switch in.RiskLevel {
	case model.RiskHigh:
		recs = append(recs,
			"⚠️ HIGH FAILURE RISK: Schedule comprehensive maintenance before operations.",
			"🚫 Avoid critical routes. Have backup locomotive ready.")
	case model.RiskMedium:
		recs = append(recs,
			"📊 MODERATE FAILURE RISK: Increase monitoring frequency during operations.",
			"🛠️ Schedule preventive maintenance to reduce failure probability.")
	default:
		recs = append(recs,
			"✅ LOW FAILURE RISK: Continue current maintenance practices.",
			"📈 Suitable for critical and time-sensitive operations.")
	}
	if in.AgeYears > 20 {
		recs = append(recs, "🔧 AGED LOCOMOTIVE: Higher failure risk due to component aging.")
	}
	if in.OperatingHours > 50000 {
		recs = append(recs, "⏱️ HIGH USAGE: Component fatigue may increase failure probability.")
	}
	return recs
}

func reliability(in Input) []string {
	var recs []string
	switch in.Reliability {
	case model.ReliabilityCritical:
		recs = append(recs,
			"🔴 CRITICAL RELIABILITY: Do not assign to critical routes or time-sensitive operations.",
			"🛠️ Schedule comprehensive diagnostic check. Multiple systems need attention.")
	case model.ReliabilityLow:
		recs = append(recs,
			"🟡 LOW RELIABILITY: Suitable for non-critical operations with backup plans.",
			"📋 Increase monitoring frequency. Prepare contingency plans.")
	default:
		recs = append(recs,
			"✅ HIGH RELIABILITY: Suitable for all types of operations.",
			"🚂 Optimal for critical routes and time-sensitive deliveries.")
	}
	if in.AgeYears > 20 {
		recs = append(recs, "⏰ AGED LOCOMOTIVE: Reliability may decrease due to component aging.")
	}
	return recs
}

func fuelEfficiency(in Input) []string {
	var recs []string
	switch {
	case in.AgeYears > 20 && in.OperatingHours > 50000:
		recs = append(recs,
			"⛽ POOR FUEL EFFICIENCY: Check engine tuning, air filters, and fuel injection systems.",
			"🚫 Avoid this locomotive for fuel-sensitive operations. Consider engine overhaul.")
	case in.AgeYears > 15 || in.OperatingHours > 40000:
		recs = append(recs,
			"⛽ MODERATE FUEL EFFICIENCY: Schedule engine tune-up and filter replacement.",
			"📈 Monitor fuel consumption closely. Consider driver training for fuel-efficient operation.")
	default:
		recs = append(recs,
			"⛽ GOOD FUEL EFFICIENCY: Continue current maintenance practices to maintain efficiency.",
			"✅ Suitable for fuel-sensitive operations and long-distance routes.")
	}
	switch in.Month {
	case time.December, time.January, time.February:
		recs = append(recs, "❄️ WINTER: Cold weather reduces fuel efficiency. Plan for increased consumption.")
	case time.June, time.July, time.August:
		recs = append(recs, "☀️ SUMMER: High temperatures may reduce fuel efficiency. Monitor cooling systems.")
	}
	return recs
}

func takeFirst(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}
