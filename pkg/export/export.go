package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/railfleet/locopredict/core/engine"
	"github.com/railfleet/locopredict/core/report"
)

// WriteJSON writes any report or result set to w in JSON format.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	return enc.Encode(v)
}

// WriteForecastCSV writes the failure forecast to w in CSV format,
// keeping the ranking order.
func WriteForecastCSV(w io.Writer, f report.Forecast) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"locomotive_number", "model", "risk_score", "risk_level", "recommendations"}); err != nil {
		return err
	}
	for _, e := range f.Entries {
		rec := []string{
			e.LocomotiveNumber,
			e.Model,
			strconv.FormatFloat(e.RiskScore, 'f', -1, 64),
			string(e.RiskLevel),
			strings.Join(e.Recommendations, "; "),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteScheduleCSV writes the maintenance schedule to w in CSV format.
// Locomotives without a service record carry an empty days column.
func WriteScheduleCSV(w io.Writer, s report.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"locomotive_number", "model", "days_since_maintenance", "priority"}); err != nil {
		return err
	}
	for _, e := range s.Due {
		days := ""
		if e.Serviced {
			days = strconv.Itoa(e.DaysSince)
		}
		rec := []string{
			e.LocomotiveNumber,
			e.Model,
			days,
			string(e.Priority),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteUtilizationCSV writes the utilization analysis to w in CSV format.
func WriteUtilizationCSV(w io.Writer, u report.Utilization) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"locomotive_number", "model", "utilization_rate", "status"}); err != nil {
		return err
	}
	for _, e := range u.Entries {
		rec := []string{
			e.LocomotiveNumber,
			e.Model,
			strconv.FormatFloat(e.Rate, 'f', -1, 64),
			string(e.Band),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBatchCSV writes bulk prediction results to w in CSV format. A
// failed item carries its error in the last column and empty metrics.
func WriteBatchCSV(w io.Writer, items []engine.BatchItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"locomotive_number", "prediction_type", "risk_score", "risk_level", "reliability_category", "prediction_method", "error"}); err != nil {
		return err
	}
	for _, it := range items {
		rec := []string{it.LocomotiveNumber, "", "", "", "", "", ""}
		if it.Err != nil {
			rec[6] = it.Err.Error()
		} else {
			p := it.Prediction
			rec[1] = string(p.Type)
			rec[2] = strconv.FormatFloat(p.RiskScore, 'f', -1, 64)
			rec[3] = string(p.RiskLevel)
			rec[4] = string(p.Reliability)
			rec[5] = string(p.Method)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
