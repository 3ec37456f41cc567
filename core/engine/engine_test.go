package engine

import (
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/railfleet/locopredict/core/artifacts"
	"github.com/railfleet/locopredict/core/features"
	"github.com/railfleet/locopredict/core/metrics"
	"github.com/railfleet/locopredict/core/model"
	"github.com/railfleet/locopredict/infra/logger"
)

var engineNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

// testBundle builds an in-memory bundle whose regressor always returns
// rawRisk (zero coefficients, intercept only) and whose classifier always
// picks code 3, the Medium reliability class.
func testBundle(rawRisk float64) *artifacts.Bundle {
	scale := make([]float64, features.Count)
	for i := range scale {
		scale[i] = 1
	}
	rows := make([][]float64, 4)
	for i := range rows {
		rows[i] = make([]float64, features.Count)
	}
	return &artifacts.Bundle{
		Scaler:    &artifacts.Scaler{Mean: make([]float64, features.Count), Scale: scale},
		RiskModel: &artifacts.LinearModel{Coefficients: make([]float64, features.Count), Intercept: rawRisk},
		ReliabilityModel: &artifacts.LinearClassifier{
			Classes:      []int{0, 1, 2, 3},
			Coefficients: rows,
			Intercepts:   []float64{0, 0, 0, 1},
		},
		FleetEncoder:       &artifacts.LabelEncoder{Classes: []string{"Hired", "NRZ"}},
		ReliabilityEncoder: &artifacts.LabelEncoder{Classes: []string{"Critical", "High", "Low", "Medium"}},
		AgeEncoder:         &artifacts.LabelEncoder{Classes: []string{"Mature", "New", "Old", "Young"}},
		Columns:            features.Columns(),
	}
}

type captureSink struct {
	mu          sync.Mutex
	predictions []metrics.PredictionEvent
	fallbacks   []metrics.FallbackEvent
	batches     []metrics.BatchEvent
}

func (s *captureSink) RecordPrediction(ev metrics.PredictionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.predictions = append(s.predictions, ev)
	return nil
}

func (s *captureSink) RecordFallback(ev metrics.FallbackEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallbacks = append(s.fallbacks, ev)
	return nil
}

func (s *captureSink) RecordBatch(ev metrics.BatchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, ev)
	return nil
}

func newTestEngine(b *artifacts.Bundle, sink metrics.PredictionSink) *Engine {
	e := New(b, sink, logger.NopLogger{})
	e.now = func() time.Time { return engineNow }
	return e
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPredictModelPath(t *testing.T) {
	loco := model.Locomotive{
		Number:            "DE10-1042",
		Model:             "DE10",
		ManufacturingYear: 2015,
		OperatingHours:    20000,
		LastMaintenance:   engineNow.AddDate(0, 0, -30),
		Status:            model.StatusActive,
	}
	e := newTestEngine(testBundle(3), nil)

	p, err := e.Predict(loco, Request{Type: model.TypeAll, HorizonDays: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Method != model.MethodModel {
		t.Fatalf("expected model method got %v", p.Method)
	}
	// raw 3 < 10: 3*8 + 10*1.5 + 20*0.3 = 45
	if p.RiskScore != 45 {
		t.Fatalf("expected risk score 45 got %v", p.RiskScore)
	}
	if p.RiskLevel != model.RiskMedium {
		t.Fatalf("expected Medium got %v", p.RiskLevel)
	}
	if p.Reliability != model.ReliabilityMedium {
		t.Fatalf("expected Medium reliability got %v", p.Reliability)
	}
	if p.PeriodDays != 30 || p.Type != model.TypeAll {
		t.Fatalf("request echo mismatch: %+v", p)
	}
	if p.Timestamp != engineNow.Format(time.RFC3339) {
		t.Fatalf("unexpected timestamp %q", p.Timestamp)
	}
	if len(p.Predictions) != 6 {
		t.Fatalf("expected 6 metrics got %v", p.Predictions)
	}
	// age 10: floor(max(250, 365-80) * (1 - 45/200)) = floor(220.875)
	if got := p.Predictions["availability_days"]; got != 220 {
		t.Fatalf("expected availability 220 got %v", got)
	}
	// floor((10*0.5 + 20000/15000) * 1.45) = floor(9.183...)
	if got := p.Predictions["total_failures"]; got != 9 {
		t.Fatalf("expected failures 9 got %v", got)
	}
	if got := p.Predictions["reliability"]; !almostEqual(got, 49) {
		t.Fatalf("expected reliability 49 got %v", got)
	}
	if got := p.Predictions["fuel_efficiency"]; !almostEqual(got, 55.8) {
		t.Fatalf("expected fuel efficiency 55.8 got %v", got)
	}
	if got := p.Predictions["distance_per_day"]; !almostEqual(got, 93) {
		t.Fatalf("expected distance per day 93 got %v", got)
	}
	if len(p.Recommendations) < 1 || len(p.Recommendations) > 6 {
		t.Fatalf("recommendation count %d out of range", len(p.Recommendations))
	}
}

func TestPredictRescaleHighRawScore(t *testing.T) {
	loco := model.Locomotive{
		Number:            "DE11-204",
		Model:             "DE11",
		ManufacturingYear: 2015,
		OperatingHours:    20000,
		LastMaintenance:   engineNow.AddDate(0, 0, -30),
	}
	e := newTestEngine(testBundle(20), nil)
	p, err := e.Predict(loco, Request{Type: model.TypeReliability, HorizonDays: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// raw 20 >= 10: 20*2 + 10*0.5 = 45
	if p.RiskScore != 45 {
		t.Fatalf("expected risk score 45 got %v", p.RiskScore)
	}
}

func TestPredictFallbackWithoutBundle(t *testing.T) {
	loco := model.Locomotive{
		Number:            "DE10-7",
		Model:             "DE10",
		ManufacturingYear: 2015,
		OperatingHours:    20000,
		LastMaintenance:   engineNow.AddDate(0, 0, -50),
	}
	sink := &captureSink{}
	e := newTestEngine(nil, sink)

	p, err := e.Predict(loco, Request{Type: model.TypeAll, HorizonDays: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Method != model.MethodFallback {
		t.Fatalf("expected fallback method got %v", p.Method)
	}
	if p.RiskScore != loco.RiskScore(engineNow) {
		t.Fatalf("expected additive score %v got %v", loco.RiskScore(engineNow), p.RiskScore)
	}
	if p.Reliability != model.ReliabilityMedium {
		t.Fatalf("fallback reliability must be Medium, got %v", p.Reliability)
	}
	if len(p.Predictions) != 6 {
		t.Fatalf("fallback must keep the full schema, got %v", p.Predictions)
	}
	if len(sink.fallbacks) != 1 || sink.fallbacks[0].Reason != "artifact bundle unavailable" {
		t.Fatalf("expected one fallback event, got %+v", sink.fallbacks)
	}
	if len(sink.predictions) != 1 {
		t.Fatalf("expected one prediction event, got %d", len(sink.predictions))
	}
}

func TestPredictFallbackOnUnseenFleet(t *testing.T) {
	loco := model.Locomotive{
		Number:            "DE10-9",
		Model:             "DE10",
		ManufacturingYear: 2018,
		OperatingHours:    5000,
		Fleet:             "Borrowed",
		LastMaintenance:   engineNow.AddDate(0, 0, -10),
	}
	sink := &captureSink{}
	e := newTestEngine(testBundle(3), sink)

	p, err := e.Predict(loco, Request{Type: model.TypeReliability, HorizonDays: 14})
	if err != nil {
		t.Fatalf("derivation failures must not surface: %v", err)
	}
	if p.Method != model.MethodFallback {
		t.Fatalf("expected fallback method got %v", p.Method)
	}
	if len(sink.fallbacks) != 1 {
		t.Fatalf("expected a recorded fallback, got %+v", sink.fallbacks)
	}
}

func TestPredictCallerErrors(t *testing.T) {
	e := newTestEngine(testBundle(3), nil)
	good := model.Locomotive{Number: "DE10-1", Model: "DE10", ManufacturingYear: 2020}

	if _, err := e.Predict(good, Request{Type: "horsepower", HorizonDays: 30}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if _, err := e.Predict(good, Request{Type: model.TypeAll, HorizonDays: 0}); err == nil {
		t.Fatalf("expected error for zero horizon")
	}
	if _, err := e.Predict(model.Locomotive{}, Request{Type: model.TypeAll, HorizonDays: 30}); err == nil {
		t.Fatalf("expected error for invalid snapshot")
	}
}

func TestPredictIdempotent(t *testing.T) {
	loco := model.Locomotive{
		Number:            "DE10-2",
		Model:             "DE10",
		ManufacturingYear: 2012,
		OperatingHours:    41000,
		LastMaintenance:   engineNow.AddDate(0, 0, -75),
	}
	e := newTestEngine(testBundle(7), nil)
	req := Request{Type: model.TypeAll, HorizonDays: 60}

	a, err := e.Predict(loco, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := e.Predict(loco, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.RiskScore != b.RiskScore || a.RiskLevel != b.RiskLevel || a.Reliability != b.Reliability {
		t.Fatalf("identical calls diverged: %+v vs %+v", a, b)
	}
	for k, v := range a.Predictions {
		if b.Predictions[k] != v {
			t.Fatalf("metric %s diverged: %v vs %v", k, v, b.Predictions[k])
		}
	}
}

func TestPredictScenarioOldNeglectedUnit(t *testing.T) {
	loco := model.Locomotive{
		Number:            "DE10-3",
		Model:             "DE10",
		ManufacturingYear: engineNow.Year() - 30,
		OperatingHours:    60000,
	}
	e := newTestEngine(nil, nil)
	p, err := e.Predict(loco, Request{Type: model.TypeAll, HorizonDays: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.RiskLevel != model.RiskHigh {
		t.Fatalf("expected High got %v", p.RiskLevel)
	}
	if !strings.Contains(p.Recommendations[0], "URGENT") {
		t.Fatalf("expected urgent statement got %q", p.Recommendations[0])
	}
}

func TestPredictScenarioYoungServicedUnit(t *testing.T) {
	loco := model.Locomotive{
		Number:            "DE11-8",
		Model:             "DE11",
		ManufacturingYear: engineNow.Year() - 2,
		OperatingHours:    500,
		LastMaintenance:   engineNow,
	}
	e := newTestEngine(nil, nil)
	p, err := e.Predict(loco, Request{Type: model.TypeAll, HorizonDays: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.RiskLevel != model.RiskLow {
		t.Fatalf("expected Low got %v", p.RiskLevel)
	}
	if p.Reliability != model.ReliabilityHigh && p.Reliability != model.ReliabilityMedium {
		t.Fatalf("expected High or Medium reliability got %v", p.Reliability)
	}
	if !strings.Contains(p.Recommendations[0], "good operational condition") {
		t.Fatalf("expected good condition statement got %q", p.Recommendations[0])
	}
}

func TestRescaleBounds(t *testing.T) {
	if got := rescale(0, 0, 0); got != 5 {
		t.Fatalf("expected floor 5 got %v", got)
	}
	if got := rescale(60, 40, 90000); got != 100 {
		t.Fatalf("expected cap 100 got %v", got)
	}
}
