package scenarios

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/railfleet/locopredict/core/engine"
	coremetrics "github.com/railfleet/locopredict/core/metrics"
	"github.com/railfleet/locopredict/core/model"
	"github.com/railfleet/locopredict/infra/logger"
	"github.com/railfleet/locopredict/infra/metrics"
)

// RunScenario predicts every locomotive in the scenario and checks the
// outcome against the expectations. No artifact bundle is loaded, which
// pins the formula path, so the result depends only on the scenario file
// and the reference time.
func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sinkIf, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	sink, ok := sinkIf.(*metrics.PromSink)
	if !ok {
		t.Fatalf("expected *metrics.PromSink, got %T", sinkIf)
	}

	eng := engine.New(nil, sink, logger.NopLogger{})

	req := engine.Request{
		Type:        model.PredictionType(sc.Request.Type),
		HorizonDays: sc.Request.PeriodDays,
	}
	if sc.Request.Type == "" {
		req.Type = model.TypeAll
	}
	if req.HorizonDays == 0 {
		req.HorizonDays = 30
	}

	at := time.Now()
	for _, def := range sc.Locomotives {
		loco := def.ToModel(at)
		p, err := eng.Predict(loco, req)
		if err != nil {
			t.Fatalf("predict %s: %v", loco.Number, err)
		}
		if want, ok := sc.Expected.RiskLevels[loco.Number]; ok && string(p.RiskLevel) != want {
			t.Errorf("scenario %s: %s risk level %s, want %s", sc.Name, loco.Number, p.RiskLevel, want)
		}
		if sc.Expected.Method != "" && string(p.Method) != sc.Expected.Method {
			t.Errorf("scenario %s: %s method %s, want %s", sc.Name, loco.Number, p.Method, sc.Expected.Method)
		}
		if want, ok := sc.Expected.Reliability[loco.Number]; ok && string(p.Reliability) != want {
			t.Errorf("scenario %s: %s reliability %s, want %s", sc.Name, loco.Number, p.Reliability, want)
		}
	}
}
