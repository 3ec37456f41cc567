package test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/railfleet/locopredict/core/engine"
	coremetrics "github.com/railfleet/locopredict/core/metrics"
	"github.com/railfleet/locopredict/core/model"
	"github.com/railfleet/locopredict/infra/logger"
	"github.com/railfleet/locopredict/infra/metrics"
	"github.com/railfleet/locopredict/test/util"
)

// TestMetricsHTTPExposure runs one prediction through a Prometheus sink
// and checks that the counters surface on a scrape endpoint.
func TestMetricsHTTPExposure(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	eng := engine.New(nil, sink, logger.NopLogger{})
	loco := model.Locomotive{
		Number:            "DE10-001",
		Model:             "DE10",
		ManufacturingYear: 1992,
		OperatingHours:    52000,
		Status:            model.StatusActive,
	}
	if _, err := eng.Predict(loco, engine.Request{Type: model.TypeAll, HorizonDays: 30}); err != nil {
		t.Fatalf("predict: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), util.MetricTimeout)
	defer cancel()
	if err := util.WaitForMetric(ctx, srv.URL+"/metrics", "prediction_events_total"); err != nil {
		t.Fatal(err)
	}
	if err := util.WaitForMetric(ctx, srv.URL+"/metrics", "prediction_fallback_events_total"); err != nil {
		t.Fatal(err)
	}
}
