package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/railfleet/locopredict/core/metrics"
	"github.com/railfleet/locopredict/infra/logger"
)

// InfluxSink writes prediction events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.PredictionSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPrediction writes the prediction as a line protocol event.
func (s *InfluxSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("prediction_event").
		AddTag("locomotive", ev.LocomotiveNumber).
		AddTag("prediction_type", string(ev.Type)).
		AddTag("method", string(ev.Method)).
		AddTag("risk_level", string(ev.RiskLevel)).
		AddTag("component", "prediction_engine").
		AddField("risk_score", round3(ev.RiskScore)).
		AddField("reliability_category", string(ev.Reliability)).
		AddField("latency_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordFallback records a downgrade to the formula path.
func (s *InfluxSink) RecordFallback(ev coremetrics.FallbackEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("fallback_applied").
		AddTag("component", "fallback")
	if ev.LocomotiveNumber != "" {
		p = p.AddTag("locomotive", ev.LocomotiveNumber)
	}
	p = p.AddField("fallback_reason", ev.Reason).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordArtifactLoad persists the outcome of the one-time bundle load.
func (s *InfluxSink) RecordArtifactLoad(ev coremetrics.ArtifactEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("artifact_bundle_load").
		AddTag("component", "artifacts").
		AddField("dir", ev.Dir).
		AddField("loaded", ev.Loaded).
		AddField("errors", ev.Error).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordUsage writes a usage telemetry snapshot.
func (s *InfluxSink) RecordUsage(ev coremetrics.UsageEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("usage_report").
		AddTag("locomotive", ev.LocomotiveNumber).
		AddTag("component", "telemetry").
		AddField("operating_hours", round3(ev.OperatingHours)).
		AddField("status", string(ev.Status)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordMaintenance writes a completed-maintenance report.
func (s *InfluxSink) RecordMaintenance(ev coremetrics.MaintenanceEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("maintenance_report").
		AddTag("locomotive", ev.LocomotiveNumber).
		AddTag("component", "telemetry").
		AddField("date", ev.Date.Format("2006-01-02")).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordBatch summarizes a bulk prediction request.
func (s *InfluxSink) RecordBatch(ev coremetrics.BatchEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("batch_prediction").
		AddTag("component", "prediction_engine").
		AddField("size", ev.Size).
		AddField("failed", ev.Failed).
		AddField("latency_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
