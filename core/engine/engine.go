// Package engine produces failure-risk and performance predictions for
// locomotives. The model path runs the fitted artifacts; whenever it
// cannot, the call degrades to a deterministic formula path that yields
// the same result shape.
package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/railfleet/locopredict/core/artifacts"
	"github.com/railfleet/locopredict/core/features"
	"github.com/railfleet/locopredict/core/logger"
	"github.com/railfleet/locopredict/core/metrics"
	"github.com/railfleet/locopredict/core/model"
	"github.com/railfleet/locopredict/core/recommend"
)

// Request describes one prediction call.
type Request struct {
	Type        model.PredictionType
	HorizonDays int
}

// Validate checks the caller-supplied parameters.
func (r Request) Validate() error {
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if r.HorizonDays <= 0 {
		return fmt.Errorf("horizon must be a positive number of days, got %d", r.HorizonDays)
	}
	return nil
}

// Engine turns locomotive snapshots into predictions. It holds no per-call
// state; the only shared state is the read-only artifact bundle, so one
// Engine may serve concurrent callers.
type Engine struct {
	bundle *artifacts.Bundle
	sink   metrics.PredictionSink
	logger logger.Logger
	now    func() time.Time
}

// New creates an Engine. A nil bundle pins every call to the formula path;
// a nil sink disables metrics recording.
func New(bundle *artifacts.Bundle, sink metrics.PredictionSink, log logger.Logger) *Engine {
	return &Engine{bundle: bundle, sink: sink, logger: log, now: time.Now}
}

// outcome is the result of the risk/reliability stage, tagged with the
// path that produced it.
type outcome struct {
	score       float64
	level       model.RiskLevel
	reliability model.ReliabilityCategory
	method      model.Method
}

// Predict runs one prediction. The returned error is always a caller-input
// problem; model-path failures degrade to the formula path and surface
// only through the prediction_method field of the result.
func (e *Engine) Predict(loco model.Locomotive, req Request) (model.Prediction, error) {
	if err := req.Validate(); err != nil {
		return model.Prediction{}, err
	}
	if err := loco.Validate(); err != nil {
		return model.Prediction{}, err
	}

	start := e.now()
	out := e.assess(loco, start)
	preds := synthesize(loco, req.Type, out.score, start)
	recs := recommend.Build(recommend.Input{
		Type:           req.Type,
		RiskLevel:      out.level,
		Reliability:    out.reliability,
		AgeYears:       loco.Age(start),
		OperatingHours: loco.OperatingHours,
		Month:          start.Month(),
	})

	p := model.Prediction{
		Type:            req.Type,
		PeriodDays:      req.HorizonDays,
		RiskScore:       out.score,
		RiskLevel:       out.level,
		Reliability:     out.reliability,
		Predictions:     preds,
		Recommendations: recs,
		Method:          out.method,
		Timestamp:       start.Format(time.RFC3339),
	}
	e.record(loco, p, e.now().Sub(start))
	return p, nil
}

// assess produces the tagged outcome. The formula path is taken when no
// bundle is loaded or when the model path fails for this call; the
// failure never reaches the caller.
func (e *Engine) assess(loco model.Locomotive, at time.Time) outcome {
	if e.bundle == nil {
		return e.fallback(loco, at, "artifact bundle unavailable")
	}
	out, err := e.modelAssess(loco, at)
	if err != nil {
		e.logger.Warnf("model path failed for %s: %v", loco.Number, err)
		return e.fallback(loco, at, err.Error())
	}
	return out
}

func (e *Engine) modelAssess(loco model.Locomotive, at time.Time) (outcome, error) {
	vec, err := features.Derive(loco, e.bundle, at)
	if err != nil {
		return outcome{}, err
	}
	scaled, err := e.bundle.Scaler.Transform(vec)
	if err != nil {
		return outcome{}, fmt.Errorf("scale features: %w", err)
	}
	raw, err := e.bundle.RiskModel.Predict(scaled)
	if err != nil {
		return outcome{}, fmt.Errorf("risk regression: %w", err)
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return outcome{}, fmt.Errorf("risk regression produced %v", raw)
	}
	code, err := e.bundle.ReliabilityModel.Predict(scaled)
	if err != nil {
		return outcome{}, fmt.Errorf("reliability classification: %w", err)
	}
	cat, err := e.bundle.DecodeReliability(code)
	if err != nil {
		return outcome{}, fmt.Errorf("decode reliability class: %w", err)
	}

	score := rescale(raw, loco.Age(at), loco.OperatingHours)
	return outcome{
		score:       score,
		level:       model.RiskLevelFor(score),
		reliability: cat,
		method:      model.MethodModel,
	}, nil
}

func (e *Engine) fallback(loco model.Locomotive, at time.Time, reason string) outcome {
	fallbacksTotal.Inc()
	if fr, ok := e.sink.(metrics.FallbackRecorder); ok {
		if err := fr.RecordFallback(metrics.FallbackEvent{
			LocomotiveNumber: loco.Number,
			Reason:           reason,
			Time:             at,
		}); err != nil {
			e.logger.Errorf("fallback metrics error: %v", err)
		}
	}

	score := loco.RiskScore(at)
	return outcome{
		score:       score,
		level:       model.RiskLevelFor(score),
		reliability: model.ReliabilityMedium,
		method:      model.MethodFallback,
	}
}

// rescale corrects the regressor's low bias: raw scores under 10 are
// stretched by age and usage, higher ones get a gentler lift. The final
// score is clamped to [5,100].
func rescale(raw float64, age int, hours float64) float64 {
	var score float64
	if raw < 10 {
		score = raw*8 + float64(age)*1.5 + hours/1000*0.3
	} else {
		score = raw*2 + float64(age)*0.5
	}
	return math.Min(100, math.Max(5, score))
}

func (e *Engine) record(loco model.Locomotive, p model.Prediction, dur time.Duration) {
	predictionsTotal.WithLabelValues(string(p.Type), string(p.Method), string(p.RiskLevel)).Inc()
	predictionLatency.WithLabelValues(string(p.Method)).Observe(dur.Seconds())
	if e.sink == nil {
		return
	}
	ev := metrics.PredictionEvent{
		LocomotiveNumber: loco.Number,
		Type:             p.Type,
		Method:           p.Method,
		RiskLevel:        p.RiskLevel,
		RiskScore:        p.RiskScore,
		Reliability:      p.Reliability,
		Duration:         dur,
		Time:             e.now(),
	}
	if err := e.sink.RecordPrediction(ev); err != nil {
		e.logger.Errorf("prediction metrics error: %v", err)
	}
}
