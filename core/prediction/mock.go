package prediction

import (
	"fmt"

	"github.com/railfleet/locopredict/core/engine"
	"github.com/railfleet/locopredict/core/model"
)

// MockPredictor returns canned results keyed by locomotive number.
type MockPredictor struct {
	Results map[string]model.Prediction
	Errs    map[string]error
}

// Predict returns the configured result or error for the locomotive. A
// number with neither configured yields a Medium-risk placeholder.
func (m MockPredictor) Predict(loco model.Locomotive, req engine.Request) (model.Prediction, error) {
	if err, ok := m.Errs[loco.Number]; ok {
		return model.Prediction{}, err
	}
	if p, ok := m.Results[loco.Number]; ok {
		return p, nil
	}
	return model.Prediction{
		Type:        req.Type,
		PeriodDays:  req.HorizonDays,
		RiskScore:   50,
		RiskLevel:   model.RiskMedium,
		Reliability: model.ReliabilityMedium,
		Method:      model.MethodFallback,
	}, nil
}

// PredictBatch applies Predict to each snapshot, keeping the real
// engine's request-level checks.
func (m MockPredictor) PredictBatch(locos []model.Locomotive, req engine.Request) ([]engine.BatchItem, error) {
	if len(locos) == 0 {
		return nil, fmt.Errorf("empty batch")
	}
	if len(locos) > engine.MaxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(locos), engine.MaxBatchSize)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	items := make([]engine.BatchItem, len(locos))
	for i, loco := range locos {
		p, err := m.Predict(loco, req)
		items[i] = engine.BatchItem{LocomotiveNumber: loco.Number, Prediction: p, Err: err}
	}
	return items, nil
}
