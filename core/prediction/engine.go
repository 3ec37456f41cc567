package prediction

import (
	"github.com/railfleet/locopredict/core/engine"
	"github.com/railfleet/locopredict/core/model"
)

// Predictor defines the prediction calls served to callers.
type Predictor interface {
	// Predict runs one prediction for the snapshot. A returned error is
	// always a caller-input problem; model failures degrade internally.
	Predict(loco model.Locomotive, req engine.Request) (model.Prediction, error)

	// PredictBatch runs independent predictions for up to
	// engine.MaxBatchSize snapshots. A failing item is reported in place;
	// the returned error covers the request itself.
	PredictBatch(locos []model.Locomotive, req engine.Request) ([]engine.BatchItem, error)
}
