package engine

import (
	"fmt"
	"sync"

	"github.com/railfleet/locopredict/core/metrics"
	"github.com/railfleet/locopredict/core/model"
)

// MaxBatchSize caps how many locomotives one bulk request may carry.
const MaxBatchSize = 20

// BatchItem holds the result or error for one locomotive of a batch.
type BatchItem struct {
	LocomotiveNumber string           `json:"locomotive_number"`
	Prediction       model.Prediction `json:"prediction"`
	Err              error            `json:"-"`
}

// PredictBatch runs independent predictions for up to MaxBatchSize
// locomotives concurrently. A failing item is reported in place and never
// aborts the rest; the returned error covers the request itself.
func (e *Engine) PredictBatch(locos []model.Locomotive, req Request) ([]BatchItem, error) {
	if len(locos) == 0 {
		return nil, fmt.Errorf("empty batch")
	}
	if len(locos) > MaxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(locos), MaxBatchSize)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := e.now()
	items := make([]BatchItem, len(locos))
	var wg sync.WaitGroup
	for i, loco := range locos {
		wg.Add(1)
		go func(i int, loco model.Locomotive) {
			defer wg.Done()
			p, err := e.Predict(loco, req)
			items[i] = BatchItem{LocomotiveNumber: loco.Number, Prediction: p, Err: err}
		}(i, loco)
	}
	wg.Wait()

	failed := 0
	for _, it := range items {
		if it.Err != nil {
			failed++
		}
	}
	if br, ok := e.sink.(metrics.BatchRecorder); ok {
		if err := br.RecordBatch(metrics.BatchEvent{
			Size:     len(items),
			Failed:   failed,
			Duration: e.now().Sub(start),
			Time:     start,
		}); err != nil {
			e.logger.Errorf("batch metrics error: %v", err)
		}
	}
	return items, nil
}
