package engine

import (
	"fmt"
	"testing"

	"github.com/railfleet/locopredict/core/model"
)

func batchFleet(n int) []model.Locomotive {
	locos := make([]model.Locomotive, 0, n)
	for i := 0; i < n; i++ {
		locos = append(locos, model.Locomotive{
			Number:            fmt.Sprintf("DE10-%03d", i+1),
			Model:             "DE10",
			ManufacturingYear: 2010 + i%10,
			OperatingHours:    float64(1000 * (i + 1)),
			LastMaintenance:   engineNow.AddDate(0, 0, -i),
			Status:            model.StatusActive,
		})
	}
	return locos
}

func TestPredictBatchFullFleet(t *testing.T) {
	sink := &captureSink{}
	e := newTestEngine(testBundle(3), sink)
	locos := batchFleet(MaxBatchSize)

	items, err := e.PredictBatch(locos, Request{Type: model.TypeReliability, HorizonDays: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != MaxBatchSize {
		t.Fatalf("expected %d items got %d", MaxBatchSize, len(items))
	}
	for i, item := range items {
		if item.Err != nil {
			t.Fatalf("item %d failed: %v", i, item.Err)
		}
		if item.LocomotiveNumber != locos[i].Number {
			t.Fatalf("item %d out of order: %q", i, item.LocomotiveNumber)
		}
		if len(item.Prediction.Predictions) != 1 {
			t.Fatalf("expected single metric got %v", item.Prediction.Predictions)
		}
		if _, ok := item.Prediction.Predictions["reliability"]; !ok {
			t.Fatalf("expected reliability metric got %v", item.Prediction.Predictions)
		}
	}
	if len(sink.batches) != 1 || sink.batches[0].Size != MaxBatchSize || sink.batches[0].Failed != 0 {
		t.Fatalf("unexpected batch event %+v", sink.batches)
	}
}

func TestPredictBatchSizeLimits(t *testing.T) {
	e := newTestEngine(testBundle(3), nil)

	if _, err := e.PredictBatch(nil, Request{Type: model.TypeAll, HorizonDays: 30}); err == nil {
		t.Fatalf("expected error for empty batch")
	}
	if _, err := e.PredictBatch(batchFleet(MaxBatchSize+1), Request{Type: model.TypeAll, HorizonDays: 30}); err == nil {
		t.Fatalf("expected error for oversized batch")
	}
}

func TestPredictBatchInvalidRequest(t *testing.T) {
	e := newTestEngine(testBundle(3), nil)
	if _, err := e.PredictBatch(batchFleet(2), Request{Type: model.TypeAll, HorizonDays: -1}); err == nil {
		t.Fatalf("expected error for negative horizon")
	}
}

func TestPredictBatchPartialFailure(t *testing.T) {
	sink := &captureSink{}
	e := newTestEngine(testBundle(3), sink)
	locos := batchFleet(3)
	locos[1].Number = ""

	items, err := e.PredictBatch(locos, Request{Type: model.TypeAll, HorizonDays: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Err != nil || items[2].Err != nil {
		t.Fatalf("valid items must succeed: %v %v", items[0].Err, items[2].Err)
	}
	if items[1].Err == nil {
		t.Fatalf("expected error for invalid snapshot")
	}
	if len(sink.batches) != 1 || sink.batches[0].Failed != 1 {
		t.Fatalf("unexpected batch event %+v", sink.batches)
	}
}
