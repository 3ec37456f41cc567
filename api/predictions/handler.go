package predictions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/railfleet/locopredict/core/engine"
	"github.com/railfleet/locopredict/core/events"
	"github.com/railfleet/locopredict/core/fleet"
	"github.com/railfleet/locopredict/core/model"
	"github.com/railfleet/locopredict/core/prediction"
	"github.com/railfleet/locopredict/infra/store"
	"github.com/railfleet/locopredict/internal/bus"
)

// defaultPeriodDays is the horizon applied when a request names none.
const defaultPeriodDays = 30

// PredictionStore is the persistence surface of the bulk and history
// handlers. *store.SQLiteStore implements it.
type PredictionStore interface {
	SaveBatch(ctx context.Context, items []store.BatchItem) ([]store.StoredPrediction, error)
	ActivePredictions(ctx context.Context, limit int) ([]store.StoredPrediction, error)
	LocomotivePredictions(ctx context.Context, number string, limit int) ([]store.StoredPrediction, error)
	DeactivateAll(ctx context.Context) (int64, error)
}

type quickResponse struct {
	LocomotiveNumber string           `json:"locomotive_number"`
	Model            string           `json:"model"`
	Prediction       model.Prediction `json:"prediction"`
}

// NewQuickHandler returns an HTTP handler serving one prediction via
// GET /api/predictions/quick. Results are returned to the caller only,
// never persisted. Parameters: number (required), type (default "all"),
// period in days (default 30) and an optional model the locomotive must
// match.
func NewQuickHandler(reg fleet.Store, pred prediction.Predictor, eb bus.EventBus) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		number := r.URL.Query().Get("number")
		if number == "" {
			http.Error(w, "locomotive number required", http.StatusBadRequest)
			return
		}
		req, err := requestFromQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		loco, ok := reg.Get(number)
		if !ok {
			http.Error(w, "locomotive not found", http.StatusNotFound)
			return
		}
		if want := r.URL.Query().Get("model"); want != "" && want != loco.Model {
			http.Error(w, fmt.Sprintf("locomotive %s is a %s, not a %s", number, loco.Model, want), http.StatusBadRequest)
			return
		}
		start := time.Now()
		p, err := pred.Predict(loco, req)
		publishPrediction(eb, loco.Number, req.Type, p, err, time.Since(start))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(quickResponse{
			LocomotiveNumber: loco.Number,
			Model:            loco.Model,
			Prediction:       p,
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

type bulkRequest struct {
	LocomotiveNumbers []string `json:"locomotive_numbers"`
	PredictionType    string   `json:"prediction_type"`
	PeriodDays        int      `json:"period_days"`
}

type bulkItem struct {
	LocomotiveNumber string            `json:"locomotive_number"`
	Prediction       *model.Prediction `json:"prediction,omitempty"`
	PredictionID     string            `json:"prediction_id,omitempty"`
	Error            string            `json:"error,omitempty"`
}

type bulkResponse struct {
	Results []bulkItem  `json:"results"`
	Summary bulkSummary `json:"summary"`
}

type bulkSummary struct {
	Total  int `json:"total"`
	Failed int `json:"failed"`
	Saved  int `json:"saved"`
}

// NewBulkHandler returns an HTTP handler serving batch predictions via
// POST /api/predictions/bulk. A locomotive that cannot be predicted is
// reported in place without failing the batch. Successful results are
// persisted in one transaction when st is non-nil, and each saved row's
// id is echoed back.
func NewBulkHandler(reg fleet.Store, pred prediction.Predictor, st PredictionStore, eb bus.EventBus) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var in bulkRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if len(in.LocomotiveNumbers) == 0 {
			http.Error(w, "no locomotive numbers given", http.StatusBadRequest)
			return
		}
		if len(in.LocomotiveNumbers) > engine.MaxBatchSize {
			http.Error(w, fmt.Sprintf("at most %d locomotives per batch", engine.MaxBatchSize), http.StatusBadRequest)
			return
		}
		req := engine.Request{Type: model.PredictionType(in.PredictionType), HorizonDays: in.PeriodDays}
		if in.PredictionType == "" {
			req.Type = model.TypeAll
		}
		if in.PeriodDays == 0 {
			req.HorizonDays = defaultPeriodDays
		}
		if err := req.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		results := make([]bulkItem, len(in.LocomotiveNumbers))
		var (
			locos   []model.Locomotive
			indexes []int
		)
		for i, number := range in.LocomotiveNumbers {
			results[i].LocomotiveNumber = number
			loco, ok := reg.Get(number)
			if !ok {
				results[i].Error = "locomotive not found"
				continue
			}
			locos = append(locos, loco)
			indexes = append(indexes, i)
		}

		var (
			saveItems []store.BatchItem
			saveIdx   []int
		)
		if len(locos) > 0 {
			items, err := pred.PredictBatch(locos, req)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			for j, it := range items {
				i := indexes[j]
				publishPrediction(eb, it.LocomotiveNumber, req.Type, it.Prediction, it.Err, 0)
				if it.Err != nil {
					results[i].Error = it.Err.Error()
					continue
				}
				p := it.Prediction
				results[i].Prediction = &p
				saveItems = append(saveItems, store.BatchItem{LocomotiveNumber: it.LocomotiveNumber, Result: p})
				saveIdx = append(saveIdx, i)
			}
		}

		saved := 0
		if st != nil && len(saveItems) > 0 {
			stored, err := st.SaveBatch(r.Context(), saveItems)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			for k, row := range stored {
				results[saveIdx[k]].PredictionID = row.ID
			}
			saved = len(stored)
		}

		failed := 0
		for _, res := range results {
			if res.Error != "" {
				failed++
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(bulkResponse{
			Results: results,
			Summary: bulkSummary{Total: len(results), Failed: failed, Saved: saved},
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// requestFromQuery reads the shared type and period parameters. The type
// defaults to "all" and the period to defaultPeriodDays.
func requestFromQuery(r *http.Request) (engine.Request, error) {
	req := engine.Request{Type: model.TypeAll, HorizonDays: defaultPeriodDays}
	if s := r.URL.Query().Get("type"); s != "" {
		req.Type = model.PredictionType(s)
	}
	if s := r.URL.Query().Get("period"); s != "" {
		d, err := strconv.Atoi(s)
		if err != nil {
			return engine.Request{}, fmt.Errorf("invalid period %q", s)
		}
		req.HorizonDays = d
	}
	return req, req.Validate()
}

func publishPrediction(eb bus.EventBus, number string, typ model.PredictionType, p model.Prediction, err error, latency time.Duration) {
	if eb == nil {
		return
	}
	ev := events.PredictionEvent{
		LocomotiveNumber: number,
		Type:             typ,
		Err:              err,
		Latency:          latency,
	}
	if err == nil {
		ev.Method = p.Method
		ev.RiskLevel = p.RiskLevel
		ev.RiskScore = p.RiskScore
	}
	eb.Publish(ev)
}
