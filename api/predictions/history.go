package predictions

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/railfleet/locopredict/core/model"
	"github.com/railfleet/locopredict/infra/store"
)

type historyItem struct {
	ID               string           `json:"id"`
	LocomotiveNumber string           `json:"locomotive_number"`
	Prediction       model.Prediction `json:"prediction"`
	CreatedAt        string           `json:"created_at"`
	ExpiresAt        string           `json:"expires_at"`
}

// NewHistoryHandler returns an HTTP handler exposing stored predictions
// via GET /api/predictions/recent, newest first. The number parameter
// narrows the listing to one locomotive; limit defaults to 10.
func NewHistoryHandler(st PredictionStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		limit := 10
		if s := r.URL.Query().Get("limit"); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				limit = n
			}
		}
		var (
			records []store.StoredPrediction
			err     error
		)
		if number := r.URL.Query().Get("number"); number != "" {
			records, err = st.LocomotivePredictions(r.Context(), number, limit)
		} else {
			records, err = st.ActivePredictions(r.Context(), limit)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out := make([]historyItem, len(records))
		for i, rec := range records {
			out[i] = historyItem{
				ID:               rec.ID,
				LocomotiveNumber: rec.LocomotiveNumber,
				Prediction:       rec.Result,
				CreatedAt:        rec.CreatedAt.Format(time.RFC3339),
				ExpiresAt:        rec.ExpiresAt.Format(time.RFC3339),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
}

// NewClearHandler returns an HTTP handler that retires every active
// prediction via POST /api/predictions/clear. Rows are kept for history
// and only marked inactive; the response reports how many were touched.
func NewClearHandler(st PredictionStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		n, err := st.DeactivateAll(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int64{"cleared": n})
	})
}
