package predictions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/railfleet/locopredict/infra/store"
)

func seedPredictions(t *testing.T, st *store.SQLiteStore) {
	t.Helper()
	_, err := st.SaveBatch(context.Background(), []store.BatchItem{
		{LocomotiveNumber: "DE10-001", Result: cannedPrediction()},
		{LocomotiveNumber: "DE10-002", Result: cannedPrediction()},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestHistoryHandler_RecentAndFilter(t *testing.T) {
	st := newTestStore(t)
	seedPredictions(t, st)
	h := NewHistoryHandler(st)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/predictions/recent", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out []historyItem
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	for _, rec := range out {
		if rec.ID == "" || rec.Prediction.RiskScore != 45.5 {
			t.Fatalf("unexpected record %#v", rec)
		}
		if _, err := time.Parse(time.RFC3339, rec.CreatedAt); err != nil {
			t.Fatalf("created_at not RFC3339: %v", err)
		}
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/predictions/recent?number=DE10-001", nil))
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].LocomotiveNumber != "DE10-001" {
		t.Fatalf("unexpected filter result %#v", out)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/predictions/recent?limit=1", nil))
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("limit ignored, got %d records", len(out))
	}
}

func TestHistoryHandler_Empty(t *testing.T) {
	st := newTestStore(t)
	h := NewHistoryHandler(st)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/predictions/recent", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if rr.Body.String() != "[]\n" {
		t.Fatalf("expected empty array got %s", rr.Body.String())
	}
}

func TestClearHandler(t *testing.T) {
	st := newTestStore(t)
	seedPredictions(t, st)
	h := NewClearHandler(st)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/predictions/clear", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/api/predictions/clear", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out map[string]int64
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["cleared"] != 2 {
		t.Fatalf("expected 2 cleared, got %d", out["cleared"])
	}

	n, err := st.CountActive(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("expected 0 active, got %d err=%v", n, err)
	}
}
