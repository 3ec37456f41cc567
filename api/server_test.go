package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/railfleet/locopredict/core/fleet"
	"github.com/railfleet/locopredict/core/model"
	"github.com/railfleet/locopredict/core/prediction"
	"github.com/railfleet/locopredict/infra/store"
)

func TestNewMux_Routes(t *testing.T) {
	reg := fleet.NewMemoryStore()
	reg.Upsert(model.Locomotive{Number: "DE10-001", Model: "DE10", ManufacturingYear: 2010, Status: model.StatusActive})
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = st.Close() }()

	mux := NewMux(reg, prediction.MockPredictor{}, st, nil)
	cases := []struct {
		method string
		path   string
		code   int
	}{
		{"GET", "/api/predictions/quick?number=DE10-001", http.StatusOK},
		{"GET", "/api/predictions/recent", http.StatusOK},
		{"GET", "/api/locomotives", http.StatusOK},
		{"GET", "/api/locomotives/DE10-001", http.StatusOK},
		{"GET", "/api/fleet/statistics", http.StatusOK},
		{"GET", "/api/unknown", http.StatusNotFound},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		if rr.Code != tc.code {
			t.Fatalf("%s %s: status %d, want %d", tc.method, tc.path, rr.Code, tc.code)
		}
	}
}

func TestNewMux_WithoutStore(t *testing.T) {
	reg := fleet.NewMemoryStore()
	mux := NewMux(reg, prediction.MockPredictor{}, nil, nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("GET", "/api/predictions/recent", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without store, got %d", rr.Code)
	}
}
