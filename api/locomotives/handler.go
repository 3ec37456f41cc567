package locomotives

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/railfleet/locopredict/core/fleet"
	"github.com/railfleet/locopredict/core/model"
)

type info struct {
	LocomotiveID    string          `json:"locomotive_id"`
	Model           string          `json:"model"`
	Fleet           string          `json:"fleet"`
	Age             int             `json:"age"`
	OperatingHours  float64         `json:"operating_hours"`
	CurrentStatus   string          `json:"current_status"`
	LastMaintenance string          `json:"last_maintenance,omitempty"`
	RiskScore       float64         `json:"risk_score"`
	RiskLevel       model.RiskLevel `json:"risk_level"`
}

// detail extends the listing shape with the maintenance actions the
// snapshot calls for. Served only on single-locomotive lookups.
type detail struct {
	info
	Recommendations []model.MaintenanceItem `json:"recommendations"`
}

func infoFor(l model.Locomotive, now time.Time) info {
	out := info{
		LocomotiveID:   l.Number,
		Model:          l.Model,
		Fleet:          l.FleetTag(),
		Age:            l.Age(now),
		OperatingHours: l.OperatingHours,
		CurrentStatus:  string(l.Status),
		RiskScore:      l.RiskScore(now),
		RiskLevel:      l.RiskLevel(now),
	}
	if !l.LastMaintenance.IsZero() {
		out.LastMaintenance = l.LastMaintenance.Format("2006-01-02")
	}
	return out
}

func detailFor(l model.Locomotive, now time.Time) detail {
	recs := l.MaintenanceRecommendations(now)
	if recs == nil {
		recs = []model.MaintenanceItem{}
	}
	return detail{info: infoFor(l, now), Recommendations: recs}
}

// NewInfoHandler returns an HTTP handler exposing fleet snapshots via
// GET /api/locomotives and GET /api/locomotives/{number}. The listing
// accepts fleet, model and status filters, a q substring match on the
// number and a limit.
func NewInfoHandler(reg fleet.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		number := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/locomotives"), "/")
		if number == "" {
			list(w, r, reg)
			return
		}
		loco, ok := reg.Get(number)
		if !ok {
			http.Error(w, "locomotive not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(detailFor(loco, time.Now())); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func list(w http.ResponseWriter, r *http.Request, reg fleet.Store) {
	f := fleet.Filter{
		Fleet:  r.URL.Query().Get("fleet"),
		Model:  r.URL.Query().Get("model"),
		Status: model.Status(r.URL.Query().Get("status")),
	}
	locos := reg.List(f)
	if q := strings.ToLower(r.URL.Query().Get("q")); q != "" {
		matched := locos[:0]
		for _, l := range locos {
			if strings.Contains(strings.ToLower(l.Number), q) {
				matched = append(matched, l)
			}
		}
		locos = matched
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < len(locos) {
			locos = locos[:n]
		}
	}
	now := time.Now()
	out := make([]info, len(locos))
	for i, l := range locos {
		out[i] = infoFor(l, now)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// NewStatisticsHandler returns an HTTP handler exposing fleet counts by
// status and the utilization percentage via GET /api/fleet/statistics.
func NewStatisticsHandler(reg fleet.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reg.Statistics())
	})
}
