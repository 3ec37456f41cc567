package fleet

import (
	"testing"
	"time"

	"github.com/railfleet/locopredict/core/model"
)

func TestMemoryStore_Filter(t *testing.T) {
	s := NewMemoryStore()
	s.Upsert(model.Locomotive{Number: "DE10-001", Model: "DE10", Fleet: "NRZ"})
	s.Upsert(model.Locomotive{Number: "DE11-001", Model: "DE11", Fleet: "Hired"})
	out := s.List(Filter{Fleet: "Hired"})
	if len(out) != 1 || out[0].Number != "DE11-001" {
		t.Fatalf("filter failed: %#v", out)
	}
}

func TestMemoryStore_FilterModel(t *testing.T) {
	s := NewMemoryStore()
	s.Upsert(model.Locomotive{Number: "DE10-001", Model: "DE10"})
	s.Upsert(model.Locomotive{Number: "DE11-001", Model: "DE11"})
	out := s.List(Filter{Model: "DE10"})
	if len(out) != 1 || out[0].Number != "DE10-001" {
		t.Fatalf("model filter failed: %#v", out)
	}
}

func TestMemoryStore_FilterDefaultFleet(t *testing.T) {
	s := NewMemoryStore()
	s.Upsert(model.Locomotive{Number: "DE10-001", Model: "DE10"})
	out := s.List(Filter{Fleet: model.DefaultFleet})
	if len(out) != 1 {
		t.Fatalf("empty fleet tag must match the default fleet: %#v", out)
	}
}

func TestMemoryStore_ListSorted(t *testing.T) {
	s := NewMemoryStore()
	s.Upsert(model.Locomotive{Number: "DE11-002"})
	s.Upsert(model.Locomotive{Number: "DE10-001"})
	s.Upsert(model.Locomotive{Number: "DE10-002"})
	out := s.List(Filter{})
	want := []string{"DE10-001", "DE10-002", "DE11-002"}
	for i, n := range want {
		if out[i].Number != n {
			t.Fatalf("expected %v got %#v", want, out)
		}
	}
}

func TestMemoryStore_RecordUsage(t *testing.T) {
	s := NewMemoryStore()
	s.Upsert(model.Locomotive{Number: "DE10-001", OperatingHours: 1000, Status: model.StatusActive})
	s.RecordUsage("DE10-001", 1200, model.StatusMaintenance)
	l, ok := s.Get("DE10-001")
	if !ok || l.OperatingHours != 1200 || l.Status != model.StatusMaintenance {
		t.Fatalf("usage not applied: %#v", l)
	}
}

func TestMemoryStore_RecordUsageNeverRewindsHours(t *testing.T) {
	s := NewMemoryStore()
	s.Upsert(model.Locomotive{Number: "DE10-001", OperatingHours: 1000})
	s.RecordUsage("DE10-001", 800, "")
	l, _ := s.Get("DE10-001")
	if l.OperatingHours != 1000 {
		t.Fatalf("cumulative hours must not decrease: %v", l.OperatingHours)
	}
}

func TestMemoryStore_RecordUsageNew(t *testing.T) {
	s := NewMemoryStore()
	s.RecordUsage("DE10-009", 50, model.StatusActive)
	l, ok := s.Get("DE10-009")
	if !ok || l.OperatingHours != 50 {
		t.Fatalf("auto create failed: %#v", l)
	}
}

func TestMemoryStore_RecordMaintenance(t *testing.T) {
	s := NewMemoryStore()
	old := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	s.Upsert(model.Locomotive{Number: "DE10-001", LastMaintenance: old})
	s.RecordMaintenance("DE10-001", recent)
	l, _ := s.Get("DE10-001")
	if !l.LastMaintenance.Equal(recent) {
		t.Fatalf("maintenance date not advanced: %v", l.LastMaintenance)
	}
	s.RecordMaintenance("DE10-001", old)
	l, _ = s.Get("DE10-001")
	if !l.LastMaintenance.Equal(recent) {
		t.Fatalf("stale maintenance date must not rewind: %v", l.LastMaintenance)
	}
}

func TestMemoryStore_Statistics(t *testing.T) {
	s := NewMemoryStore()
	s.Upsert(model.Locomotive{Number: "a", Status: model.StatusActive})
	s.Upsert(model.Locomotive{Number: "b", Status: model.StatusActive})
	s.Upsert(model.Locomotive{Number: "c", Status: model.StatusRepair})
	st := s.Statistics()
	if st.Total != 3 || st.Active != 2 || st.Repair != 1 {
		t.Fatalf("unexpected statistics %+v", st)
	}
	if st.Utilization != 66.7 {
		t.Fatalf("expected utilization 66.7 got %v", st.Utilization)
	}
}

func TestMemoryStore_StatisticsEmpty(t *testing.T) {
	s := NewMemoryStore()
	if st := s.Statistics(); st.Utilization != 0 {
		t.Fatalf("empty store utilization must be 0, got %v", st.Utilization)
	}
}
