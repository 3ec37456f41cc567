// Package fleet keeps the current locomotive snapshots in memory so the
// prediction surfaces always see the latest known usage and status.
package fleet

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/railfleet/locopredict/core/model"
)

// Filter narrows a List call. Zero-value fields match everything.
type Filter struct {
	Fleet  string
	Model  string
	Status model.Status
}

// Statistics summarizes the fleet by operational status. Utilization is
// the active share of the fleet as a percentage.
type Statistics struct {
	Total       int     `json:"total"`
	Active      int     `json:"active"`
	Maintenance int     `json:"maintenance"`
	Repair      int     `json:"repair"`
	Retired     int     `json:"retired"`
	Utilization float64 `json:"utilization"`
}

// Store is the snapshot registry shared by the API, the CLI and the
// telemetry ingesters.
type Store interface {
	Upsert(model.Locomotive)
	Get(number string) (model.Locomotive, bool)
	List(Filter) []model.Locomotive
	RecordUsage(number string, hours float64, status model.Status)
	RecordMaintenance(number string, at time.Time)
	Statistics() Statistics
}

// MemoryStore is the in-memory Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]model.Locomotive
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]model.Locomotive{}}
}

func (s *MemoryStore) Upsert(l model.Locomotive) {
	s.mu.Lock()
	s.data[l.Number] = l
	s.mu.Unlock()
}

func (s *MemoryStore) Get(number string) (model.Locomotive, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.data[number]
	return l, ok
}

// RecordUsage updates cumulative hours and status from a telemetry
// reading. Readings for unknown units create the snapshot so telemetry
// arriving before seeding is not lost.
func (s *MemoryStore) RecordUsage(number string, hours float64, status model.Status) {
	s.mu.Lock()
	l := s.data[number]
	if l.Number == "" {
		l.Number = number
	}
	if hours > l.OperatingHours {
		l.OperatingHours = hours
	}
	if status != "" {
		l.Status = status
	}
	s.data[number] = l
	s.mu.Unlock()
}

func (s *MemoryStore) RecordMaintenance(number string, at time.Time) {
	s.mu.Lock()
	l := s.data[number]
	if l.Number == "" {
		l.Number = number
	}
	if at.After(l.LastMaintenance) {
		l.LastMaintenance = at
	}
	s.data[number] = l
	s.mu.Unlock()
}

func (s *MemoryStore) List(f Filter) []model.Locomotive {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Locomotive, 0, len(s.data))
	for _, l := range s.data {
		if f.Fleet != "" && l.FleetTag() != f.Fleet {
			continue
		}
		if f.Model != "" && l.Model != f.Model {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		res = append(res, l)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Number < res[j].Number })
	return res
}

func (s *MemoryStore) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st Statistics
	for _, l := range s.data {
		st.Total++
		switch l.Status {
		case model.StatusActive:
			st.Active++
		case model.StatusMaintenance:
			st.Maintenance++
		case model.StatusRepair:
			st.Repair++
		case model.StatusRetired:
			st.Retired++
		}
	}
	if st.Total > 0 {
		st.Utilization = math.Round(float64(st.Active)/float64(st.Total)*1000) / 10
	}
	return st
}
