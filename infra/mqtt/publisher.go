package mqtt

import (
	"fmt"
	"sync"
	"time"

	"github.com/railfleet/locopredict/core/model"
	coremqtt "github.com/railfleet/locopredict/core/mqtt"
)

// Client mirrors the core mqtt.Client interface.
type Client = coremqtt.Client

// MockPublisher records telemetry reports in memory for tests.
type MockPublisher struct {
	Usage       map[string]float64
	Statuses    map[string]model.Status
	Maintenance map[string]time.Time
	FailNumbers map[string]bool
	mu          sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Usage:       make(map[string]float64),
		Statuses:    make(map[string]model.Status),
		Maintenance: make(map[string]time.Time),
		FailNumbers: make(map[string]bool),
	}
}

// PublishUsage records the report or returns an error if configured to fail.
func (m *MockPublisher) PublishUsage(number string, hours float64, status model.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNumbers[number] {
		return fmt.Errorf("publish failed")
	}
	m.Usage[number] = hours
	if status != "" {
		m.Statuses[number] = status
	}
	return nil
}

// PublishMaintenance records the service date or returns an error if
// configured to fail.
func (m *MockPublisher) PublishMaintenance(number string, date time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNumbers[number] {
		return fmt.Errorf("publish failed")
	}
	m.Maintenance[number] = date
	return nil
}
