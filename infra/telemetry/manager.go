package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/railfleet/locopredict/config"
	"github.com/railfleet/locopredict/core/events"
	"github.com/railfleet/locopredict/core/fleet"
	"github.com/railfleet/locopredict/core/model"
	"github.com/railfleet/locopredict/infra/logger"
	infmqtt "github.com/railfleet/locopredict/infra/mqtt"
	"github.com/railfleet/locopredict/internal/bus"
)

// Manager keeps the fleet registry current from locomotive usage and
// maintenance reports, either pushed by the units or polled on an
// interval. Every accepted report is also published on the event bus.
type Manager struct {
	cfg   config.TelemetryConfig
	cli   paho.Client
	fleet fleet.Store
	eb    bus.EventBus
	log   logger.Logger

	respCh chan reportMessage

	pollReq     prometheus.Counter
	pollResp    prometheus.Counter
	pollTimeout prometheus.Counter
	lastCollect prometheus.Gauge
	latency     prometheus.Histogram
}

type reportMessage struct {
	Number  string
	Payload []byte
	Arrived time.Time
}

// NewManager connects to MQTT and prepares report collection.
func NewManager(mqttCfg infmqtt.Config, cfg config.TelemetryConfig, st fleet.Store, eb bus.EventBus) (*Manager, error) {
	opts, err := infmqtt.NewClientOptions(mqttCfg)
	if err != nil {
		return nil, err
	}
	id := mqttCfg.ClientID
	if id != "" {
		id += "-telemetry"
	} else {
		id = "telemetry-" + uuid.NewString()
	}
	opts.SetClientID(id)
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	m := &Manager{
		cfg:         cfg,
		cli:         cli,
		fleet:       st,
		eb:          eb,
		log:         logger.New("telemetry"),
		respCh:      make(chan reportMessage, 100),
		pollReq:     prometheus.NewCounter(prometheus.CounterOpts{Name: "telemetry_poll_requests_total", Help: "Number of telemetry poll requests"}),
		pollResp:    prometheus.NewCounter(prometheus.CounterOpts{Name: "telemetry_poll_responses_total", Help: "Number of telemetry poll responses"}),
		pollTimeout: prometheus.NewCounter(prometheus.CounterOpts{Name: "telemetry_poll_timeout_total", Help: "Number of telemetry poll timeouts"}),
		lastCollect: prometheus.NewGauge(prometheus.GaugeOpts{Name: "telemetry_last_collect_timestamp_seconds", Help: "Unix timestamp of last telemetry collection"}),
		latency:     prometheus.NewHistogram(prometheus.HistogramOpts{Name: "telemetry_collect_latency_seconds", Help: "Latency of telemetry collection", Buckets: prometheus.DefBuckets}),
	}
	prometheus.MustRegister(m.pollReq, m.pollResp, m.pollTimeout, m.lastCollect, m.latency)
	return m, nil
}

// Start runs report collection until context is done.
func (m *Manager) Start(ctx context.Context) {
	mode := strings.ToLower(m.cfg.Mode)
	if mode == "" {
		mode = "push"
	}
	prefix := strings.TrimSuffix(m.cfg.Prefix(), "/")
	if mode == "push" || mode == "hybrid" {
		if token := m.cli.Subscribe(prefix+"/+/usage", 0, m.onUsage); token.Wait() && token.Error() != nil {
			m.log.Errorf("subscribe usage: %v", token.Error())
		}
		if token := m.cli.Subscribe(prefix+"/+/maintenance", 0, m.onMaintenance); token.Wait() && token.Error() != nil {
			m.log.Errorf("subscribe maintenance: %v", token.Error())
		}
	}
	if mode == "pull" || mode == "hybrid" {
		topic := strings.TrimSuffix(m.cfg.ResponsePrefix, "/") + "/+"
		if token := m.cli.Subscribe(topic, 0, m.onResponse); token.Wait() && token.Error() != nil {
			m.log.Errorf("subscribe response: %v", token.Error())
		}
		go m.pollLoop(ctx)
	}
	<-ctx.Done()
	if m.cli.IsConnected() {
		m.cli.Disconnect(250)
	}
}

func (m *Manager) onUsage(_ paho.Client, msg paho.Message) {
	if err := m.processUsage(msg.Payload(), msg.Topic()); err != nil {
		m.log.Errorf("usage decode: %v", err)
	}
}

func (m *Manager) onMaintenance(_ paho.Client, msg paho.Message) {
	if err := m.processMaintenance(msg.Payload(), msg.Topic()); err != nil {
		m.log.Errorf("maintenance decode: %v", err)
	}
}

func (m *Manager) onResponse(_ paho.Client, msg paho.Message) {
	m.respCh <- reportMessage{Number: lastTopicPart(msg.Topic()), Payload: msg.Payload(), Arrived: time.Now()}
}

// numberFromTopic extracts the locomotive number from a report topic of
// the form <prefix>/<number>/usage.
func numberFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

func lastTopicPart(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return ""
}

func (m *Manager) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(m.cfg.Interval()) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.doPoll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) doPoll(ctx context.Context) {
	start := time.Now()
	expected := map[string]struct{}{}
	if m.fleet != nil {
		for _, l := range m.fleet.List(fleet.Filter{}) {
			expected[l.Number] = struct{}{}
		}
	}
	m.pollReq.Inc()
	token := m.cli.Publish(m.cfg.RequestTopic, 0, false, []byte("poll"))
	token.Wait()
	timeout := time.NewTimer(time.Duration(m.cfg.Timeout()) * time.Second)
	for {
		select {
		case resp := <-m.respCh:
			if err := m.processUsage(resp.Payload, ""); err != nil {
				m.log.Errorf("poll decode: %v", err)
			} else {
				m.pollResp.Inc()
				m.latency.Observe(time.Since(start).Seconds())
				m.lastCollect.SetToCurrentTime()
				delete(expected, resp.Number)
			}
		case <-timeout.C:
			for range expected {
				m.pollTimeout.Inc()
			}
			return
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) processUsage(payload []byte, topic string) error {
	var report struct {
		Number         string  `json:"number"`
		OperatingHours float64 `json:"operating_hours"`
		Status         string  `json:"status"`
	}
	if err := json.Unmarshal(payload, &report); err != nil {
		return err
	}
	if report.Number == "" {
		report.Number = numberFromTopic(topic)
	}
	if report.Number == "" {
		return fmt.Errorf("usage report without locomotive number")
	}
	if report.OperatingHours < 0 {
		report.OperatingHours = 0
	}
	status := model.Status(report.Status)
	if status != "" && !status.Valid() {
		m.log.Warnf("unknown status %q for %s", report.Status, report.Number)
		status = ""
	}
	if m.fleet != nil {
		m.fleet.RecordUsage(report.Number, report.OperatingHours, status)
	}
	if m.eb != nil {
		m.eb.Publish(events.UsageEvent{
			LocomotiveNumber: report.Number,
			OperatingHours:   report.OperatingHours,
			Status:           status,
		})
	}
	return nil
}

func (m *Manager) processMaintenance(payload []byte, topic string) error {
	var report struct {
		Number string `json:"number"`
		Date   string `json:"date"`
	}
	if err := json.Unmarshal(payload, &report); err != nil {
		return err
	}
	if report.Number == "" {
		report.Number = numberFromTopic(topic)
	}
	if report.Number == "" {
		return fmt.Errorf("maintenance report without locomotive number")
	}
	date, err := time.Parse("2006-01-02", report.Date)
	if err != nil {
		return fmt.Errorf("parse date: %w", err)
	}
	if m.fleet != nil {
		m.fleet.RecordMaintenance(report.Number, date)
	}
	if m.eb != nil {
		m.eb.Publish(events.MaintenanceEvent{LocomotiveNumber: report.Number, Date: date})
	}
	return nil
}
