package app

import (
	"context"
	"fmt"
	"time"

	"github.com/railfleet/locopredict/api"
	"github.com/railfleet/locopredict/config"
	"github.com/railfleet/locopredict/core/artifacts"
	"github.com/railfleet/locopredict/core/engine"
	"github.com/railfleet/locopredict/core/events"
	"github.com/railfleet/locopredict/core/factory"
	"github.com/railfleet/locopredict/core/fleet"
	coremetrics "github.com/railfleet/locopredict/core/metrics"
	coremon "github.com/railfleet/locopredict/core/monitoring"
	"github.com/railfleet/locopredict/infra/logger"
	"github.com/railfleet/locopredict/infra/metrics"
	"github.com/railfleet/locopredict/infra/monitoring"
	"github.com/railfleet/locopredict/infra/store"
	"github.com/railfleet/locopredict/infra/telemetry"
	"github.com/railfleet/locopredict/internal/bus"
)

// Service orchestrates the prediction engine, the fleet registry and the
// ingest and serving surfaces around them.
type Service struct {
	Engine *engine.Engine
	Fleet  fleet.Store
	Store  *store.SQLiteStore

	bus         *bus.Bus
	sink        coremetrics.PredictionSink
	telemetry   *telemetry.Manager
	monitor     coremon.Monitor
	log         logger.Logger
	apiEnabled  bool
	apiAddr     string
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry monitor: %w", err)
	}
	coremon.Init(mon)

	bundle, err := artifacts.Load(cfg.Artifacts.Dir)
	if err != nil {
		logg.Warnf("artifact bundle unavailable, predictions use the fallback path: %v", err)
		coremon.CaptureException(err, map[string]string{"module": "artifacts"})
		bundle = nil
	}

	var sinks []coremetrics.PredictionSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	for _, mc := range cfg.Metrics.Sinks {
		s, err := coremetrics.NewPredictionSink([]factory.ModuleConfig{mc})
		if err != nil {
			return nil, fmt.Errorf("metrics sink %s: %w", mc.Type, err)
		}
		sinks = append(sinks, s)
	}
	var sink coremetrics.PredictionSink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	st, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	reg := fleet.NewMemoryStore()
	locos, err := st.Locomotives(context.Background())
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load fleet: %w", err)
	}
	for _, l := range locos {
		reg.Upsert(l)
	}
	logg.Infof("loaded %d locomotives from %s", len(locos), cfg.Storage.Path)

	eb := bus.New()
	svc := &Service{
		Engine:      engine.New(bundle, sink, logg),
		Fleet:       reg,
		Store:       st,
		bus:         eb,
		sink:        sink,
		monitor:     mon,
		log:         logg,
		apiEnabled:  cfg.API.Enabled,
		apiAddr:     cfg.API.Addr,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}
	if cfg.Telemetry.Enabled {
		tm, err := telemetry.NewManager(cfg.MQTT, cfg.Telemetry, reg, eb)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("telemetry manager: %w", err)
		}
		svc.telemetry = tm
	}
	return svc, nil
}

// Run starts the configured surfaces and blocks until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	s.logPredictions(ctx)
	if s.telemetry != nil {
		go s.telemetry.Start(ctx)
	}
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.apiEnabled {
		go func() {
			if err := api.StartServer(ctx, s.apiAddr, api.NewMux(s.Fleet, s.Engine, s.Store, s.bus)); err != nil {
				s.log.Errorf("api server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// logPredictions drains prediction events from the bus into the debug
// log so served predictions leave a trace even without metric sinks.
func (s *Service) logPredictions(ctx context.Context) {
	sub := s.bus.Subscribe()
	go func() {
		defer s.bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				pe, ok := ev.(events.PredictionEvent)
				if !ok {
					continue
				}
				if pe.Err != nil {
					s.log.Warnf("prediction failed for %s: %v", pe.LocomotiveNumber, pe.Err)
					continue
				}
				s.log.Debugf("prediction %s type=%s risk=%.1f method=%s", pe.LocomotiveNumber, pe.Type, pe.RiskScore, pe.Method)
			}
		}
	}()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	s.monitor.Flush(2 * time.Second)
	return s.Store.Close()
}
