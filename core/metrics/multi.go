package metrics

// MultiSink fans prediction events out to multiple sinks.
type MultiSink struct {
	Sinks []PredictionSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...PredictionSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPrediction forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordPrediction(ev PredictionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPrediction(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordFallback forwards fallback events.
func (m *MultiSink) RecordFallback(ev FallbackEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(FallbackRecorder); ok {
			if err := rec.RecordFallback(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordArtifactLoad forwards bundle load outcomes.
func (m *MultiSink) RecordArtifactLoad(ev ArtifactEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ArtifactRecorder); ok {
			if err := rec.RecordArtifactLoad(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordUsage forwards usage telemetry updates.
func (m *MultiSink) RecordUsage(ev UsageEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(UsageRecorder); ok {
			if err := rec.RecordUsage(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordMaintenance forwards maintenance reports.
func (m *MultiSink) RecordMaintenance(ev MaintenanceEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(MaintenanceRecorder); ok {
			if err := rec.RecordMaintenance(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordBatch forwards bulk prediction summaries.
func (m *MultiSink) RecordBatch(ev BatchEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(BatchRecorder); ok {
			if err := rec.RecordBatch(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFleetSize forwards fleet size metrics when supported by the sink.
func (m *MultiSink) RecordFleetSize(size int) error {
	for _, s := range m.Sinks {
		if fr, ok := s.(FleetSizeRecorder); ok {
			if err := fr.RecordFleetSize(size); err != nil {
				return err
			}
		}
	}
	return nil
}
