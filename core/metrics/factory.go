package metrics

import "github.com/railfleet/locopredict/core/factory"

var sinkRegistry = factory.NewRegistry[PredictionSink]()

// RegisterPredictionSink adds a prediction sink factory identified by name.
func RegisterPredictionSink(name string, f factory.Factory[PredictionSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewPredictionSink creates a PredictionSink from the provided configuration.
func NewPredictionSink(cfgs []factory.ModuleConfig) (PredictionSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]PredictionSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
