package metrics

import coremetrics "github.com/kilianp07/citytraffic/core/metrics"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPrediction forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPrediction(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordModelLoad forwards load events to sinks implementing ModelLoadRecorder.
func (m *MultiSink) RecordModelLoad(ev coremetrics.ModelLoadEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ModelLoadRecorder); ok {
			if err := rec.RecordModelLoad(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordTraining forwards training events to sinks implementing TrainingRecorder.
func (m *MultiSink) RecordTraining(ev coremetrics.TrainingEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.TrainingRecorder); ok {
			if err := rec.RecordTraining(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Sink is the full recorder set expected by the service wiring.
type Sink interface {
	coremetrics.MetricsSink
	coremetrics.ModelLoadRecorder
	coremetrics.TrainingRecorder
}

// New builds the sinks enabled in cfg. It returns a NopSink when none are.
func New(cfg coremetrics.Config) (Sink, error) {
	var sinks []coremetrics.MetricsSink
	if cfg.PrometheusEnabled {
		s, err := NewPromSink(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		if s, ok := sinks[0].(Sink); ok {
			return s, nil
		}
	}
	return NewMultiSink(sinks...), nil
}

// Close releases sinks holding connections.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
