package prediction

import (
	"time"

	"github.com/kilianp07/citytraffic/core/artifact"
	coremetrics "github.com/kilianp07/citytraffic/core/metrics"
	"github.com/kilianp07/citytraffic/core/model"
	"github.com/kilianp07/citytraffic/infra/logger"
)

// ModelSource provides the trained model. artifact.Store implements it.
type ModelSource interface {
	Model() (*artifact.Artifact, error)
}

// Service predicts traffic volumes. It never trains: without an artifact
// every call fails with model.ErrModelUnavailable.
type Service struct {
	models ModelSource
	sink   coremetrics.MetricsSink
	log    logger.Logger
	source string
}

// NewService creates a Service. Nil sink and logger fall back to no-ops.
func NewService(models ModelSource, sink coremetrics.MetricsSink, log logger.Logger) *Service {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{models: models, sink: sink, log: log}
}

// WithSource returns a copy of s that labels its prediction events with name.
func (s *Service) WithSource(name string) *Service {
	cp := *s
	cp.source = name
	return &cp
}

// Ready reports whether a model is available.
func (s *Service) Ready() error {
	_, err := s.models.Model()
	return err
}

// Predict returns the raw volume estimate for fv.
func (s *Service) Predict(fv model.FeatureVector) (float64, error) {
	m, err := s.models.Model()
	if err != nil {
		return 0, err
	}
	v := m.Predict(fv)
	if err := s.sink.RecordPrediction(coremetrics.PredictionEvent{
		Features: fv,
		Volume:   v,
		Source:   s.source,
		Time:     time.Now(),
	}); err != nil {
		s.log.Errorf("record prediction: %v", err)
	}
	return v, nil
}

// MapData predicts once for fv and derives per-location metrics, applying
// j independently to each location.
func (s *Service) MapData(fv model.FeatureVector, locations []Location, j Jitter) ([]LocationTraffic, error) {
	v, err := s.Predict(fv)
	if err != nil {
		return nil, err
	}
	out := make([]LocationTraffic, len(locations))
	for i, loc := range locations {
		out[i] = LocationTraffic{Location: loc, Result: DeriveMetrics(v, j)}
	}
	return out, nil
}
