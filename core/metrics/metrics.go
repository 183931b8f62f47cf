package metrics

import (
	"time"

	"github.com/kilianp07/citytraffic/core/model"
)

// PredictionEvent describes a single volume estimate served to a caller.
type PredictionEvent struct {
	Features model.FeatureVector
	Volume   float64
	// Source names the surface that asked: "form", "map", "cli".
	Source string
	Time   time.Time
}

// MetricsSink records predictions for observability purposes.
type MetricsSink interface {
	RecordPrediction(ev PredictionEvent) error
}

// ModelLoadEvent captures the outcome of the one-time artifact load.
type ModelLoadEvent struct {
	Path       string
	ArtifactID string
	Loaded     bool
	Error      string
	Duration   time.Duration
	Time       time.Time
}

// ModelLoadRecorder records artifact load attempts.
type ModelLoadRecorder interface {
	RecordModelLoad(ev ModelLoadEvent) error
}

// TrainingEvent summarises a finished training run.
type TrainingEvent struct {
	ArtifactID   string
	Mode         string
	Rows         int
	TrainRows    int
	TestRows     int
	InSample     bool
	R2           float64
	MeanAbsError float64
	Duration     time.Duration
	Time         time.Time
}

// TrainingRecorder records training runs.
type TrainingRecorder interface {
	RecordTraining(ev TrainingEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordPrediction(PredictionEvent) error { return nil }
func (NopSink) RecordModelLoad(ModelLoadEvent) error   { return nil }
func (NopSink) RecordTraining(TrainingEvent) error     { return nil }
