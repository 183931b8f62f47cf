// Package training fits the traffic model and writes it to the artifact
// store. Two modes exist and report different things:
//
//   - synthetic: fits on every generated example and scores the same rows
//     (in-sample, so the score overstates generalisation);
//   - csv: fits on 80% of an external data set and scores the held-out 20%.
package training

import (
	"fmt"
	"io"
	"time"

	"github.com/kilianp07/citytraffic/core/artifact"
	"github.com/kilianp07/citytraffic/core/forest"
	coremetrics "github.com/kilianp07/citytraffic/core/metrics"
	"github.com/kilianp07/citytraffic/core/model"
	"github.com/kilianp07/citytraffic/core/synth"
	"github.com/kilianp07/citytraffic/infra/logger"
)

// Mode names the data source of a training run.
type Mode string

const (
	ModeSynthetic Mode = "synthetic"
	ModeCSV       Mode = "csv"
)

// Options configures a training run.
type Options struct {
	Forest forest.Options
	// TestFraction is the held-out share in csv mode.
	TestFraction float64
	SplitSeed    uint64
}

// SetDefaults fills a 20% holdout and split seed 42.
func (o *Options) SetDefaults() {
	o.Forest.SetDefaults()
	if o.TestFraction == 0 {
		o.TestFraction = 0.2
	}
	if o.SplitSeed == 0 {
		o.SplitSeed = 42
	}
}

// Report describes a finished run.
type Report struct {
	Mode      Mode
	Rows      int
	TrainRows int
	TestRows  int
	// InSample marks Quality as computed on the training rows.
	InSample bool
	Quality  Quality
	Artifact *artifact.Artifact
	Path     string
	Duration time.Duration
}

// Train fits a forest on the examples.
func Train(examples []model.Example, opts forest.Options) (*forest.Forest, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: no examples", model.ErrTrainingData)
	}
	x := make([][]float64, len(examples))
	y := make([]float64, len(examples))
	for i, ex := range examples {
		x[i] = ex.Features.Values()
		y[i] = ex.Volume
	}
	f, err := forest.Fit(x, y, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTrainingData, err)
	}
	return f, nil
}

// Trainer runs training jobs and saves their artifacts to a fixed path.
type Trainer struct {
	path string
	log  logger.Logger
	sink coremetrics.TrainingRecorder
}

// NewTrainer creates a Trainer writing to path. A nil sink disables
// training metrics.
func NewTrainer(path string, log logger.Logger, sink coremetrics.TrainingRecorder) *Trainer {
	if log == nil {
		log = logger.New("trainer")
	}
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Trainer{path: path, log: log, sink: sink}
}

// TrainSynthetic generates the synthetic data set from seed, fits on all of
// it and reports in-sample quality.
func (t *Trainer) TrainSynthetic(seed uint64, opts Options) (*Report, error) {
	opts.SetDefaults()
	start := time.Now()
	examples := synth.Generate(seed)
	t.log.Infof("generated %d synthetic examples (seed %d)", len(examples), seed)
	f, err := Train(examples, opts.Forest)
	if err != nil {
		return nil, err
	}
	q, err := FitQuality(f, examples)
	if err != nil {
		return nil, err
	}
	rep := &Report{Mode: ModeSynthetic, Rows: len(examples), TrainRows: len(examples), InSample: true, Quality: q}
	return t.finish(rep, f, start)
}

// TrainCSV reads examples from r, fits on the training split and reports
// quality on the held-out split.
func (t *Trainer) TrainCSV(r io.Reader, opts Options) (*Report, error) {
	opts.SetDefaults()
	start := time.Now()
	examples, err := LoadCSV(r)
	if err != nil {
		return nil, err
	}
	t.log.Infof("loaded %d rows", len(examples))
	train, test, err := Split(examples, opts.TestFraction, opts.SplitSeed)
	if err != nil {
		return nil, err
	}
	f, err := Train(train, opts.Forest)
	if err != nil {
		return nil, err
	}
	q, err := FitQuality(f, test)
	if err != nil {
		return nil, err
	}
	rep := &Report{Mode: ModeCSV, Rows: len(examples), TrainRows: len(train), TestRows: len(test), Quality: q}
	return t.finish(rep, f, start)
}

func (t *Trainer) finish(rep *Report, f *forest.Forest, start time.Time) (*Report, error) {
	a := artifact.New(f, string(rep.Mode), rep.Rows, artifact.Quality{
		R2:           rep.Quality.R2,
		MeanAbsError: rep.Quality.MeanAbsError,
		InSample:     rep.InSample,
	})
	if err := artifact.Save(t.path, a); err != nil {
		return nil, fmt.Errorf("save artifact: %w", err)
	}
	rep.Artifact = a
	rep.Path = t.path
	rep.Duration = time.Since(start)
	t.log.Infof("model %s saved to %s: r2=%.4f mae=%.1f in_sample=%t", a.ID, t.path, rep.Quality.R2, rep.Quality.MeanAbsError, rep.InSample)
	if err := t.sink.RecordTraining(coremetrics.TrainingEvent{
		ArtifactID:   a.ID,
		Mode:         string(rep.Mode),
		Rows:         rep.Rows,
		TrainRows:    rep.TrainRows,
		TestRows:     rep.TestRows,
		InSample:     rep.InSample,
		R2:           rep.Quality.R2,
		MeanAbsError: rep.Quality.MeanAbsError,
		Duration:     rep.Duration,
		Time:         time.Now(),
	}); err != nil {
		t.log.Errorf("record training: %v", err)
	}
	return rep, nil
}

// Scenario is a labelled feature vector used to sanity check a new model.
type Scenario struct {
	Label    string
	Features model.FeatureVector
}

// SampleScenarios are printed after every training run.
var SampleScenarios = []Scenario{
	{"Monday 8:00 AM, Regular day", model.FeatureVector{Hour: 8, DayOfWeek: model.Monday}},
	{"Friday 6:00 PM, Regular day", model.FeatureVector{Hour: 18, DayOfWeek: model.Friday}},
	{"Saturday 12:00 PM, Holiday", model.FeatureVector{Hour: 12, DayOfWeek: model.Saturday, IsHoliday: 1}},
	{"Wednesday 3:00 AM, Regular day", model.FeatureVector{Hour: 3, DayOfWeek: model.Wednesday}},
}
