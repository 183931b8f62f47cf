package artifact

import (
	"fmt"
	"sync"
	"time"

	coremetrics "github.com/kilianp07/citytraffic/core/metrics"
	"github.com/kilianp07/citytraffic/core/model"
	"github.com/kilianp07/citytraffic/infra/logger"
)

// LoadFunc reads an artifact from path.
type LoadFunc func(path string) (*Artifact, error)

// Store holds the single artifact used by the process. The file is read on
// the first call to Model; every later call, including concurrent first
// calls, shares that one result. Failures are cached too: a missing or
// corrupt artifact stays unavailable until the process restarts.
type Store struct {
	path string
	load LoadFunc
	log  logger.Logger
	sink coremetrics.ModelLoadRecorder
	once func() (*Artifact, error)
}

// Option customises a Store.
type Option func(*Store)

// WithLoader replaces the file loader.
func WithLoader(f LoadFunc) Option { return func(s *Store) { s.load = f } }

// WithLogger sets the logger used to report load failures.
func WithLogger(l logger.Logger) Option { return func(s *Store) { s.log = l } }

// WithRecorder reports the load outcome to a metrics sink.
func WithRecorder(r coremetrics.ModelLoadRecorder) Option { return func(s *Store) { s.sink = r } }

// NewStore creates a Store for the artifact at path. Nothing is read until
// Model is called.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{path: path, load: Load, log: logger.New("artifact-store"), sink: coremetrics.NopSink{}}
	for _, o := range opts {
		o(s)
	}
	s.once = sync.OnceValues(s.loadOnce)
	return s
}

// Path returns the artifact location.
func (s *Store) Path() string { return s.path }

// Model returns the loaded artifact or an error wrapping
// model.ErrModelUnavailable.
func (s *Store) Model() (*Artifact, error) {
	return s.once()
}

func (s *Store) loadOnce() (*Artifact, error) {
	start := time.Now()
	a, err := s.load(s.path)
	ev := coremetrics.ModelLoadEvent{Path: s.path, Duration: time.Since(start), Time: time.Now()}
	if err == nil && a == nil {
		err = fmt.Errorf("loader returned no artifact")
	}
	if err != nil {
		ev.Error = err.Error()
		s.record(ev)
		s.log.Warnf("could not load model from %s: %v", s.path, err)
		return nil, fmt.Errorf("%w: %v", model.ErrModelUnavailable, err)
	}
	ev.Loaded = true
	ev.ArtifactID = a.ID
	s.record(ev)
	s.log.Infof("model %s loaded from %s (%s, trained %s)", a.ID, s.path, a.Mode, a.TrainedAt.Format(time.RFC3339))
	return a, nil
}

func (s *Store) record(ev coremetrics.ModelLoadEvent) {
	if err := s.sink.RecordModelLoad(ev); err != nil {
		s.log.Errorf("record model load: %v", err)
	}
}
