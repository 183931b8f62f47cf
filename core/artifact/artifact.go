// Package artifact persists trained models and serves the process-wide copy.
//
// An artifact is a gzip compressed JSON document holding the fitted forest
// together with the feature order it was trained on. Files are produced and
// consumed only by Save and Load in this package.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/kilianp07/citytraffic/core/forest"
	"github.com/kilianp07/citytraffic/core/model"
)

// FormatVersion is bumped whenever the document layout changes.
const FormatVersion = 1

// Quality holds the fit scores reported by the trainer.
type Quality struct {
	R2           float64 `json:"r2"`
	MeanAbsError float64 `json:"mean_abs_error"`
	// InSample is true when the scores were computed on the training rows.
	InSample bool `json:"in_sample"`
}

// Artifact is a fitted model plus the metadata needed to use it safely.
type Artifact struct {
	ID            string         `json:"id"`
	FormatVersion int            `json:"format_version"`
	Mode          string         `json:"mode"`
	TrainedAt     time.Time      `json:"trained_at"`
	Features      []string       `json:"features"`
	Rows          int            `json:"rows"`
	Quality       Quality        `json:"quality"`
	Forest        *forest.Forest `json:"forest"`
}

// New wraps a fitted forest into an artifact with a fresh ID.
func New(f *forest.Forest, mode string, rows int, q Quality) *Artifact {
	return &Artifact{
		ID:            uuid.NewString(),
		FormatVersion: FormatVersion,
		Mode:          mode,
		TrainedAt:     time.Now().UTC(),
		Features:      slices.Clone(model.FeatureNames),
		Rows:          rows,
		Quality:       q,
		Forest:        f,
	}
}

// Predict returns the raw volume estimate for fv.
func (a *Artifact) Predict(fv model.FeatureVector) float64 {
	return a.Forest.Predict(fv.Values())
}

// Validate rejects artifacts that cannot be served with the current encoder.
func (a *Artifact) Validate() error {
	if a.FormatVersion != FormatVersion {
		return fmt.Errorf("unsupported format version %d", a.FormatVersion)
	}
	if !slices.Equal(a.Features, model.FeatureNames) {
		return fmt.Errorf("feature order %v does not match %v", a.Features, model.FeatureNames)
	}
	if err := a.Forest.Validate(); err != nil {
		return err
	}
	if a.Forest.NumFeatures != len(model.FeatureNames) {
		return fmt.Errorf("forest expects %d features, encoder produces %d", a.Forest.NumFeatures, len(model.FeatureNames))
	}
	return nil
}

// Save writes a to path, creating parent directories. The file is written
// to a temporary sibling and renamed so an existing artifact is either fully
// replaced or left untouched.
func Save(path string, a *Artifact) (err error) {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("refusing to save artifact: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	zw := gzip.NewWriter(tmp)
	if err = json.NewEncoder(zw).Encode(a); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = zw.Close(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads and validates the artifact at path.
func Load(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	defer func() { _ = zr.Close() }()
	var a Artifact
	if err := json.NewDecoder(zr).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	return &a, nil
}
