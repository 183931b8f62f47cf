package prediction

import (
	"github.com/kilianp07/citytraffic/core/artifact"
	"github.com/kilianp07/citytraffic/core/model"
)

// MockModelSource returns a fixed artifact or error.
type MockModelSource struct {
	Artifact *artifact.Artifact
	Err      error
}

// Model returns the configured artifact, or model.ErrModelUnavailable when
// neither an artifact nor an error is set.
func (m MockModelSource) Model() (*artifact.Artifact, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Artifact == nil {
		return nil, model.ErrModelUnavailable
	}
	return m.Artifact, nil
}

// FixedJitter always returns its value.
type FixedJitter int

func (f FixedJitter) Offset() int { return int(f) }
