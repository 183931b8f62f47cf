package training

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/citytraffic/core/model"
)

// Predictor is anything that maps model input to a volume.
type Predictor interface {
	Predict(x []float64) float64
}

// Quality holds R² and mean absolute error for a set of examples.
type Quality struct {
	R2           float64 `json:"r2"`
	MeanAbsError float64 `json:"mean_abs_error"`
}

// FitQuality scores p against the examples.
func FitQuality(p Predictor, examples []model.Example) (Quality, error) {
	if len(examples) == 0 {
		return Quality{}, fmt.Errorf("%w: no examples to score", model.ErrTrainingData)
	}
	est := make([]float64, len(examples))
	obs := make([]float64, len(examples))
	for i, ex := range examples {
		est[i] = p.Predict(ex.Features.Values())
		obs[i] = ex.Volume
	}
	return Quality{
		R2:           stat.RSquaredFrom(est, obs, nil),
		MeanAbsError: floats.Distance(est, obs, 1) / float64(len(examples)),
	}, nil
}

// Split shuffles examples with a PCG source seeded by seed and returns the
// train and test partitions. The test share is rounded up, and both sides
// keep at least one example.
func Split(examples []model.Example, testFraction float64, seed uint64) (train, test []model.Example, err error) {
	n := len(examples)
	if n < 2 {
		return nil, nil, fmt.Errorf("%w: need at least 2 rows to split, got %d", model.ErrTrainingData, n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction %v must be in (0,1)", testFraction)
	}
	nTest := int(math.Ceil(float64(n) * testFraction))
	nTest = min(max(nTest, 1), n-1)
	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	test = make([]model.Example, 0, nTest)
	train = make([]model.Example, 0, n-nTest)
	for i, p := range perm {
		if i < nTest {
			test = append(test, examples[p])
		} else {
			train = append(train, examples[p])
		}
	}
	return train, test, nil
}
