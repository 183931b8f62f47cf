package forest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepData() ([][]float64, []float64) {
	var x [][]float64
	var y []float64
	for i := 0; i < 40; i++ {
		x = append(x, []float64{float64(i), float64(i % 3)})
		if i < 20 {
			y = append(y, 10)
		} else {
			y = append(y, 50)
		}
	}
	return x, y
}

func TestFitLearnsStep(t *testing.T) {
	x, y := stepData()
	f, err := Fit(x, y, Options{NEstimators: 20, Seed: 1})
	require.NoError(t, err)
	assert.InDelta(t, 10, f.Predict([]float64{2, 2}), 5)
	assert.InDelta(t, 50, f.Predict([]float64{37, 1}), 5)
	assert.Less(t, f.Predict([]float64{5, 0}), f.Predict([]float64{30, 0}))
}

func TestFitDeterministic(t *testing.T) {
	x, y := stepData()
	a, err := Fit(x, y, Options{NEstimators: 8, Seed: 3})
	require.NoError(t, err)
	b, err := Fit(x, y, Options{NEstimators: 8, Seed: 3})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMaxDepth(t *testing.T) {
	x, y := stepData()
	for i := range y {
		y[i] = float64(i * i)
	}
	f, err := Fit(x, y, Options{NEstimators: 5, MaxDepth: 2, Seed: 1})
	require.NoError(t, err)
	for i := range f.Trees {
		assert.LessOrEqual(t, f.Trees[i].Depth(), 2)
	}
	unbounded, err := Fit(x, y, Options{NEstimators: 5, Seed: 1})
	require.NoError(t, err)
	assert.Greater(t, unbounded.Trees[0].Depth(), 2)
}

func TestConstantTargetIsSingleLeaf(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{7, 7, 7, 7}
	f, err := Fit(x, y, Options{NEstimators: 3})
	require.NoError(t, err)
	for i := range f.Trees {
		assert.Len(t, f.Trees[i].Nodes, 1)
	}
	assert.Equal(t, 7.0, f.Predict([]float64{100}))
}

func TestFitErrors(t *testing.T) {
	_, err := Fit(nil, nil, Options{})
	assert.Error(t, err)
	_, err = Fit([][]float64{{1}}, []float64{1, 2}, Options{})
	assert.Error(t, err)
	_, err = Fit([][]float64{{1, 2}, {1}}, []float64{1, 2}, Options{})
	assert.Error(t, err)
}

func TestJSONRoundTripPredictsSame(t *testing.T) {
	x, y := stepData()
	f, err := Fit(x, y, Options{NEstimators: 4, MaxDepth: 4, Seed: 9})
	require.NoError(t, err)
	data, err := json.Marshal(f)
	require.NoError(t, err)
	var back Forest
	require.NoError(t, json.Unmarshal(data, &back))
	require.NoError(t, back.Validate())
	for _, row := range x {
		assert.Equal(t, f.Predict(row), back.Predict(row))
	}
}

func TestValidateRejectsCorruptForest(t *testing.T) {
	assert.Error(t, (&Forest{}).Validate())
	bad := &Forest{NumFeatures: 1, Trees: []Tree{{Nodes: []Node{{Feature: 0, Left: 0, Right: 5}}}}}
	assert.Error(t, bad.Validate())
	badFeature := &Forest{NumFeatures: 1, Trees: []Tree{{Nodes: []Node{
		{Feature: 3, Left: 1, Right: 2}, {Feature: leaf}, {Feature: leaf},
	}}}}
	assert.Error(t, badFeature.Validate())
}
