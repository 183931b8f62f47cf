package forest

import (
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Options configures the ensemble.
type Options struct {
	NEstimators int `json:"n_estimators"`
	// MaxDepth bounds tree depth; 0 grows trees until leaves are pure.
	MaxDepth       int    `json:"max_depth"`
	MinSamplesLeaf int    `json:"min_samples_leaf"`
	Seed           uint64 `json:"seed"`
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.NEstimators <= 0 {
		o.NEstimators = 100
	}
	if o.MinSamplesLeaf <= 0 {
		o.MinSamplesLeaf = 1
	}
}

// Forest averages the predictions of its trees.
type Forest struct {
	Options     Options `json:"options"`
	NumFeatures int     `json:"num_features"`
	Trees       []Tree  `json:"trees"`
}

// Fit grows opts.NEstimators trees on bootstrap samples of (x, y). Tree i
// draws its sample from a source seeded with (opts.Seed, i), so the result
// does not depend on scheduling.
func Fit(x [][]float64, y []float64, opts Options) (*Forest, error) {
	opts.SetDefaults()
	if len(x) == 0 {
		return nil, fmt.Errorf("no samples")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%d samples but %d targets", len(x), len(y))
	}
	width := len(x[0])
	if width == 0 {
		return nil, fmt.Errorf("samples have no features")
	}
	for i, row := range x {
		if len(row) != width {
			return nil, fmt.Errorf("sample %d has %d features, want %d", i, len(row), width)
		}
	}

	trees := make([]Tree, opts.NEstimators)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for t := range trees {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(opts.Seed, uint64(t)))
			idx := make([]int, len(x))
			for k := range idx {
				idx[k] = rng.IntN(len(x))
			}
			b := &builder{x: x, y: y, maxDepth: opts.MaxDepth, minLeaf: opts.MinSamplesLeaf}
			b.grow(idx, 0)
			trees[t] = Tree{Nodes: b.nodes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Forest{Options: opts, NumFeatures: width, Trees: trees}, nil
}

// Predict returns the mean tree prediction for x.
func (f *Forest) Predict(x []float64) float64 {
	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].Predict(x)
	}
	return sum / float64(len(f.Trees))
}

// Validate checks the structure of a decoded forest so Predict cannot
// index out of range or loop.
func (f *Forest) Validate() error {
	if f == nil || len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	if f.NumFeatures <= 0 {
		return fmt.Errorf("forest has no features")
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(f.NumFeatures); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}
