package forest

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const leaf = -1

// Node is a split or a leaf. Leaves have Feature == -1.
type Node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t,omitempty"`
	Left      int     `json:"l,omitempty"`
	Right     int     `json:"r,omitempty"`
	Value     float64 `json:"v"`
}

// Tree stores nodes in pre-order; the root is Nodes[0] and children always
// have larger indices than their parent.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Predict walks the tree for the sample x.
func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature == leaf {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Depth returns the number of edges on the longest root to leaf path.
func (t *Tree) Depth() int { return t.depth(0) }

func (t *Tree) depth(i int) int {
	n := t.Nodes[i]
	if n.Feature == leaf {
		return 0
	}
	return 1 + max(t.depth(n.Left), t.depth(n.Right))
}

func (t *Tree) validate(numFeatures int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Feature == leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= numFeatures {
			return fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: bad children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}

type builder struct {
	x        [][]float64
	y        []float64
	maxDepth int
	minLeaf  int
	nodes    []Node
}

func (b *builder) grow(idx []int, depth int) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: leaf, Value: b.mean(idx)})
	if len(idx) < 2*b.minLeaf || (b.maxDepth > 0 && depth >= b.maxDepth) {
		return id
	}
	feat, thr, ok := b.bestSplit(idx)
	if !ok {
		return id
	}
	var left, right []int
	for _, i := range idx {
		if b.x[i][feat] <= thr {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[id] = Node{Feature: feat, Threshold: thr, Left: l, Right: r, Value: b.nodes[id].Value}
	return id
}

func (b *builder) mean(idx []int) float64 {
	vals := make([]float64, len(idx))
	for k, i := range idx {
		vals[k] = b.y[i]
	}
	return stat.Mean(vals, nil)
}

// bestSplit maximises sumL²/nL + sumR²/nR, which is equivalent to minimising
// the children's summed squared error.
func (b *builder) bestSplit(idx []int) (feature int, threshold float64, ok bool) {
	n := len(idx)
	var total float64
	for _, i := range idx {
		total += b.y[i]
	}
	best := total * total / float64(n)
	const eps = 1e-9
	sorted := make([]int, n)
	for f := range b.x[idx[0]] {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, c int) bool { return b.x[sorted[a]][f] < b.x[sorted[c]][f] })
		var sumL float64
		for k := 1; k < n; k++ {
			sumL += b.y[sorted[k-1]]
			lo, hi := b.x[sorted[k-1]][f], b.x[sorted[k]][f]
			if lo == hi || k < b.minLeaf || n-k < b.minLeaf {
				continue
			}
			sumR := total - sumL
			score := sumL*sumL/float64(k) + sumR*sumR/float64(n-k)
			if score > best+eps {
				best = score
				feature, threshold, ok = f, (lo+hi)/2, true
			}
		}
	}
	return feature, threshold, ok
}
