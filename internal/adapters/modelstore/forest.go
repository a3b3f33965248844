package modelstore

import (
	"context"
	"fmt"

	"github.com/okian/energy-analytics/internal/domain/forecast"
)

// leaf marks a node without children.
const leaf = -1

// Node is one split or leaf of a regression tree. Samples with
// x[Feature] <= Threshold go Left.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a flat node array rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Forest averages the outputs of its trees.
type Forest struct {
	trees []Tree
}

// NewForest validates node links so evaluation can never loop or index out of range.
func NewForest(trees []Tree) (*Forest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: forest has no trees", ErrModelFormat)
	}
	for ti, t := range trees {
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("%w: tree %d: %v", ErrModelFormat, ti, err)
		}
	}
	return &Forest{trees: trees}, nil
}

func (t Tree) validate() error {
	n := len(t.Nodes)
	if n == 0 {
		return fmt.Errorf("no nodes")
	}
	for i, nd := range t.Nodes {
		if nd.Left == leaf && nd.Right == leaf {
			continue
		}
		if nd.Feature < 0 || nd.Feature >= forecast.FeatureCount {
			return fmt.Errorf("node %d: feature %d out of range", i, nd.Feature)
		}
		// Children must point forward, which also rules out cycles.
		if nd.Left <= i || nd.Left >= n || nd.Right <= i || nd.Right >= n {
			return fmt.Errorf("node %d: invalid children %d/%d", i, nd.Left, nd.Right)
		}
	}
	return nil
}

func (t Tree) eval(x []float64) float64 {
	i := 0
	for {
		nd := t.Nodes[i]
		if nd.Left == leaf {
			return nd.Value
		}
		if x[nd.Feature] <= nd.Threshold {
			i = nd.Left
		} else {
			i = nd.Right
		}
	}
}

// Predict returns the mean tree output for each row.
func (f *Forest) Predict(_ context.Context, features [][]float64) ([]float64, error) {
	if err := checkRows(features); err != nil {
		return nil, err
	}
	out := make([]float64, len(features))
	for i, row := range features {
		var sum float64
		for _, t := range f.trees {
			sum += t.eval(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out, nil
}
