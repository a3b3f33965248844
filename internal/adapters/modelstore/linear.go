package modelstore

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/okian/energy-analytics/internal/domain/forecast"
)

// Linear is an ordinary least-squares style model: y = b + X·w.
type Linear struct {
	intercept float64
	coef      *mat.VecDense
}

// NewLinear validates the coefficient count and builds a Linear model.
func NewLinear(intercept float64, coefficients []float64) (*Linear, error) {
	if len(coefficients) != forecast.FeatureCount {
		return nil, fmt.Errorf("%w: linear model needs %d coefficients, got %d", ErrModelFormat, forecast.FeatureCount, len(coefficients))
	}
	w := make([]float64, len(coefficients))
	copy(w, coefficients)
	return &Linear{intercept: intercept, coef: mat.NewVecDense(len(w), w)}, nil
}

// Predict evaluates every row in one matrix-vector product.
func (l *Linear) Predict(_ context.Context, features [][]float64) ([]float64, error) {
	if len(features) == 0 {
		return nil, nil
	}
	if err := checkRows(features); err != nil {
		return nil, err
	}
	flat := make([]float64, 0, len(features)*forecast.FeatureCount)
	for _, row := range features {
		flat = append(flat, row...)
	}
	x := mat.NewDense(len(features), forecast.FeatureCount, flat)

	var y mat.VecDense
	y.MulVec(x, l.coef)

	out := make([]float64, len(features))
	for i := range out {
		out[i] = y.AtVec(i) + l.intercept
	}
	return out, nil
}
