package modelstore

import (
	"context"
	"fmt"
	"math"
)

const (
	hoursPerDay = 24
	daysPerWeek = 7
)

// Table looks up a mean consumption by [hour][day].
type Table struct {
	values [hoursPerDay][daysPerWeek]float64
}

// NewTable requires a full 24x7 grid.
func NewTable(values [][]float64) (*Table, error) {
	if len(values) != hoursPerDay {
		return nil, fmt.Errorf("%w: table needs %d hour rows, got %d", ErrModelFormat, hoursPerDay, len(values))
	}
	t := &Table{}
	for h, row := range values {
		if len(row) != daysPerWeek {
			return nil, fmt.Errorf("%w: table hour %d needs %d day values, got %d", ErrModelFormat, h, daysPerWeek, len(row))
		}
		copy(t.values[h][:], row)
	}
	return t, nil
}

// Predict rounds each feature to the nearest cell and clamps it into the grid.
func (t *Table) Predict(_ context.Context, features [][]float64) ([]float64, error) {
	if err := checkRows(features); err != nil {
		return nil, err
	}
	out := make([]float64, len(features))
	for i, row := range features {
		h := clamp(int(math.Round(row[0])), hoursPerDay-1)
		d := clamp(int(math.Round(row[1])), daysPerWeek-1)
		out[i] = t.values[h][d]
	}
	return out, nil
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
