// Package forecast turns the latest energy record into a next-hour
// consumption prediction.
package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/energy-analytics/internal/domain/model"
)

// FeatureCount is the width of the feature vector every predictor accepts.
const FeatureCount = 2

// Predictor is a pre-trained regression model. Each input row is one
// feature vector; the output holds one value per row.
// Implementations must be safe for concurrent use.
type Predictor interface {
	Predict(ctx context.Context, features [][]float64) ([]float64, error)
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(ctx context.Context, features [][]float64) ([]float64, error)

// Predict calls f.
func (f PredictorFunc) Predict(ctx context.Context, features [][]float64) ([]float64, error) {
	return f(ctx, features)
}

// Features is the [hour, day-of-week] pair fed to the model.
type Features struct {
	Hour int `json:"hour"` // 0-23
	Day  int `json:"day"`  // Monday=0 .. Sunday=6
}

// Vector returns the features in model input order.
func (f Features) Vector() []float64 {
	return []float64{float64(f.Hour), float64(f.Day)}
}

// Weekday returns the day as a time.Weekday.
func (f Features) Weekday() time.Weekday {
	return time.Weekday((f.Day + 1) % 7)
}

// ExtractFeatures derives the forecast features from a timestamp.
func ExtractFeatures(t time.Time) Features {
	return Features{
		Hour: t.Hour(),
		Day:  MondayIndex(t.Weekday()),
	}
}

// MondayIndex converts a Sunday-first weekday to Monday=0 indexing.
func MondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Result is the outcome of one forecast.
type Result struct {
	Features Features     `json:"features"`
	Basis    model.Record `json:"basis"`
	Raw      float64      `json:"raw"`
	Rounded  float64      `json:"rounded"`
}

// Round2 rounds to two decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Run predicts next-hour consumption from the last record of ds.
//
// The last record is taken by file order, not by maximum timestamp; an
// unsorted file therefore forecasts from whatever row happens to be last.
func Run(ctx context.Context, p Predictor, ds model.Dataset) (Result, error) {
	if p == nil {
		return Result{}, ErrNoPredictor
	}
	last, ok := ds.Last()
	if !ok {
		return Result{}, ErrEmptyDataset
	}

	f := ExtractFeatures(last.Timestamp)
	out, err := p.Predict(ctx, [][]float64{f.Vector()})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrPredict, err)
	}
	if len(out) != 1 {
		return Result{}, fmt.Errorf("%w: expected 1 value, got %d", ErrPredict, len(out))
	}
	if math.IsNaN(out[0]) || math.IsInf(out[0], 0) {
		return Result{}, fmt.Errorf("%w: non-finite prediction", ErrPredict)
	}

	return Result{
		Features: f,
		Basis:    last,
		Raw:      out[0],
		Rounded:  Round2(out[0]),
	}, nil
}
