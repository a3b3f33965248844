// Package modelstore loads serialized forecast models from disk.
package modelstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/okian/energy-analytics/internal/domain/forecast"
)

// Model kinds understood by Decode.
const (
	KindLinear = "linear"
	KindForest = "forest"
	KindTable  = "table"
)

// Artifact is the on-disk envelope. Only the fields of the declared kind are read.
type Artifact struct {
	Kind        string `json:"kind"`
	NFeatures   int    `json:"n_features,omitempty"`
	TrainedAt   string `json:"trained_at,omitempty"`
	Description string `json:"description,omitempty"`

	Intercept    float64   `json:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`

	Trees []Tree `json:"trees,omitempty"`

	Values [][]float64 `json:"values,omitempty"`
}

// Load reads the model artifact at path. ErrModelNotFound is returned when
// the file does not exist.
func Load(_ context.Context, path string) (forecast.Predictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	p, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Decode builds a predictor from artifact JSON.
func Decode(data []byte) (forecast.Predictor, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelFormat, err)
	}
	if a.NFeatures != 0 && a.NFeatures != forecast.FeatureCount {
		return nil, fmt.Errorf("%w: model expects %d features, dashboard supplies %d", ErrModelFormat, a.NFeatures, forecast.FeatureCount)
	}

	switch a.Kind {
	case KindLinear:
		return NewLinear(a.Intercept, a.Coefficients)
	case KindForest:
		return NewForest(a.Trees)
	case KindTable:
		return NewTable(a.Values)
	case "":
		return nil, fmt.Errorf("%w: missing kind", ErrModelFormat)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrModelFormat, a.Kind)
	}
}

// Save writes an artifact as indented JSON. Used by tooling and tests to
// produce model files.
func Save(path string, a Artifact) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model %s: %w", path, err)
	}
	return nil
}

func checkRows(features [][]float64) error {
	for i, row := range features {
		if len(row) != forecast.FeatureCount {
			return fmt.Errorf("%w: row %d has %d features, want %d", ErrFeatureShape, i, len(row), forecast.FeatureCount)
		}
	}
	return nil
}
