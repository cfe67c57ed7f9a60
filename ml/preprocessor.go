package ml

import (
	"errors"
	"fmt"
)

// StandardScaler centers each feature on Mean and divides by Scale.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(features))
	}
	out := make([]float64, len(features))
	for i, value := range features {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (value - s.Mean[i]) / scale
	}
	return out, nil
}

func (s *StandardScaler) validate() error {
	if len(s.Mean) != NumFeatures || len(s.Scale) != NumFeatures {
		return fmt.Errorf("standard scaler needs %d means and scales, got %d and %d", NumFeatures, len(s.Mean), len(s.Scale))
	}
	return nil
}

// MinMaxScaler maps each feature with value*Scale + Min.
type MinMaxScaler struct {
	Min   []float64 `json:"min"`
	Scale []float64 `json:"scale"`
}

func (s *MinMaxScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Min) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Min), len(features))
	}
	out := make([]float64, len(features))
	for i, value := range features {
		out[i] = value*s.Scale[i] + s.Min[i]
	}
	return out, nil
}

func (s *MinMaxScaler) validate() error {
	if len(s.Min) != NumFeatures || len(s.Scale) != NumFeatures {
		return fmt.Errorf("min-max scaler needs %d mins and scales, got %d and %d", NumFeatures, len(s.Min), len(s.Scale))
	}
	return nil
}

// LabelEncoder holds class names indexed by their encoded label.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

func (e *LabelEncoder) Decode(label int) (string, error) {
	if label < 0 || label >= len(e.Classes) {
		return "", fmt.Errorf("label %d outside encoder range [0,%d)", label, len(e.Classes))
	}
	return e.Classes[label], nil
}

func (e *LabelEncoder) validate() error {
	if len(e.Classes) == 0 {
		return errors.New("label encoder has no classes")
	}
	seen := make(map[string]bool, len(e.Classes))
	for _, class := range e.Classes {
		if seen[class] {
			return fmt.Errorf("duplicate class %q", class)
		}
		seen[class] = true
	}
	return nil
}
