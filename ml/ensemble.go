package ml

import (
	"errors"
	"fmt"
)

type LinearRegression struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func (l *LinearRegression) Predict(features []float64) (float64, error) {
	if len(features) != len(l.Coef) {
		return 0, fmt.Errorf("linear model expects %d features, got %d", len(l.Coef), len(features))
	}
	sum := l.Intercept
	for i, value := range features {
		sum += l.Coef[i] * value
	}
	return sum, nil
}

func (l *LinearRegression) validate() error {
	if len(l.Coef) != NumFeatures {
		return fmt.Errorf("linear model needs %d coefficients, got %d", NumFeatures, len(l.Coef))
	}
	return nil
}

// RandomForestRegressor averages the outputs of its trees.
type RandomForestRegressor struct {
	Trees []DecisionTreeRegressor `json:"trees"`
}

func (f *RandomForestRegressor) Predict(features []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, errors.New("forest has no trees")
	}
	sum := 0.0
	for i := range f.Trees {
		value, err := f.Trees[i].Predict(features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += value
	}
	return sum / float64(len(f.Trees)), nil
}

func (f *RandomForestRegressor) validate() error {
	if len(f.Trees) == 0 {
		return errors.New("forest has no trees")
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// RandomForestClassifier takes a majority vote over its trees. Ties go to
// the lowest encoded label.
type RandomForestClassifier struct {
	Trees []DecisionTreeClassifier `json:"trees"`
}

func (f *RandomForestClassifier) Predict(features []float64) (int, error) {
	if len(f.Trees) == 0 {
		return 0, errors.New("forest has no trees")
	}
	votes := make(map[int]int)
	for i := range f.Trees {
		label, err := f.Trees[i].Predict(features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		votes[label]++
	}
	return majorityLabel(votes), nil
}

func (f *RandomForestClassifier) validate() error {
	if len(f.Trees) == 0 {
		return errors.New("forest has no trees")
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func majorityLabel(votes map[int]int) int {
	bestLabel := 0
	bestCount := -1
	for label, count := range votes {
		if count > bestCount || (count == bestCount && label < bestLabel) {
			bestCount = count
			bestLabel = label
		}
	}
	return bestLabel
}
