package ml

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type countingScaler struct{ calls int }

func (s *countingScaler) Transform(features []float64) ([]float64, error) {
	s.calls++
	return features, nil
}

type countingRegressor struct {
	calls int
	price float64
}

func (r *countingRegressor) Predict([]float64) (float64, error) {
	r.calls++
	return r.price, nil
}

type countingClassifier struct {
	calls int
	label int
	err   error
}

func (c *countingClassifier) Predict([]float64) (int, error) {
	c.calls++
	return c.label, c.err
}

type fakes struct {
	reg      *countingRegressor
	cls      *countingClassifier
	regScale *countingScaler
	clsScale *countingScaler
}

func (f *fakes) modelCalls() int {
	return f.reg.calls + f.cls.calls + f.regScale.calls + f.clsScale.calls
}

func newFakes() *fakes {
	return &fakes{
		reg:      &countingRegressor{price: 1000},
		cls:      &countingClassifier{label: 1},
		regScale: &countingScaler{},
		clsScale: &countingScaler{},
	}
}

func fixturePredictor(t *testing.T, cacheSize int) *Predictor {
	t.Helper()
	bundle := LoadBundle(filepath.Join("testdata", "models"), nil)
	p, err := NewPredictor(bundle, cacheSize, nil)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPredictWithFixtureArtifacts(t *testing.T) {
	p := fixturePredictor(t, 0)
	cases := []struct {
		name  string
		area  float64
		price float64
		tier  Tier
	}{
		{"small", 1500, 950000000, TierLow},
		{"defaults", 2500, 950000000, TierMedium},
		{"large", 4000, 1250000000, TierHigh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			features := DefaultFeatures()
			features.Area = tc.area
			result, err := p.Predict(features)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Price != tc.price {
				t.Fatalf("expected price %f, got %f", tc.price, result.Price)
			}
			if result.Tier != tc.tier {
				t.Fatalf("expected tier %s, got %s", tc.tier, result.Tier)
			}
		})
	}
}

func TestPredictInRangeGivesValidResult(t *testing.T) {
	p := fixturePredictor(t, 0)
	for _, f := range Fields() {
		for _, value := range []float64{f.Min, f.Max} {
			features := DefaultFeatures()
			switch f.Key {
			case "area":
				features.Area = value
			case "bedrooms":
				features.Bedrooms = value
			case "bathrooms":
				features.Bathrooms = value
			case "age":
				features.Age = value
			case "location_score":
				features.LocationScore = value
			case "garage":
				features.Garage = value
			}
			result, err := p.Predict(features)
			if err != nil {
				t.Fatalf("%s=%v: unexpected error: %v", f.Key, value, err)
			}
			if result.Price < 0 {
				t.Fatalf("%s=%v: negative price %f", f.Key, value, result.Price)
			}
			if _, err := ParseTier(string(result.Tier)); err != nil {
				t.Fatalf("%s=%v: %v", f.Key, value, err)
			}
		}
	}
}

func TestPredictMissingArtifactInvokesNoModel(t *testing.T) {
	encoder := &LabelEncoder{Classes: []string{"High", "Low", "Medium"}}
	cases := []struct {
		name  string
		build func(f *fakes) *Bundle
	}{
		{"regressor", func(f *fakes) *Bundle { return NewBundle(nil, f.cls, f.regScale, f.clsScale, encoder) }},
		{"classifier", func(f *fakes) *Bundle { return NewBundle(f.reg, nil, f.regScale, f.clsScale, encoder) }},
		{"regression scaler", func(f *fakes) *Bundle { return NewBundle(f.reg, f.cls, nil, f.clsScale, encoder) }},
		{"classification scaler", func(f *fakes) *Bundle { return NewBundle(f.reg, f.cls, f.regScale, nil, encoder) }},
		{"encoder", func(f *fakes) *Bundle { return NewBundle(f.reg, f.cls, f.regScale, f.clsScale, nil) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakes()
			p, err := NewPredictor(tc.build(f), 0, nil)
			if err != nil {
				t.Fatal(err)
			}
			if p.Ready() {
				t.Fatal("predictor must not be ready")
			}
			if _, err := p.Predict(DefaultFeatures()); !errors.Is(err, ErrModelsUnavailable) {
				t.Fatalf("expected ErrModelsUnavailable, got %v", err)
			}
			if _, _, err := p.PredictRaw(DefaultValues()); !errors.Is(err, ErrModelsUnavailable) {
				t.Fatalf("expected ErrModelsUnavailable, got %v", err)
			}
			if calls := f.modelCalls(); calls != 0 {
				t.Fatalf("expected no model calls, got %d", calls)
			}
		})
	}
}

func TestPredictRawInvalidInputInvokesNoModel(t *testing.T) {
	for _, key := range FeatureNames() {
		t.Run(key, func(t *testing.T) {
			f := newFakes()
			bundle := NewBundle(f.reg, f.cls, f.regScale, f.clsScale, &LabelEncoder{Classes: []string{"High", "Low", "Medium"}})
			p, err := NewPredictor(bundle, 0, nil)
			if err != nil {
				t.Fatal(err)
			}
			raw := DefaultValues()
			raw[key] = "abc"
			if _, _, err := p.PredictRaw(raw); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if calls := f.modelCalls(); calls != 0 {
				t.Fatalf("expected no model calls, got %d", calls)
			}
		})
	}
}

func TestPredictInferenceFailures(t *testing.T) {
	encoder := &LabelEncoder{Classes: []string{"High", "Low", "Medium", "Luxury"}}
	cases := []struct {
		name string
		reg  *countingRegressor
		cls  *countingClassifier
	}{
		{"infinite price", &countingRegressor{price: math.Inf(1)}, &countingClassifier{label: 1}},
		{"nan price", &countingRegressor{price: math.NaN()}, &countingClassifier{label: 1}},
		{"classifier error", &countingRegressor{price: 1}, &countingClassifier{err: errors.New("boom")}},
		{"label out of encoder range", &countingRegressor{price: 1}, &countingClassifier{label: 9}},
		{"unknown tier", &countingRegressor{price: 1}, &countingClassifier{label: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakes()
			p, err := NewPredictor(NewBundle(tc.reg, tc.cls, f.regScale, f.clsScale, encoder), 0, nil)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := p.Predict(DefaultFeatures()); !errors.Is(err, ErrInferenceFailure) {
				t.Fatalf("expected ErrInferenceFailure, got %v", err)
			}
		})
	}
}

func TestPredictClampsNegativePrice(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := newFakes()
	f.reg.price = -50
	bundle := NewBundle(f.reg, f.cls, f.regScale, f.clsScale, &LabelEncoder{Classes: []string{"High", "Low", "Medium"}})
	p, err := NewPredictor(bundle, 0, zap.New(core))
	if err != nil {
		t.Fatal(err)
	}
	result, err := p.Predict(DefaultFeatures())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Price != 0 || result.Tier != TierLow {
		t.Fatalf("unexpected result: %+v", result)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
}

func TestPredictUsesCache(t *testing.T) {
	f := newFakes()
	bundle := NewBundle(f.reg, f.cls, f.regScale, f.clsScale, &LabelEncoder{Classes: []string{"High", "Low", "Medium"}})
	p, err := NewPredictor(bundle, 8, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := p.Predict(DefaultFeatures()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if f.reg.calls != 1 || f.cls.calls != 1 {
		t.Fatalf("expected one model call each, got regressor=%d classifier=%d", f.reg.calls, f.cls.calls)
	}
}
