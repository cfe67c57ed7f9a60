package ml

import (
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Predictor runs both models of a bundle over one set of features.
type Predictor struct {
	bundle *Bundle
	cache  *lru.Cache[HouseFeatures, PredictionResult]
	logger *zap.Logger
}

// NewPredictor wraps bundle. cacheSize <= 0 disables memoization.
func NewPredictor(bundle *Bundle, cacheSize int, logger *zap.Logger) (*Predictor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Predictor{bundle: bundle, logger: logger}
	if cacheSize > 0 {
		cache, err := lru.New[HouseFeatures, PredictionResult](cacheSize)
		if err != nil {
			return nil, err
		}
		p.cache = cache
	}
	return p, nil
}

func (p *Predictor) Bundle() *Bundle {
	return p.bundle
}

// Ready reports whether Predict can succeed for valid input.
func (p *Predictor) Ready() bool {
	return p.bundle.Usable()
}

// PredictRaw checks the bundle, then parses the raw form values, then
// predicts. Neither failure reaches a model.
func (p *Predictor) PredictRaw(raw map[string]string) (HouseFeatures, PredictionResult, error) {
	if err := p.bundle.Err(); err != nil {
		return HouseFeatures{}, PredictionResult{}, err
	}
	features, err := ParseFeatures(raw)
	if err != nil {
		return HouseFeatures{}, PredictionResult{}, err
	}
	result, err := p.Predict(features)
	return features, result, err
}

// Predict scales the features for each model, runs the regressor for the
// price and the classifier for the tier. An unusable bundle fails before
// any model is touched.
func (p *Predictor) Predict(features HouseFeatures) (PredictionResult, error) {
	if err := p.bundle.Err(); err != nil {
		return PredictionResult{}, err
	}
	if p.cache != nil {
		if result, ok := p.cache.Get(features); ok {
			return result, nil
		}
	}

	vector := FeatureVector(features)

	regInput, err := p.bundle.RegressionScaler.Transform(vector)
	if err != nil {
		return PredictionResult{}, fmt.Errorf("%w: regression scaler: %v", ErrInferenceFailure, err)
	}
	price, err := p.bundle.Regressor.Predict(regInput)
	if err != nil {
		return PredictionResult{}, fmt.Errorf("%w: regressor: %v", ErrInferenceFailure, err)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return PredictionResult{}, fmt.Errorf("%w: regressor returned %v", ErrInferenceFailure, price)
	}
	if price < 0 {
		p.logger.Warn("negative price clamped to zero", zap.Float64("price", price))
		price = 0
	}

	classInput, err := p.bundle.ClassificationScaler.Transform(vector)
	if err != nil {
		return PredictionResult{}, fmt.Errorf("%w: classification scaler: %v", ErrInferenceFailure, err)
	}
	encoded, err := p.bundle.Classifier.Predict(classInput)
	if err != nil {
		return PredictionResult{}, fmt.Errorf("%w: classifier: %v", ErrInferenceFailure, err)
	}
	name, err := p.bundle.Encoder.Decode(encoded)
	if err != nil {
		return PredictionResult{}, fmt.Errorf("%w: label encoder: %v", ErrInferenceFailure, err)
	}
	tier, err := ParseTier(name)
	if err != nil {
		return PredictionResult{}, fmt.Errorf("%w: %v", ErrInferenceFailure, err)
	}

	result := PredictionResult{Price: price, Tier: tier}
	if p.cache != nil {
		p.cache.Add(features, result)
	}
	p.logger.Debug("prediction",
		zap.Float64s("features", vector),
		zap.Float64("price", price),
		zap.String("tier", string(tier)))
	return result, nil
}
