// Package app ties the predictor, the report formatter and the history
// store together behind the form actions the UI exposes.
package app

import (
	"sync/atomic"

	"go.uber.org/zap"

	"housepredictor/ml"
	"housepredictor/report"
)

// Recorder persists successful predictions.
type Recorder interface {
	SavePrediction(features ml.HouseFeatures, result ml.PredictionResult) error
}

type Options struct {
	ModelsDir string
	CacheSize int
	Locale    string
	Recorder  Recorder
	Logger    *zap.Logger
}

// Service owns the current predictor. Bundles are immutable; Reload swaps
// in a freshly loaded one.
type Service struct {
	modelsDir string
	cacheSize int
	predictor atomic.Pointer[ml.Predictor]
	formatter *report.Formatter
	recorder  Recorder
	logger    *zap.Logger
}

// NewService loads the bundle from opts.ModelsDir once. An unusable bundle
// is not an error: the service starts and reports the problems.
func NewService(opts Options) (*Service, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Locale == "" {
		opts.Locale = "en"
	}
	formatter, err := report.New(opts.Locale)
	if err != nil {
		return nil, err
	}
	s := &Service{
		modelsDir: opts.ModelsDir,
		cacheSize: opts.CacheSize,
		formatter: formatter,
		recorder:  opts.Recorder,
		logger:    opts.Logger,
	}
	if err := s.Install(ml.LoadBundle(opts.ModelsDir, opts.Logger)); err != nil {
		return nil, err
	}
	return s, nil
}

// Install makes bundle the one used by every later prediction.
func (s *Service) Install(bundle *ml.Bundle) error {
	predictor, err := ml.NewPredictor(bundle, s.cacheSize, s.logger)
	if err != nil {
		return err
	}
	s.predictor.Store(predictor)
	if bundle.Usable() {
		s.logger.Info("models ready", zap.String("dir", bundle.Dir))
	} else {
		s.logger.Warn("models unavailable", zap.String("dir", bundle.Dir), zap.Error(bundle.Err()))
	}
	return nil
}

// Reload loads the model directory again and installs the result.
func (s *Service) Reload() (*ml.Bundle, error) {
	bundle := ml.LoadBundle(s.modelsDir, s.logger)
	if err := s.Install(bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (s *Service) Predictor() *ml.Predictor {
	return s.predictor.Load()
}

func (s *Service) Bundle() *ml.Bundle {
	return s.Predictor().Bundle()
}

func (s *Service) Formatter() *report.Formatter {
	return s.formatter
}

func (s *Service) ModelsDir() string {
	return s.modelsDir
}

// Predict runs one prediction from raw form values and records it.
func (s *Service) Predict(raw map[string]string) (ml.HouseFeatures, ml.PredictionResult, error) {
	features, result, err := s.Predictor().PredictRaw(raw)
	if err != nil {
		s.logger.Warn("prediction rejected", zap.Error(err))
		return features, result, err
	}
	s.logger.Info("prediction",
		zap.Float64s("features", ml.FeatureVector(features)),
		zap.Float64("price", result.Price),
		zap.String("tier", string(result.Tier)))
	if s.recorder != nil {
		if err := s.recorder.SavePrediction(features, result); err != nil {
			s.logger.Error("failed to record prediction", zap.Error(err))
		}
	}
	return features, result, nil
}
