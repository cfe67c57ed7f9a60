package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	ArtifactRegressionModel     = "regression_model"
	ArtifactClassificationModel = "classification_model"
	ArtifactRegressionScaler    = "scaler_regression"
	ArtifactClassScaler         = "scaler_classification"
	ArtifactLabelEncoder        = "label_encoder"
)

// Artifact names one serialized object the bundle needs.
type Artifact struct {
	Name string
	File string
}

var artifacts = []Artifact{
	{Name: ArtifactRegressionModel, File: "regression_model.json"},
	{Name: ArtifactClassificationModel, File: "classification_model.json"},
	{Name: ArtifactRegressionScaler, File: "scaler_regression.json"},
	{Name: ArtifactClassScaler, File: "scaler_classification.json"},
	{Name: ArtifactLabelEncoder, File: "label_encoder.json"},
}

func Artifacts() []Artifact {
	return append([]Artifact(nil), artifacts...)
}

// LoadBundle loads every artifact under dir. It never stops at the first
// failure: each missing or corrupt file is recorded on the returned bundle,
// which is then unusable.
func LoadBundle(dir string, logger *zap.Logger) *Bundle {
	if logger == nil {
		logger = zap.NewNop()
	}
	bundle := &Bundle{Dir: dir, LoadedAt: time.Now()}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		bundle.DirMissing = true
		logger.Warn("model directory not found", zap.String("dir", dir))
	}

	for _, artifact := range artifacts {
		path := filepath.Join(dir, artifact.File)
		payload, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			bundle.addProblem(&ArtifactProblem{Artifact: artifact.Name, Path: path, Missing: true})
			logger.Warn("artifact not found", zap.String("artifact", artifact.Name), zap.String("path", path))
			continue
		}
		if err == nil {
			err = bundle.assign(artifact.Name, payload)
		}
		if err != nil {
			bundle.addProblem(&ArtifactProblem{Artifact: artifact.Name, Path: path, Err: err})
			logger.Error("artifact failed to load", zap.String("artifact", artifact.Name), zap.String("path", path), zap.Error(err))
			continue
		}
		logger.Info("artifact loaded", zap.String("artifact", artifact.Name), zap.String("path", path))
	}
	return bundle
}

func (b *Bundle) assign(name string, payload []byte) error {
	var err error
	switch name {
	case ArtifactRegressionModel:
		b.Regressor, err = DecodeRegressor(payload)
	case ArtifactClassificationModel:
		b.Classifier, err = DecodeClassifier(payload)
	case ArtifactRegressionScaler:
		b.RegressionScaler, err = DecodeScaler(payload)
	case ArtifactClassScaler:
		b.ClassificationScaler, err = DecodeScaler(payload)
	case ArtifactLabelEncoder:
		b.Encoder, err = DecodeLabelEncoder(payload)
	default:
		err = fmt.Errorf("unknown artifact %q", name)
	}
	return err
}

type envelope struct {
	Type string `json:"type"`
}

type validator interface {
	validate() error
}

func decodeInto(payload []byte, target validator) error {
	if err := json.Unmarshal(payload, target); err != nil {
		return err
	}
	return target.validate()
}

func artifactType(payload []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return "", err
	}
	return env.Type, nil
}

func DecodeRegressor(payload []byte) (Regressor, error) {
	kind, err := artifactType(payload)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "linear_regression":
		model := &LinearRegression{}
		if err := decodeInto(payload, model); err != nil {
			return nil, err
		}
		return model, nil
	case "decision_tree_regressor":
		model := &DecisionTreeRegressor{}
		if err := decodeInto(payload, model); err != nil {
			return nil, err
		}
		return model, nil
	case "random_forest_regressor":
		model := &RandomForestRegressor{}
		if err := decodeInto(payload, model); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported regressor type %q", kind)
	}
}

func DecodeClassifier(payload []byte) (Classifier, error) {
	kind, err := artifactType(payload)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "decision_tree_classifier":
		model := &DecisionTreeClassifier{}
		if err := decodeInto(payload, model); err != nil {
			return nil, err
		}
		return model, nil
	case "random_forest_classifier":
		model := &RandomForestClassifier{}
		if err := decodeInto(payload, model); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported classifier type %q", kind)
	}
}

// DecodeScaler reads a scaler artifact. An untyped scaler is a standard
// scaler.
func DecodeScaler(payload []byte) (Scaler, error) {
	kind, err := artifactType(payload)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "", "standard_scaler":
		scaler := &StandardScaler{}
		if err := decodeInto(payload, scaler); err != nil {
			return nil, err
		}
		return scaler, nil
	case "min_max_scaler":
		scaler := &MinMaxScaler{}
		if err := decodeInto(payload, scaler); err != nil {
			return nil, err
		}
		return scaler, nil
	default:
		return nil, fmt.Errorf("unsupported scaler type %q", kind)
	}
}

func DecodeLabelEncoder(payload []byte) (LabelDecoder, error) {
	encoder := &LabelEncoder{}
	if err := decodeInto(payload, encoder); err != nil {
		return nil, err
	}
	return encoder, nil
}
