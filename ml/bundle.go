package ml

import (
	"errors"
	"time"
)

// Bundle holds the five artifacts a prediction needs. A bundle is never
// mutated after loading; reloading produces a new bundle.
type Bundle struct {
	Dir                  string
	Regressor            Regressor
	Classifier           Classifier
	RegressionScaler     Scaler
	ClassificationScaler Scaler
	Encoder              LabelDecoder

	DirMissing bool
	Problems   []*ArtifactProblem
	LoadedAt   time.Time
}

// NewBundle assembles a bundle from already-decoded artifacts. Nil
// artifacts are recorded as missing.
func NewBundle(regressor Regressor, classifier Classifier, regScaler, classScaler Scaler, encoder LabelDecoder) *Bundle {
	b := &Bundle{
		Regressor:            regressor,
		Classifier:           classifier,
		RegressionScaler:     regScaler,
		ClassificationScaler: classScaler,
		Encoder:              encoder,
		LoadedAt:             time.Now(),
	}
	present := map[string]bool{
		ArtifactRegressionModel:     regressor != nil,
		ArtifactClassificationModel: classifier != nil,
		ArtifactRegressionScaler:    regScaler != nil,
		ArtifactClassScaler:         classScaler != nil,
		ArtifactLabelEncoder:        encoder != nil,
	}
	for _, artifact := range artifacts {
		if !present[artifact.Name] {
			b.addProblem(&ArtifactProblem{Artifact: artifact.Name, Missing: true})
		}
	}
	return b
}

func (b *Bundle) addProblem(p *ArtifactProblem) {
	b.Problems = append(b.Problems, p)
}

// Usable reports whether every artifact loaded.
func (b *Bundle) Usable() bool {
	if b == nil || len(b.Problems) > 0 {
		return false
	}
	return b.Regressor != nil && b.Classifier != nil &&
		b.RegressionScaler != nil && b.ClassificationScaler != nil && b.Encoder != nil
}

// Err is nil for a usable bundle. Otherwise it wraps ErrModelsUnavailable
// together with every recorded problem.
func (b *Bundle) Err() error {
	if b.Usable() {
		return nil
	}
	if b == nil {
		return ErrModelsUnavailable
	}
	errs := []error{ErrModelsUnavailable}
	for _, p := range b.Problems {
		errs = append(errs, p)
	}
	return errors.Join(errs...)
}

// Missing returns the names of artifacts whose file was not found.
func (b *Bundle) Missing() []string {
	if b == nil {
		return nil
	}
	var names []string
	for _, p := range b.Problems {
		if p.Missing {
			names = append(names, p.Artifact)
		}
	}
	return names
}
