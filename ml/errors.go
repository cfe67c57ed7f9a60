package ml

import (
	"errors"
	"fmt"
)

var (
	ErrMissingArtifact   = errors.New("artifact missing")
	ErrCorruptArtifact   = errors.New("artifact corrupt")
	ErrModelsUnavailable = errors.New("models unavailable")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInferenceFailure  = errors.New("inference failed")
)

// ArtifactProblem describes one artifact that could not be loaded.
type ArtifactProblem struct {
	Artifact string
	Path     string
	Missing  bool
	Err      error
}

func (p *ArtifactProblem) Error() string {
	if p.Missing {
		return fmt.Sprintf("%s: file not found: %s", p.Artifact, p.Path)
	}
	return fmt.Sprintf("%s: cannot load %s: %v", p.Artifact, p.Path, p.Err)
}

func (p *ArtifactProblem) Unwrap() []error {
	kind := ErrCorruptArtifact
	if p.Missing {
		kind = ErrMissingArtifact
	}
	if p.Err == nil {
		return []error{kind}
	}
	return []error{kind, p.Err}
}

// InputError reports a form field that did not parse as a number.
type InputError struct {
	Field string
	Value string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid number", e.Field, e.Value)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}
