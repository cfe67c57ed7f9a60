package app

import (
	"housepredictor/ml"
)

// Form is the state of one UI client: six raw inputs, the report area and
// the status line.
type Form struct {
	svc    *Service
	values map[string]string
	report string
	status string
	err    string
	result *ml.PredictionResult
}

// FormState is a copy of a form suitable for rendering or encoding.
type FormState struct {
	Fields map[string]string    `json:"fields"`
	Report string               `json:"report"`
	Status string               `json:"status"`
	Error  string               `json:"error,omitempty"`
	Result *ml.PredictionResult `json:"result,omitempty"`
}

// NewForm starts at the default values with the start screen for the
// current bundle.
func (s *Service) NewForm() *Form {
	bundle := s.Bundle()
	return &Form{
		svc:    s,
		values: ml.DefaultValues(),
		report: s.formatter.StartScreen(bundle),
		status: s.formatter.StartStatus(bundle),
	}
}

// Update overwrites the given fields. Unknown keys are ignored.
func (f *Form) Update(values map[string]string) {
	for _, key := range ml.FeatureNames() {
		if value, ok := values[key]; ok {
			f.values[key] = value
		}
	}
}

// Predict runs the current inputs through the models. On failure the
// report and status are left as they were and the error message is set.
func (f *Form) Predict() error {
	f.err = ""
	features, result, err := f.svc.Predict(f.values)
	if err != nil {
		f.err = f.svc.formatter.ErrorMessage(err)
		return err
	}
	f.result = &result
	f.report = f.svc.formatter.Report(features, result)
	f.status = f.svc.formatter.PredictedStatus(result)
	return nil
}

// Reset restores the default inputs and replaces the report with the reset
// screen.
func (f *Form) Reset() {
	f.values = ml.DefaultValues()
	f.report = f.svc.formatter.ResetScreen()
	f.status = f.svc.formatter.ResetStatus()
	f.err = ""
	f.result = nil
}

func (f *Form) State() FormState {
	fields := make(map[string]string, len(f.values))
	for key, value := range f.values {
		fields[key] = value
	}
	state := FormState{
		Fields: fields,
		Report: f.report,
		Status: f.status,
		Error:  f.err,
	}
	if f.result != nil {
		result := *f.result
		state.Result = &result
	}
	return state
}
