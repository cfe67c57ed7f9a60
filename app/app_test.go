package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"housepredictor/ml"
)

var fixtureDir = filepath.Join("..", "ml", "testdata", "models")

type memoryRecorder struct {
	records []ml.PredictionResult
	err     error
}

func (m *memoryRecorder) SavePrediction(_ ml.HouseFeatures, result ml.PredictionResult) error {
	m.records = append(m.records, result)
	return m.err
}

func copyFixtures(t *testing.T, dir string, skip string) {
	t.Helper()
	for _, artifact := range ml.Artifacts() {
		if artifact.Name == skip {
			continue
		}
		data, err := os.ReadFile(filepath.Join(fixtureDir, artifact.File))
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, artifact.File), data, 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func newService(t *testing.T, dir string, recorder Recorder) *Service {
	t.Helper()
	svc, err := NewService(Options{ModelsDir: dir, CacheSize: 4, Locale: "en", Recorder: recorder})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestNewFormStartsAtDefaults(t *testing.T) {
	svc := newService(t, fixtureDir, nil)
	state := svc.NewForm().State()
	want := map[string]string{
		"area": "2500", "bedrooms": "3", "bathrooms": "2",
		"age": "10", "location_score": "7", "garage": "1",
	}
	for key, value := range want {
		if state.Fields[key] != value {
			t.Errorf("field %s = %q, want %q", key, state.Fields[key], value)
		}
	}
	if !strings.Contains(state.Report, "READY TO PREDICT") {
		t.Fatalf("expected ready screen, got:\n%s", state.Report)
	}
}

func TestFormPredict(t *testing.T) {
	recorder := &memoryRecorder{}
	svc := newService(t, fixtureDir, recorder)
	form := svc.NewForm()
	form.Update(map[string]string{"area": "4000", "unknown": "1"})

	if err := form.Predict(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state := form.State()
	if state.Result == nil || state.Result.Tier != ml.TierHigh || state.Result.Price != 1250000000 {
		t.Fatalf("unexpected result: %+v", state.Result)
	}
	if !strings.Contains(state.Report, "Rp 1,250,000,000") || !strings.Contains(state.Report, "🔴 High") {
		t.Fatalf("unexpected report:\n%s", state.Report)
	}
	if !strings.Contains(state.Status, "Rp 1,250,000,000") {
		t.Fatalf("unexpected status: %q", state.Status)
	}
	if _, ok := state.Fields["unknown"]; ok {
		t.Fatal("unknown fields must be ignored")
	}
	if len(recorder.records) != 1 {
		t.Fatalf("expected 1 recorded prediction, got %d", len(recorder.records))
	}
}

func TestFormPredictRecorderFailureIsNotFatal(t *testing.T) {
	recorder := &memoryRecorder{err: errors.New("disk full")}
	form := newService(t, fixtureDir, recorder).NewForm()
	if err := form.Predict(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if form.State().Result == nil {
		t.Fatal("expected result despite recorder failure")
	}
}

func TestFormPredictInvalidInput(t *testing.T) {
	recorder := &memoryRecorder{}
	form := newService(t, fixtureDir, recorder).NewForm()
	before := form.State()
	form.Update(map[string]string{"bedrooms": "three"})

	err := form.Predict()
	if !errors.Is(err, ml.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	state := form.State()
	if state.Report != before.Report || state.Status != before.Status {
		t.Fatal("failed prediction must leave report and status unchanged")
	}
	if !strings.Contains(state.Error, "Bedrooms") {
		t.Fatalf("unexpected error message: %q", state.Error)
	}
	if len(recorder.records) != 0 {
		t.Fatal("nothing should be recorded")
	}
}

func TestFormPredictModelsUnavailable(t *testing.T) {
	dir := t.TempDir()
	copyFixtures(t, dir, ml.ArtifactClassificationModel)
	recorder := &memoryRecorder{}
	svc := newService(t, dir, recorder)
	form := svc.NewForm()

	if !strings.Contains(form.State().Report, "MODELS NOT AVAILABLE") {
		t.Fatalf("expected missing screen, got:\n%s", form.State().Report)
	}
	if err := form.Predict(); !errors.Is(err, ml.ErrModelsUnavailable) {
		t.Fatalf("expected ErrModelsUnavailable, got %v", err)
	}
	if !strings.Contains(form.State().Error, "not available") {
		t.Fatalf("unexpected error message: %q", form.State().Error)
	}
	if len(recorder.records) != 0 {
		t.Fatal("nothing should be recorded")
	}
}

func TestFormReset(t *testing.T) {
	form := newService(t, fixtureDir, nil).NewForm()
	form.Update(map[string]string{"area": "4800", "garage": "3", "age": "x"})
	form.Update(map[string]string{"age": "20"})
	if err := form.Predict(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	form.Reset()
	state := form.State()
	if state.Fields["area"] != "2500" || state.Fields["garage"] != "1" || state.Fields["age"] != "10" {
		t.Fatalf("expected defaults after reset, got %v", state.Fields)
	}
	if state.Result != nil {
		t.Fatal("expected result to be cleared")
	}
	if strings.Contains(state.Report, "Rp ") || !strings.Contains(state.Report, "INPUT RESET") {
		t.Fatalf("expected reset screen, got:\n%s", state.Report)
	}
	if state.Status != "✅ Input reset" {
		t.Fatalf("unexpected status: %q", state.Status)
	}
}

func TestServiceReload(t *testing.T) {
	dir := t.TempDir()
	svc := newService(t, dir, nil)
	if svc.Bundle().Usable() {
		t.Fatal("empty directory must not be usable")
	}
	before := svc.Bundle()

	copyFixtures(t, dir, "")
	bundle, err := svc.Reload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bundle.Usable() || !svc.Bundle().Usable() {
		t.Fatalf("expected usable bundle after reload: %v", bundle.Err())
	}
	if before.Usable() {
		t.Fatal("previous bundle must not change")
	}
}
