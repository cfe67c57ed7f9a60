package ml

// Scaler transforms a raw feature vector into the space a model was
// trained in.
type Scaler interface {
	Transform(features []float64) ([]float64, error)
}

type Regressor interface {
	Predict(features []float64) (float64, error)
}

// Classifier returns an encoded class label.
type Classifier interface {
	Predict(features []float64) (int, error)
}

// LabelDecoder maps an encoded class label back to its name.
type LabelDecoder interface {
	Decode(label int) (string, error)
}
