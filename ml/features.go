package ml

import (
	"math"
	"strconv"
	"strings"
)

// NumFeatures is the width of every feature vector the artifacts accept.
const NumFeatures = 6

type HouseFeatures struct {
	Area          float64
	Bedrooms      float64
	Bathrooms     float64
	Age           float64
	LocationScore float64
	Garage        float64
}

// Field describes one form input and its recommended range.
type Field struct {
	Key     string
	Min     float64
	Max     float64
	Default float64
}

var fields = []Field{
	{Key: "area", Min: 500, Max: 5000, Default: 2500},
	{Key: "bedrooms", Min: 1, Max: 5, Default: 3},
	{Key: "bathrooms", Min: 1, Max: 4, Default: 2},
	{Key: "age", Min: 0, Max: 50, Default: 10},
	{Key: "location_score", Min: 1, Max: 10, Default: 7},
	{Key: "garage", Min: 0, Max: 3, Default: 1},
}

// Fields returns the form inputs in feature-vector order.
func Fields() []Field {
	return append([]Field(nil), fields...)
}

func FeatureNames() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Key
	}
	return names
}

func DefaultFeatures() HouseFeatures {
	var values [NumFeatures]float64
	for i, f := range fields {
		values[i] = f.Default
	}
	return fromArray(values)
}

// DefaultValues returns the defaults formatted as form text.
func DefaultValues() map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Key] = strconv.FormatFloat(f.Default, 'f', -1, 64)
	}
	return values
}

// ParseFeatures converts raw form text into features. The first field that
// is absent, empty, or not a finite number is reported as an *InputError.
func ParseFeatures(raw map[string]string) (HouseFeatures, error) {
	var values [NumFeatures]float64
	for i, f := range fields {
		text := strings.TrimSpace(raw[f.Key])
		value, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return HouseFeatures{}, &InputError{Field: f.Key, Value: raw[f.Key]}
		}
		values[i] = value
	}
	return fromArray(values), nil
}

func FeatureVector(feature HouseFeatures) []float64 {
	values := feature.array()
	return values[:]
}

// OutOfRange lists the fields whose value falls outside the recommended
// range. It never blocks a prediction.
func (h HouseFeatures) OutOfRange() []Field {
	values := h.array()
	var out []Field
	for i, f := range fields {
		if values[i] < f.Min || values[i] > f.Max {
			out = append(out, f)
		}
	}
	return out
}

// Value returns the field named key.
func (h HouseFeatures) Value(key string) (float64, bool) {
	values := h.array()
	for i, f := range fields {
		if f.Key == key {
			return values[i], true
		}
	}
	return 0, false
}

func (h HouseFeatures) array() [NumFeatures]float64 {
	return [NumFeatures]float64{h.Area, h.Bedrooms, h.Bathrooms, h.Age, h.LocationScore, h.Garage}
}

func fromArray(v [NumFeatures]float64) HouseFeatures {
	return HouseFeatures{
		Area:          v[0],
		Bedrooms:      v[1],
		Bathrooms:     v[2],
		Age:           v[3],
		LocationScore: v[4],
		Garage:        v[5],
	}
}
