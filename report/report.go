// Package report renders prediction results and status screens as text.
package report

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"housepredictor/ml"
)

const (
	boxTop    = "╔═══════════════════════════════════════════════╗"
	boxBottom = "╚═══════════════════════════════════════════════╝"
	rule      = "───────────────────────────────────────────────"
)

var fieldLabels = map[string]string{
	"area":           "Area (m²)",
	"bedrooms":       "Bedrooms",
	"bathrooms":      "Bathrooms",
	"age":            "Building age (years)",
	"location_score": "Location score (1-10)",
	"garage":         "Garages",
}

var markers = map[ml.Tier]string{
	ml.TierLow:    "🟢",
	ml.TierMedium: "🟡",
	ml.TierHigh:   "🔴",
}

// Marker returns the display marker for a tier.
func Marker(tier ml.Tier) string {
	if marker, ok := markers[tier]; ok {
		return marker
	}
	return "⚪"
}

type Formatter struct {
	printer *message.Printer
	locale  string
}

// New returns a formatter for locale ("en" or "id").
func New(locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	cat, err := newCatalog()
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return &Formatter{
		printer: message.NewPrinter(tag, message.Catalog(cat)),
		locale:  locale,
	}, nil
}

func (f *Formatter) Locale() string {
	return f.locale
}

// T translates a catalog key.
func (f *Formatter) T(key string, args ...interface{}) string {
	return f.printer.Sprintf(key, args...)
}

// Price formats a price in whole rupiah with locale digit grouping.
// Prices are never shown below zero.
func (f *Formatter) Price(price float64) string {
	return f.printer.Sprintf("Rp %.0f", math.Max(0, math.Round(price)))
}

// FieldLabel returns the translated label of a form field.
func (f *Formatter) FieldLabel(key string) string {
	label, ok := fieldLabels[key]
	if !ok {
		return key
	}
	return f.T(label)
}

// Report renders a prediction together with the inputs it was made from.
func (f *Formatter) Report(features ml.HouseFeatures, result ml.PredictionResult) string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line(boxTop)
	line("              %s", f.T("PREDICTION RESULT"))
	line(boxBottom)
	line("")
	line("💰 %s", f.T("PREDICTED PRICE (REGRESSION)"))
	line("   %s", f.Price(result.Price))
	line("")
	line("🏷️  %s", f.T("PRICE TIER (CLASSIFICATION)"))
	line("   %s %s", Marker(result.Tier), result.Tier)
	line("")
	line(rule)
	line("")
	line("📋 %s", f.T("INPUT DATA:"))
	line("")
	for _, field := range ml.Fields() {
		value, _ := features.Value(field.Key)
		line("   %-24s: %s", f.FieldLabel(field.Key), f.inputValue(field.Key, value))
	}
	line("")
	line(rule)

	if out := features.OutOfRange(); len(out) > 0 {
		line("")
		line("⚠️  %s", f.T("NOTES:"))
		for _, field := range out {
			line("   %s", f.T("%s is outside the usual range %s-%s.",
				f.FieldLabel(field.Key), formatNumber(field.Min), formatNumber(field.Max)))
		}
		line("")
		line(rule)
	}

	line("")
	line("💡 %s", f.T("INTERPRETATION:"))
	for _, text := range interpretation(result.Tier) {
		line("   %s", f.T(text))
	}
	line("")
	b.WriteString(boxBottom)
	return b.String()
}

func (f *Formatter) inputValue(key string, value float64) string {
	text := formatNumber(value)
	switch key {
	case "area":
		return f.T("%s m²", text)
	case "age":
		return f.T("%s years", text)
	case "location_score":
		return text + "/10"
	default:
		return text
	}
}

func interpretation(tier ml.Tier) []string {
	switch tier {
	case ml.TierLow:
		return []string{"This house falls in the low price tier.", "A fit for buyers on a limited budget."}
	case ml.TierMedium:
		return []string{"This house falls in the medium price tier.", "Ideal for small to mid-sized families."}
	default:
		return []string{"This house falls in the high price tier.", "A premium property with full facilities."}
	}
}

// ReadyScreen is shown when every artifact loaded.
func (f *Formatter) ReadyScreen() string {
	return strings.Join([]string{
		boxTop,
		"         ✅ " + f.T("READY TO PREDICT"),
		boxBottom,
		"",
		f.T("Enter the house data in the form, then press"),
		f.T("\"PREDICT PRICE\" to see the result."),
		"",
		f.T("Models in use:"),
		"  • " + f.T("Price regressor"),
		"  • " + f.T("Tier classifier"),
		"",
		boxBottom,
	}, "\n")
}

// MissingScreen explains which artifacts are missing and how to fix it.
func (f *Formatter) MissingScreen(bundle *ml.Bundle) string {
	lines := []string{
		boxTop,
		"         ⚠️  " + f.T("MODELS NOT AVAILABLE") + "  ⚠️",
		boxBottom,
		"",
	}
	if bundle != nil {
		if bundle.DirMissing {
			lines = append(lines, "❌ "+f.T("Model directory not found: %s", bundle.Dir))
		}
		for _, p := range bundle.Problems {
			if p.Missing {
				lines = append(lines, "❌ "+f.T("File not found: %s", p.Path))
			} else {
				lines = append(lines, "❌ "+f.T("Cannot load %s: %v", p.Artifact, p.Err))
			}
		}
		lines = append(lines, "")
	}
	dir := "models/"
	if bundle != nil && bundle.Dir != "" {
		dir = bundle.Dir
	}
	lines = append(lines,
		"📝 "+f.T("TO GET STARTED:"),
		"",
		"1. "+f.T("Export the trained models as JSON into %s", dir),
	)
	for _, artifact := range ml.Artifacts() {
		lines = append(lines, "     - "+artifact.File)
	}
	lines = append(lines,
		"2. "+f.T("Restart the application."),
		"",
		boxBottom,
	)
	return strings.Join(lines, "\n")
}

func (f *Formatter) ResetScreen() string {
	return strings.Join([]string{
		boxTop,
		"         ✅ " + f.T("INPUT RESET"),
		boxBottom,
		"",
		f.T("Enter new house data and press \"PREDICT PRICE\"."),
		"",
		boxBottom,
	}, "\n")
}

// StartScreen picks the ready or missing screen for bundle.
func (f *Formatter) StartScreen(bundle *ml.Bundle) string {
	if bundle.Usable() {
		return f.ReadyScreen()
	}
	return f.MissingScreen(bundle)
}

// StartStatus is the status line matching StartScreen.
func (f *Formatter) StartStatus(bundle *ml.Bundle) string {
	if bundle.Usable() {
		return "✅ " + f.T("Models loaded, ready to predict")
	}
	return "❌ " + f.T("Models not found, export the models first")
}

func (f *Formatter) PredictedStatus(result ml.PredictionResult) string {
	return "✅ " + f.T("Prediction OK, price: %s", f.Price(result.Price))
}

func (f *Formatter) ResetStatus() string {
	return "✅ " + f.T("Input reset")
}

// ErrorMessage turns a predict failure into text for the user.
func (f *Formatter) ErrorMessage(err error) string {
	var inputErr *ml.InputError
	switch {
	case errors.Is(err, ml.ErrModelsUnavailable):
		return f.T("Models are not available yet. Export the models first.")
	case errors.As(err, &inputErr):
		return f.T("Please enter valid numeric values (%s).", f.FieldLabel(inputErr.Field))
	default:
		return f.T("Prediction failed: %v", err)
	}
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
