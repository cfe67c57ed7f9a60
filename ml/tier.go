package ml

import "fmt"

type Tier string

const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

func Tiers() []Tier {
	return []Tier{TierLow, TierMedium, TierHigh}
}

// ParseTier accepts only the three known tier names.
func ParseTier(name string) (Tier, error) {
	switch Tier(name) {
	case TierLow, TierMedium, TierHigh:
		return Tier(name), nil
	default:
		return "", fmt.Errorf("unknown tier %q", name)
	}
}

type PredictionResult struct {
	Price float64 `json:"price"`
	Tier  Tier    `json:"tier"`
}
