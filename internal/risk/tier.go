package risk

import dErrors "finai/pkg/domain-errors"

// Tier is the coarse risk bucket derived from a risk score.
type Tier string

const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

// Tier boundaries on the risk score. Changing either is a breaking change for
// every consumer of the category field.
const (
	LowRiskMinScore    = 70.0
	MediumRiskMinScore = 40.0
)

// Classify buckets a risk score. Risk never increases as the score increases.
func Classify(score float64) Tier {
	switch {
	case score >= LowRiskMinScore:
		return TierLow
	case score >= MediumRiskMinScore:
		return TierMedium
	default:
		return TierHigh
	}
}

// ParseTier constructs a Tier from external input.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	switch t {
	case TierLow, TierMedium, TierHigh:
		return t, nil
	}
	return "", dErrors.New(dErrors.CodeBadRequest, "invalid risk tier")
}

func (t Tier) String() string {
	return string(t)
}
