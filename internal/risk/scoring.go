package risk

import (
	"math"
	"strconv"
)

// Component weights. They sum to 1.0 and are a compatibility contract with
// existing callers; do not tune them.
const (
	WeightCredit = 0.35
	WeightIncome = 0.25
	WeightEMI    = 0.20
	WeightAge    = 0.20
)

const (
	// incomeRatioSaturation is the income-to-loan ratio at which the income
	// component reaches 1.
	incomeRatioSaturation = 5.0
	// ageCenter and ageSpread shape the Gaussian age factor.
	ageCenter = 40.0
	ageSpread = 200.0
)

// Breakdown holds the four normalized scoring components, each in [0,1].
type Breakdown struct {
	Credit float64
	Income float64
	EMI    float64
	Age    float64
}

// Components computes the normalized components for a validated profile.
// Divisions are safe because income and loan amount are strictly positive.
func Components(p Profile) Breakdown {
	creditRange := float64(MaxCreditScore - MinCreditScore)
	deltaAge := float64(p.age) - ageCenter

	return Breakdown{
		Credit: float64(p.creditScore-MinCreditScore) / creditRange,
		Income: math.Min((p.income/p.loanAmount)/incomeRatioSaturation, 1),
		EMI:    1 - math.Min(p.existingEMIs/p.income, 1),
		Age:    math.Exp(-(deltaAge * deltaAge) / ageSpread),
	}
}

// Weighted returns the raw weighted sum of the components, nominally in [0,1].
func (b Breakdown) Weighted() float64 {
	return WeightCredit*b.Credit +
		WeightIncome*b.Income +
		WeightEMI*b.EMI +
		WeightAge*b.Age
}

// Score maps a validated profile to a risk score in [0,100], rounded to two
// decimals. Higher is better.
func Score(p Profile) float64 {
	raw := Components(p).Weighted() * 100
	return round2(math.Max(0, math.Min(raw, 100)))
}

// round2 rounds to two decimals using correctly rounded decimal conversion
// (ties to even on the exact binary value), not math.Round(x*100)/100, so
// published scores match the reference outputs exactly.
func round2(v float64) float64 {
	if !isFinite(v) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
