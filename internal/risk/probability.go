package risk

import "math"

// Logistic transform parameters. A score of probabilityCenter maps to 50%.
const (
	probabilityCenter = 60.0
	probabilityScale  = 10.0
)

// ApprovalProbability converts a risk score into an approval probability
// percentage in [0,100], rounded to two decimals. It is monotonic in score.
func ApprovalProbability(score float64) float64 {
	p := 1 / (1 + math.Exp(-(score-probabilityCenter)/probabilityScale))
	return round2(p * 100)
}
