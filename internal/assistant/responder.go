package assistant

import (
	"fmt"
	"strconv"
	"strings"

	"finai/internal/risk"
)

const (
	replyRisk      = "Loan risk depends on credit score, EMI burden, income ratio, and age stability."
	replyEMI       = "Banks usually allow EMIs up to 40–50% of monthly income."
	replyDocuments = "Required documents: ID proof, address proof, income proof, bank statement, property papers."
	replyGeneral   = "I can help with loan eligibility, EMI limits, risk, and required documents."
)

// Responder produces offline replies. Eligibility questions are answered by
// evaluating AssistantProfile with the shared engine.
type Responder struct {
	engine *risk.Engine
}

func NewResponder(engine *risk.Engine) *Responder {
	return &Responder{engine: engine}
}

// Reply answers msg according to its detected intent.
func (r *Responder) Reply(msg string) (string, error) {
	switch DetectIntent(msg) {
	case IntentRisk:
		return replyRisk, nil
	case IntentEMI:
		return replyEMI, nil
	case IntentDocuments:
		return replyDocuments, nil
	case IntentEligibility:
		return r.eligibility()
	}
	return replyGeneral, nil
}

func (r *Responder) eligibility() (string, error) {
	result, err := r.engine.Evaluate(risk.AssistantProfile())
	if err != nil {
		return "", fmt.Errorf("evaluate assistant profile: %w", err)
	}
	return fmt.Sprintf("Approval probability is %s%% with %s risk. Recommendation: %s.",
		formatPercent(result.ApprovalProbability),
		result.Tier,
		result.Decision,
	), nil
}

// formatPercent prints the shortest exact form of v and keeps one decimal on
// whole numbers, so 50 reads "50.0" and 46.8 reads "46.8".
func formatPercent(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
