package risk

import dErrors "finai/pkg/domain-errors"

// Decision is the final lending recommendation.
type Decision string

const (
	DecisionApprove     Decision = "Approve"
	DecisionConditional Decision = "Conditional"
	DecisionReject      Decision = "Reject"
)

// Probability thresholds for the decision rule.
const (
	ApproveMinProbability     = 75.0
	ConditionalMinProbability = 50.0
)

// Decide maps an approval probability to a decision.
func Decide(probability float64) Decision {
	switch {
	case probability >= ApproveMinProbability:
		return DecisionApprove
	case probability >= ConditionalMinProbability:
		return DecisionConditional
	default:
		return DecisionReject
	}
}

// ParseDecision constructs a Decision from external input.
func ParseDecision(s string) (Decision, error) {
	d := Decision(s)
	switch d {
	case DecisionApprove, DecisionConditional, DecisionReject:
		return d, nil
	}
	return "", dErrors.New(dErrors.CodeBadRequest, "invalid decision")
}

func (d Decision) String() string {
	return string(d)
}
