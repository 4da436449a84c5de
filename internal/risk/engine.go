package risk

import "math"

// Result is the outcome of one evaluation. It is a plain value: copying it
// shares nothing with the engine or with other callers.
type Result struct {
	RiskScore           float64
	Tier                Tier
	ApprovalProbability float64
	Decision            Decision
}

// Engine composes scoring, classification, probability and the decision rule.
// It holds no state, so one Engine may be shared by any number of goroutines.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate scores the profile once and derives tier and decision from that
// same score. Invalid profiles are rejected with *ValidationError before any
// arithmetic runs.
func (e *Engine) Evaluate(p Profile) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	score := Score(p)
	if !isFinite(score) {
		return Result{}, &ComputationError{Stage: "risk_score", Value: score}
	}

	probability := ApprovalProbability(score)
	if !isFinite(probability) {
		return Result{}, &ComputationError{Stage: "approval_probability", Value: probability}
	}

	result := Result{
		RiskScore:           score,
		Tier:                Classify(score),
		ApprovalProbability: probability,
		Decision:            Decide(probability),
	}
	if err := ConsistencyCheck(result); err != nil {
		return Result{}, err
	}
	return result, nil
}

// ConsistencyCheck verifies that a result's fields are in range and that its
// tier and decision follow from its own score and probability.
func ConsistencyCheck(r Result) error {
	switch {
	case r.RiskScore < 0 || r.RiskScore > 100 || math.IsNaN(r.RiskScore):
		return &ComputationError{Stage: "risk_score_range", Value: r.RiskScore}
	case r.ApprovalProbability < 0 || r.ApprovalProbability > 100 || math.IsNaN(r.ApprovalProbability):
		return &ComputationError{Stage: "approval_probability_range", Value: r.ApprovalProbability}
	case r.Tier != Classify(r.RiskScore):
		return &ComputationError{Stage: "risk_tier", Value: r.RiskScore}
	case r.Decision != Decide(r.ApprovalProbability):
		return &ComputationError{Stage: "decision", Value: r.ApprovalProbability}
	}
	return nil
}
