package handler

import "finai/internal/risk"

// ResultResponse is the wire shape of one evaluation.
type ResultResponse struct {
	RiskScore           float64 `json:"risk_score"`
	Category            string  `json:"category"`
	ApprovalProbability float64 `json:"approval_probability"`
	Decision            string  `json:"decision"`
}

// FromResult maps an engine result to its response DTO.
func FromResult(r risk.Result) ResultResponse {
	return ResultResponse{
		RiskScore:           r.RiskScore,
		Category:            r.Tier.String(),
		ApprovalProbability: r.ApprovalProbability,
		Decision:            r.Decision.String(),
	}
}
