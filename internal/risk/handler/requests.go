package handler

import (
	"finai/internal/risk"
	dErrors "finai/pkg/domain-errors"
)

// AnalyzeRequest is the HTTP request body for POST /risk/analyze.
// Pointer fields distinguish a missing field from an explicit zero.
type AnalyzeRequest struct {
	Income       *float64 `json:"income"`
	LoanAmount   *float64 `json:"loan_amount"`
	Age          *int     `json:"age"`
	CreditScore  *int     `json:"credit_score"`
	ExistingEMIs *float64 `json:"existing_emis"`
}

// Validate checks that every field is present. Range checks belong to the
// risk service, which builds the profile. Implements the Validatable interface
// for httputil.DecodeAndPrepare.
func (r *AnalyzeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	switch {
	case r.Income == nil:
		return missing(risk.FieldIncome)
	case r.LoanAmount == nil:
		return missing(risk.FieldLoanAmount)
	case r.Age == nil:
		return missing(risk.FieldAge)
	case r.CreditScore == nil:
		return missing(risk.FieldCreditScore)
	case r.ExistingEMIs == nil:
		return missing(risk.FieldExistingEMIs)
	}
	return nil
}

// Input returns the request values. Call only after Validate succeeds.
func (r *AnalyzeRequest) Input() risk.Input {
	return risk.Input{
		Income:       *r.Income,
		LoanAmount:   *r.LoanAmount,
		Age:          *r.Age,
		CreditScore:  *r.CreditScore,
		ExistingEMIs: *r.ExistingEMIs,
	}
}

func missing(field string) error {
	return dErrors.NewField(dErrors.CodeValidation, field, field+" is required")
}
