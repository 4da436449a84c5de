package handler

import (
	"strings"

	"finai/internal/pipeline"
	"finai/internal/risk"
	dErrors "finai/pkg/domain-errors"
)

// CreateApplicationRequest is the HTTP request body for POST /pipeline/applications.
type CreateApplicationRequest struct {
	Name         string   `json:"name"`
	PAN          string   `json:"pan"`
	Income       *float64 `json:"income"`
	LoanAmount   *float64 `json:"loan_amount"`
	Age          *int     `json:"age"`
	CreditScore  *int     `json:"credit_score"`
	ExistingEMIs *float64 `json:"existing_emis"`
	Status       string   `json:"status,omitempty"`
}

// Validate checks presence; ranges and formats are checked by
// pipeline.NewApplication.
func (r *CreateApplicationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	switch {
	case strings.TrimSpace(r.Name) == "":
		return required("name")
	case strings.TrimSpace(r.PAN) == "":
		return required("pan")
	case r.Income == nil:
		return required(risk.FieldIncome)
	case r.LoanAmount == nil:
		return required(risk.FieldLoanAmount)
	case r.Age == nil:
		return required(risk.FieldAge)
	case r.CreditScore == nil:
		return required(risk.FieldCreditScore)
	case r.ExistingEMIs == nil:
		return required(risk.FieldExistingEMIs)
	}
	if r.Status != "" {
		if _, err := pipeline.ParseStatus(strings.TrimSpace(r.Status)); err != nil {
			return err
		}
	}
	return nil
}

// Input converts the validated request into a service input.
func (r *CreateApplicationRequest) Input() pipeline.NewApplicationInput {
	return pipeline.NewApplicationInput{
		Name:         r.Name,
		PAN:          r.PAN,
		Income:       *r.Income,
		LoanAmount:   *r.LoanAmount,
		Age:          *r.Age,
		CreditScore:  *r.CreditScore,
		ExistingEMIs: *r.ExistingEMIs,
		Status:       pipeline.Status(strings.TrimSpace(r.Status)),
	}
}

func required(field string) error {
	return dErrors.NewField(dErrors.CodeValidation, field, field+" is required")
}
