package risk

import (
	"fmt"

	dErrors "finai/pkg/domain-errors"
)

// ValidationError reports an applicant field that violates its constraint.
// It is a client-input error: the profile never reaches the scoring function.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Constraint)
}

// Unwrap exposes the transport-facing domain error.
func (e *ValidationError) Unwrap() error {
	return dErrors.NewField(dErrors.CodeValidation, e.Field, e.Error())
}

// ComputationError reports arithmetic that produced a non-finite or
// inconsistent result. It fails the single evaluation only.
type ComputationError struct {
	Stage string
	Value float64
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("risk computation failed at %s: got %v", e.Stage, e.Value)
}

func (e *ComputationError) Unwrap() error {
	return dErrors.New(dErrors.CodeInternal, "risk computation failed")
}
