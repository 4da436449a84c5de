package pipeline

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"finai/internal/risk"
	dErrors "finai/pkg/domain-errors"
)

// Status is the application's stage in the lending pipeline.
type Status string

const (
	StatusLeadIntake  Status = "Lead Intake"
	StatusDocsPending Status = "Docs Pending"
	StatusUnderReview Status = "Under Review"
	StatusApproved    Status = "Approved"
	StatusRejected    Status = "Rejected"
	StatusDisbursed   Status = "Disbursed"
)

// Stages lists every status in pipeline order.
var Stages = []Status{
	StatusLeadIntake,
	StatusDocsPending,
	StatusUnderReview,
	StatusApproved,
	StatusRejected,
	StatusDisbursed,
}

// ParseStatus constructs a Status from external input.
func ParseStatus(s string) (Status, error) {
	for _, st := range Stages {
		if string(st) == s {
			return st, nil
		}
	}
	return "", dErrors.NewField(dErrors.CodeValidation, "status", "invalid status: "+s)
}

func (s Status) String() string {
	return string(s)
}

// Application is one applicant in the pipeline. Only raw inputs are stored;
// score, tier and decision are derived by the risk engine on read.
type Application struct {
	ID           uuid.UUID
	Name         string
	PAN          string
	Income       float64
	LoanAmount   float64
	Age          int
	CreditScore  int
	ExistingEMIs float64
	Status       Status
	CreatedAt    time.Time
}

// Profile rebuilds the validated risk profile for the application.
func (a Application) Profile() (risk.Profile, error) {
	return risk.NewProfile(a.Income, a.LoanAmount, a.Age, a.CreditScore, a.ExistingEMIs)
}

// NewApplicationInput carries caller-supplied fields for a new application.
type NewApplicationInput struct {
	Name         string
	PAN          string
	Income       float64
	LoanAmount   float64
	Age          int
	CreditScore  int
	ExistingEMIs float64
	Status       Status
}

var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

const maxNameLen = 120

// NewApplication validates input and builds an Application. Applicant
// fields are checked by risk.NewProfile, so an invalid applicant fails with
// the same *risk.ValidationError the analyze endpoint returns.
func NewApplication(id uuid.UUID, in NewApplicationInput, now time.Time) (*Application, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "name", "name is required")
	}
	if len(name) > maxNameLen {
		return nil, dErrors.NewField(dErrors.CodeValidation, "name", "name must be at most 120 characters")
	}
	pan := strings.ToUpper(strings.TrimSpace(in.PAN))
	if !panPattern.MatchString(pan) {
		return nil, dErrors.NewField(dErrors.CodeValidation, "pan", "pan must look like ABCDE1234F")
	}
	if _, err := risk.NewProfile(in.Income, in.LoanAmount, in.Age, in.CreditScore, in.ExistingEMIs); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = StatusLeadIntake
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}

	return &Application{
		ID:           id,
		Name:         name,
		PAN:          pan,
		Income:       in.Income,
		LoanAmount:   in.LoanAmount,
		Age:          in.Age,
		CreditScore:  in.CreditScore,
		ExistingEMIs: in.ExistingEMIs,
		Status:       status,
		CreatedAt:    now,
	}, nil
}
