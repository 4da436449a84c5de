package risk

import "math"

// Applicant bounds. These are part of the public request contract.
const (
	MinAge         = 18
	MaxAge         = 75
	MinCreditScore = 300
	MaxCreditScore = 900
)

// Field names as they appear on the wire.
const (
	FieldIncome       = "income"
	FieldLoanAmount   = "loan_amount"
	FieldAge          = "age"
	FieldCreditScore  = "credit_score"
	FieldExistingEMIs = "existing_emis"
)

// Profile is one applicant's underwriting inputs.
// Invariant: a Profile obtained from NewProfile satisfies every field
// constraint. Fields are unexported so a validated profile cannot be altered.
type Profile struct {
	income       float64
	loanAmount   float64
	age          int
	creditScore  int
	existingEMIs float64
}

// NewProfile validates caller-supplied values and returns a Profile, or a
// *ValidationError naming the first field that fails. Values are never clamped.
func NewProfile(income, loanAmount float64, age, creditScore int, existingEMIs float64) (Profile, error) {
	p := Profile{
		income:       income,
		loanAmount:   loanAmount,
		age:          age,
		creditScore:  creditScore,
		existingEMIs: existingEMIs,
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Input carries unvalidated applicant values as received from a caller.
type Input struct {
	Income       float64
	LoanAmount   float64
	Age          int
	CreditScore  int
	ExistingEMIs float64
}

// Profile validates in through NewProfile.
func (in Input) Profile() (Profile, error) {
	return NewProfile(in.Income, in.LoanAmount, in.Age, in.CreditScore, in.ExistingEMIs)
}

// Validate checks the profile invariants in wire-field order.
func (p Profile) Validate() error {
	switch {
	case !isFinite(p.income):
		return &ValidationError{Field: FieldIncome, Constraint: "must be a finite number"}
	case p.income <= 0:
		return &ValidationError{Field: FieldIncome, Constraint: "must be greater than 0"}
	case !isFinite(p.loanAmount):
		return &ValidationError{Field: FieldLoanAmount, Constraint: "must be a finite number"}
	case p.loanAmount <= 0:
		return &ValidationError{Field: FieldLoanAmount, Constraint: "must be greater than 0"}
	case p.age < MinAge || p.age > MaxAge:
		return &ValidationError{Field: FieldAge, Constraint: "must be between 18 and 75"}
	case p.creditScore < MinCreditScore || p.creditScore > MaxCreditScore:
		return &ValidationError{Field: FieldCreditScore, Constraint: "must be between 300 and 900"}
	case !isFinite(p.existingEMIs):
		return &ValidationError{Field: FieldExistingEMIs, Constraint: "must be a finite number"}
	case p.existingEMIs < 0:
		return &ValidationError{Field: FieldExistingEMIs, Constraint: "must be greater than or equal to 0"}
	}
	return nil
}

func (p Profile) Income() float64       { return p.income }
func (p Profile) LoanAmount() float64   { return p.loanAmount }
func (p Profile) Age() int              { return p.age }
func (p Profile) CreditScore() int      { return p.creditScore }
func (p Profile) ExistingEMIs() float64 { return p.existingEMIs }

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
