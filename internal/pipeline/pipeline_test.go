package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finai/internal/risk"
	dErrors "finai/pkg/domain-errors"
)

func validInput() NewApplicationInput {
	return NewApplicationInput{
		Name:         " Priya Patel ",
		PAN:          "bxkpp4521a",
		Income:       95000,
		LoanAmount:   3200000,
		Age:          32,
		CreditScore:  742,
		ExistingEMIs: 15200,
	}
}

func TestNewApplication(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	id := uuid.New()

	t.Run("normalizes and defaults status", func(t *testing.T) {
		app, err := NewApplication(id, validInput(), now)
		require.NoError(t, err)
		assert.Equal(t, "Priya Patel", app.Name)
		assert.Equal(t, "BXKPP4521A", app.PAN)
		assert.Equal(t, StatusLeadIntake, app.Status)
		assert.Equal(t, now, app.CreatedAt)
	})

	t.Run("invalid applicant uses risk validation error", func(t *testing.T) {
		in := validInput()
		in.CreditScore = 250
		_, err := NewApplication(id, in, now)

		var verr *risk.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, risk.FieldCreditScore, verr.Field)
	})

	tests := []struct {
		name   string
		mutate func(*NewApplicationInput)
		field  string
	}{
		{"blank name", func(in *NewApplicationInput) { in.Name = "  " }, "name"},
		{"bad pan", func(in *NewApplicationInput) { in.PAN = "12345ABCDE" }, "pan"},
		{"unknown status", func(in *NewApplicationInput) { in.Status = "Funded" }, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := NewApplication(id, in, now)
			de, ok := dErrors.As(err)
			require.True(t, ok)
			assert.Equal(t, dErrors.CodeValidation, de.Code)
			assert.Equal(t, tt.field, de.Field)
		})
	}
}

func TestFormatRupees(t *testing.T) {
	tests := map[int64]string{
		0:         "₹0",
		999:       "₹999",
		5000:      "₹5,000",
		95000:     "₹95,000",
		125000:    "₹1,25,000",
		3200000:   "₹32,00,000",
		75000000:  "₹7,50,00,000",
		320000000: "₹32,00,00,000",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatRupees(decimal.NewFromInt(in)))
	}
}

func TestFormatCompactRupees(t *testing.T) {
	assert.Equal(t, "₹5.5Cr", FormatCompactRupees(decimal.NewFromInt(55_000_000)))
	assert.Equal(t, "₹32.0L", FormatCompactRupees(decimal.NewFromInt(3_200_000)))
	assert.Equal(t, "₹95,000", FormatCompactRupees(decimal.NewFromInt(95_000)))
}

func TestFOIR(t *testing.T) {
	assert.Equal(t, "16%", FOIR(15200, 95000))
	assert.Equal(t, "49%", FOIR(22050, 45000))
	assert.Equal(t, "0%", FOIR(0, 80000))
}

func TestParseStatus(t *testing.T) {
	for _, st := range Stages {
		got, err := ParseStatus(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}
	_, err := ParseStatus("lead intake")
	assert.Error(t, err)
}
