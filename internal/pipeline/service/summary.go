package service

import (
	"github.com/shopspring/decimal"

	"finai/internal/pipeline"
	"finai/internal/risk"
)

// Summary aggregates the evaluated pipeline.
type Summary struct {
	Rows []Row
	// Stages counts applications per status; every status is present.
	Stages       map[pipeline.Status]int
	Distribution map[risk.Tier]int
	// AverageRisk and ApprovalRate are rounded to two decimals; both are 0
	// for an empty pipeline.
	AverageRisk   float64
	ApprovalRate  float64
	PipelineValue decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

func aggregate(rows []Row) *Summary {
	s := &Summary{
		Rows:   rows,
		Stages: make(map[pipeline.Status]int, len(pipeline.Stages)),
		Distribution: map[risk.Tier]int{
			risk.TierLow:    0,
			risk.TierMedium: 0,
			risk.TierHigh:   0,
		},
		PipelineValue: decimal.Zero,
	}
	for _, st := range pipeline.Stages {
		s.Stages[st] = 0
	}
	if len(rows) == 0 {
		return s
	}

	riskSum := decimal.Zero
	approved := 0
	for _, r := range rows {
		s.Stages[r.Status]++
		s.Distribution[r.Category]++
		riskSum = riskSum.Add(decimal.NewFromFloat(r.Risk))
		s.PipelineValue = s.PipelineValue.Add(r.LoanAmount)
		if r.Decision == risk.DecisionApprove {
			approved++
		}
	}

	n := decimal.NewFromInt(int64(len(rows)))
	s.AverageRisk = riskSum.Div(n).Round(2).InexactFloat64()
	s.ApprovalRate = decimal.NewFromInt(int64(approved)).Mul(hundred).Div(n).Round(2).InexactFloat64()
	return s
}

// CountStatus returns how many applications are in st.
func (s *Summary) CountStatus(st pipeline.Status) int {
	return s.Stages[st]
}

// Recent returns up to n rows, newest first.
func (s *Summary) Recent(n int) []Row {
	if n > len(s.Rows) {
		n = len(s.Rows)
	}
	out := make([]Row, 0, n)
	for i := len(s.Rows) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.Rows[i])
	}
	return out
}
