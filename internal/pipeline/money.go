package pipeline

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	lakh  = decimal.NewFromInt(100_000)
	crore = decimal.NewFromInt(10_000_000)
)

// FormatRupees renders an amount in whole rupees with Indian digit grouping,
// e.g. 125000 -> "₹1,25,000".
func FormatRupees(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	neg := rounded.IsNegative()
	digits := rounded.Abs().String()

	var b strings.Builder
	b.WriteString("₹")
	if neg {
		b.WriteByte('-')
	}
	if len(digits) <= 3 {
		b.WriteString(digits)
		return b.String()
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	// leading group may be one or two digits; the rest are pairs
	first := len(head) % 2
	if first == 0 {
		first = 2
	}
	b.WriteString(head[:first])
	for i := first; i < len(head); i += 2 {
		b.WriteByte(',')
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)
	return b.String()
}

// FormatCompactRupees renders large amounts in crore or lakh with one
// decimal place ("₹5.5Cr", "₹32.0L"); smaller amounts use FormatRupees.
func FormatCompactRupees(amount decimal.Decimal) string {
	switch {
	case amount.Abs().GreaterThanOrEqual(crore):
		return "₹" + amount.Div(crore).StringFixed(1) + "Cr"
	case amount.Abs().GreaterThanOrEqual(lakh):
		return "₹" + amount.Div(lakh).StringFixed(1) + "L"
	}
	return FormatRupees(amount)
}

// FOIR is fixed obligations to income as a whole percent, e.g. "16%".
// Display only: the risk score uses the unrounded ratio.
func FOIR(existingEMIs, income float64) string {
	if income <= 0 {
		return "0%"
	}
	ratio := decimal.NewFromFloat(existingEMIs).
		Div(decimal.NewFromFloat(income)).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	return ratio.String() + "%"
}
