package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finai/internal/pipeline"
	"finai/pkg/platform/sentinel"
)

// seedNamespace derives stable application IDs from PANs so reseeding a
// store yields the same IDs.
var seedNamespace = uuid.MustParse("6f1c1f9e-4a57-4c43-9d8e-2f0b5f6c7a10")

var demoApplicants = []pipeline.NewApplicationInput{
	{Name: "Priya Patel", PAN: "BXKPP4521A", Income: 95000, LoanAmount: 3200000, Age: 32, CreditScore: 742, ExistingEMIs: 15200, Status: pipeline.StatusUnderReview},
	{Name: "Sneha Reddy", PAN: "CVLSR8634K", Income: 178000, LoanAmount: 2800000, Age: 38, CreditScore: 880, ExistingEMIs: 7800, Status: pipeline.StatusApproved},
	{Name: "Vikram Desai", PAN: "AHJPD6677M", Income: 320000, LoanAmount: 6000000, Age: 41, CreditScore: 860, ExistingEMIs: 12800, Status: pipeline.StatusApproved},
	{Name: "Anjali Mehta", PAN: "DMMPM3345L", Income: 45000, LoanAmount: 1500000, Age: 27, CreditScore: 580, ExistingEMIs: 22050, Status: pipeline.StatusRejected},
	{Name: "Ravi Kumar Sharma", PAN: "AEXPS7823N", Income: 125000, LoanAmount: 4500000, Age: 36, CreditScore: 720, ExistingEMIs: 17500, Status: pipeline.StatusDocsPending},
	{Name: "Rajesh Iyer", PAN: "BKKRT9912H", Income: 155000, LoanAmount: 5500000, Age: 45, CreditScore: 695, ExistingEMIs: 24800, Status: pipeline.StatusDocsPending},
	{Name: "Deepika Nair", PAN: "CANDN5567P", Income: 185000, LoanAmount: 3800000, Age: 38, CreditScore: 790, ExistingEMIs: 11100, Status: pipeline.StatusUnderReview},
	{Name: "Amit Singh Chauhan", PAN: "ACSPC1234D", Income: 110000, LoanAmount: 7500000, Age: 33, CreditScore: 680, ExistingEMIs: 0, Status: pipeline.StatusLeadIntake},
}

// SeedDemo loads the demo applicants into store, one minute apart ending at
// now. Applicants already present are skipped.
func SeedDemo(ctx context.Context, store Store, now time.Time) (int, error) {
	start := now.Add(-time.Duration(len(demoApplicants)) * time.Minute)
	created := 0
	for i, in := range demoApplicants {
		id := uuid.NewSHA1(seedNamespace, []byte(in.PAN))
		app, err := pipeline.NewApplication(id, in, start.Add(time.Duration(i)*time.Minute))
		if err != nil {
			return created, fmt.Errorf("seed applicant %s: %w", in.PAN, err)
		}
		if err := store.Create(ctx, app); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				continue
			}
			return created, fmt.Errorf("seed applicant %s: %w", in.PAN, err)
		}
		created++
	}
	return created, nil
}
