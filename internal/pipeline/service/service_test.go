package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"finai/internal/pipeline"
	"finai/internal/pipeline/service/mocks"
	"finai/internal/pipeline/store/memory"
	"finai/internal/risk"
	dErrors "finai/pkg/domain-errors"
	"finai/pkg/platform/audit"
	"finai/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,AuditPublisher

type PipelineServiceSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	store   *memory.InMemoryApplicationStore
	auditor *mocks.MockAuditPublisher
	service *Service
}

func TestPipelineServiceSuite(t *testing.T) {
	suite.Run(t, new(PipelineServiceSuite))
}

func (s *PipelineServiceSuite) SetupTest() {
	s.now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.store = memory.NewInMemoryApplicationStore()
	s.auditor = mocks.NewMockAuditPublisher(gomock.NewController(s.T()))
	s.service = New(s.store, risk.NewEngine(), WithAuditPublisher(s.auditor), WithConcurrency(3))
}

func (s *PipelineServiceSuite) seed() {
	n, err := SeedDemo(s.ctx, s.store, s.now)
	s.Require().NoError(err)
	s.Require().Equal(len(demoApplicants), n)
}

func (s *PipelineServiceSuite) TestSummary_Seeded() {
	s.seed()

	summary, err := s.service.Summary(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(summary.Rows, 8)
	s.Equal("Priya Patel", summary.Rows[0].Name)
	s.Equal("Amit Singh Chauhan", summary.Rows[7].Name)

	s.Equal(60.06, summary.AverageRisk)
	s.Equal(25.0, summary.ApprovalRate)
	s.Equal(map[risk.Tier]int{risk.TierLow: 2, risk.TierMedium: 5, risk.TierHigh: 1}, summary.Distribution)
	s.Equal(map[pipeline.Status]int{
		pipeline.StatusLeadIntake:  1,
		pipeline.StatusDocsPending: 2,
		pipeline.StatusUnderReview: 2,
		pipeline.StatusApproved:    2,
		pipeline.StatusRejected:    1,
		pipeline.StatusDisbursed:   0,
	}, summary.Stages)
	s.True(decimal.NewFromInt(34_800_000).Equal(summary.PipelineValue))
	s.Equal("₹3.5Cr", pipeline.FormatCompactRupees(summary.PipelineValue))
}

func (s *PipelineServiceSuite) TestSummary_RowsAgreeWithEngine() {
	s.seed()

	summary, err := s.service.Summary(s.ctx)
	s.Require().NoError(err)

	for _, row := range summary.Rows {
		s.Equal(risk.Classify(row.Risk), row.Category, row.Name)
		s.Equal(risk.ApprovalProbability(row.Risk), row.ApprovalProbability, row.Name)
		s.Equal(risk.Decide(row.ApprovalProbability), row.Decision, row.Name)
	}

	sneha := summary.Rows[1]
	s.Equal(72.88, sneha.Risk)
	s.Equal(risk.TierLow, sneha.Category)
	s.Equal(78.38, sneha.ApprovalProbability)
	s.Equal(risk.DecisionApprove, sneha.Decision)
	s.Equal("4%", sneha.FOIR)

	anjali := summary.Rows[3]
	s.Equal(35.27, anjali.Risk)
	s.Equal(risk.TierHigh, anjali.Category)
	s.Equal("49%", anjali.FOIR)
}

func (s *PipelineServiceSuite) TestSummary_Empty() {
	summary, err := s.service.Summary(s.ctx)
	s.Require().NoError(err)
	s.Empty(summary.Rows)
	s.Zero(summary.AverageRisk)
	s.Zero(summary.ApprovalRate)
	s.Len(summary.Stages, len(pipeline.Stages))
	s.True(summary.PipelineValue.IsZero())
}

func (s *PipelineServiceSuite) TestSummary_Recent() {
	s.seed()
	summary, err := s.service.Summary(s.ctx)
	s.Require().NoError(err)

	recent := summary.Recent(3)
	s.Require().Len(recent, 3)
	s.Equal("Amit Singh Chauhan", recent[0].Name)
	s.Equal("Ravi Kumar Sharma", recent[2].Name)
	s.Len(summary.Recent(100), 8)
}

func (s *PipelineServiceSuite) TestCreate() {
	s.Run("stores and audits the evaluated application", func() {
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
			s.Equal(string(audit.EventApplicationCreated), e.Action)
			s.Equal("Conditional", e.Decision)
			s.Equal(s.now, e.Timestamp)
			return nil
		})

		row, err := s.service.Create(s.ctx, pipeline.NewApplicationInput{
			Name: "Kavya Rao", PAN: "KAVPR1234Q",
			Income: 120000, LoanAmount: 1500000, Age: 38, CreditScore: 780, ExistingEMIs: 10000,
		})
		s.Require().NoError(err)
		s.Equal(66.34, row.Risk)
		s.Equal(risk.DecisionConditional, row.Decision)
		s.Equal(pipeline.StatusLeadIntake, row.Status)

		stored, err := s.service.Get(s.ctx, row.ID)
		s.Require().NoError(err)
		s.Equal(row, stored)
	})

	s.Run("duplicate pan conflicts", func() {
		_, err := s.service.Create(s.ctx, pipeline.NewApplicationInput{
			Name: "Someone Else", PAN: "KAVPR1234Q",
			Income: 50000, LoanAmount: 500000, Age: 30, CreditScore: 700,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("invalid applicant is rejected before storage", func() {
		_, err := s.service.Create(s.ctx, pipeline.NewApplicationInput{
			Name: "Too Young", PAN: "YOUNG1234A",
			Income: 50000, LoanAmount: 500000, Age: 17, CreditScore: 700,
		})
		var verr *risk.ValidationError
		s.Require().ErrorAs(err, &verr)
		s.Equal(risk.FieldAge, verr.Field)
	})
}

func (s *PipelineServiceSuite) TestGet_NotFound() {
	_, err := s.service.Get(s.ctx, uuid.New())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestSeedDemo_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewInMemoryApplicationStore()
	now := time.Now()

	first, err := SeedDemo(ctx, store, now)
	require.NoError(t, err)
	second, err := SeedDemo(ctx, store, now)
	require.NoError(t, err)

	assert.Equal(t, len(demoApplicants), first)
	assert.Zero(t, second)
}

func TestSummary_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().List(gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := New(store, risk.NewEngine()).Summary(context.Background())

	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestSummary_CorruptRecordFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().List(gomock.Any()).Return([]pipeline.Application{
		{ID: uuid.New(), Name: "Broken", Income: 0, LoanAmount: 1, Age: 30, CreditScore: 700},
	}, nil)

	_, err := New(store, risk.NewEngine()).Summary(context.Background())

	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}
