package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"finai/internal/pipeline/handler/mocks"
	"finai/internal/pipeline/service"
	"finai/internal/pipeline/store/memory"
	"finai/internal/risk"
	dErrors "finai/pkg/domain-errors"
	"finai/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

type PipelineHandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestPipelineHandlerSuite(t *testing.T) {
	suite.Run(t, new(PipelineHandlerSuite))
}

func (s *PipelineHandlerSuite) SetupTest() {
	store := memory.NewInMemoryApplicationStore()
	_, err := service.SeedDemo(context.Background(), store, time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	s.Require().NoError(err)

	s.router = chi.NewRouter()
	New(service.New(store, risk.NewEngine()), slog.New(slog.DiscardHandler)).Register(s.router)
}

func (s *PipelineHandlerSuite) get(path string) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *PipelineHandlerSuite) TestPipeline() {
	rr := s.get("/pipeline")

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[PipelineResponse](s.T(), rr)
	s.Len(resp.Applications, 8)
	s.Equal(2, resp.Stages["Approved"])
	s.Equal(0, resp.Stages["Disbursed"])
	s.Equal(60.06, resp.AverageRisk)
	s.Equal(25.0, resp.ApprovalRate)
	s.Equal("₹3.5Cr", resp.PipelineValue)
	s.Equal("34800000.00", resp.TotalAmount)

	first := resp.Applications[0]
	s.Equal("Priya Patel", first.Name)
	s.Equal("₹95,000", first.Salary)
	s.Equal("₹32,00,000", first.LoanAmount)
	s.Equal("16%", first.FOIR)
}

func (s *PipelineHandlerSuite) TestRiskOverview() {
	rr := s.get("/risk")

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[RiskOverviewResponse](s.T(), rr)
	s.Equal(DistributionResponse{Low: 2, Medium: 5, High: 1}, resp.Distribution)
	s.Require().Len(resp.Applicants, 8)
	for _, a := range resp.Applicants {
		s.Equal(risk.Classify(a.Risk).String(), a.Category, a.Name)
	}
}

func (s *PipelineHandlerSuite) TestDashboard() {
	rr := s.get("/dashboard")

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[DashboardResponse](s.T(), rr)
	s.Equal(DashboardStats{TotalLeads: 8, Applications: 7, ApprovalRate: 25, AvgRiskScore: 60.06}, resp.Stats)
	s.Equal(2, resp.Approved)
	s.Equal(1, resp.Rejected)
	s.Require().Len(resp.RecentLeads, 5)
	s.Equal("Amit Singh Chauhan", resp.RecentLeads[0].Name)
	s.Equal("₹75,00,000", resp.RecentLeads[0].Amount)
}

func (s *PipelineHandlerSuite) TestCreateAndGet() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/pipeline/applications", map[string]any{
		"name": "Kavya Rao", "pan": "KAVPR1234Q",
		"income": 200000, "loan_amount": 400000, "age": 40, "credit_score": 900, "existing_emis": 0,
		"status": "Under Review",
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[ApplicationResponse](s.T(), rr)
	s.Equal(77.5, created.Risk)
	s.Equal("Low", created.Category)
	s.Equal("Approve", created.Decision)
	s.Equal("Under Review", created.Status)

	got := s.get("/pipeline/applications/" + created.ID)
	testutil.AssertStatusOK(s.T(), got)
	s.Equal(created.ID, testutil.UnmarshalResponse[ApplicationResponse](s.T(), got).ID)

	dup := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/pipeline/applications", map[string]any{
		"name": "Kavya Rao", "pan": "KAVPR1234Q",
		"income": 200000, "loan_amount": 400000, "age": 40, "credit_score": 900, "existing_emis": 0,
	}))
	testutil.AssertStatusAndError(s.T(), dup, http.StatusConflict, "conflict")
}

func (s *PipelineHandlerSuite) TestCreate_Validation() {
	cases := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"missing income", map[string]any{"name": "A", "pan": "ABCDE1234F", "loan_amount": 1, "age": 30, "credit_score": 700, "existing_emis": 0}, "income"},
		{"bad status", map[string]any{"name": "A", "pan": "ABCDE1234F", "income": 1, "loan_amount": 1, "age": 30, "credit_score": 700, "existing_emis": 0, "status": "Funded"}, "status"},
		{"credit score out of range", map[string]any{"name": "A", "pan": "ABCDE1234F", "income": 1, "loan_amount": 1, "age": 30, "credit_score": 950, "existing_emis": 0}, "credit_score"},
		{"bad pan", map[string]any{"name": "A", "pan": "nope", "income": 1, "loan_amount": 1, "age": 30, "credit_score": 700, "existing_emis": 0}, "pan"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/pipeline/applications", tc.body))
			testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
			s.Equal(tc.field, testutil.UnmarshalErrorResponse(s.T(), rr)["field"])
		})
	}
}

func (s *PipelineHandlerSuite) TestGet_Errors() {
	testutil.AssertStatusAndError(s.T(), s.get("/pipeline/applications/not-a-uuid"), http.StatusBadRequest, "bad_request")
	testutil.AssertStatusAndError(s.T(), s.get("/pipeline/applications/"+uuid.NewString()), http.StatusNotFound, "not_found")
}

func TestPipeline_ServiceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().Summary(gomock.Any()).Return(nil, dErrors.Wrap(errors.New("db"), dErrors.CodeInternal, "failed to list applications")).Times(3)

	r := chi.NewRouter()
	New(svc, slog.New(slog.DiscardHandler)).Register(r)

	for _, path := range []string{"/pipeline", "/risk", "/dashboard"} {
		rr := testutil.DoRequest(r, httptest.NewRequest(http.MethodGet, path, nil))
		testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
	}
}
