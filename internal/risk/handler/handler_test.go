package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"finai/internal/risk"
	"finai/internal/risk/handler/mocks"
	"finai/internal/risk/metrics"
	"finai/internal/risk/service"
	"finai/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

type RiskHandlerSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *RiskHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
}

func TestRiskHandlerSuite(t *testing.T) {
	suite.Run(t, new(RiskHandlerSuite))
}

func newTestRouter(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, logger).Register(r)
	return r, mockService
}

func analyze(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/risk/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return testutil.DoRequest(r, req)
}

func (s *RiskHandlerSuite) TestHandleAnalyze() {
	s.Run("valid profile returns evaluation", func() {
		r, mockService := newTestRouter(s.T())
		want := risk.Input{Income: 120000, LoanAmount: 1500000, Age: 38, CreditScore: 780, ExistingEMIs: 10000}
		mockService.EXPECT().Analyze(gomock.Any(), want).Return(risk.Result{
			RiskScore:           66.34,
			Tier:                risk.TierMedium,
			ApprovalProbability: 65.34,
			Decision:            risk.DecisionConditional,
		}, nil)

		rr := analyze(r, `{"income":120000,"loan_amount":1500000,"age":38,"credit_score":780,"existing_emis":10000}`)

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[ResultResponse](s.T(), rr)
		s.Equal(ResultResponse{
			RiskScore:           66.34,
			Category:            "Medium",
			ApprovalProbability: 65.34,
			Decision:            "Conditional",
		}, *resp)
	})

	s.Run("missing field names the field", func() {
		r, _ := newTestRouter(s.T())

		rr := analyze(r, `{"income":120000,"loan_amount":1500000,"age":38,"existing_emis":10000}`)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
		body := testutil.UnmarshalErrorResponse(s.T(), rr)
		s.Equal("credit_score", body["field"])
	})

	s.Run("wrongly typed values name the field", func() {
		r, _ := newTestRouter(s.T())
		cases := map[string]string{
			"age":          `{"income":85000,"loan_amount":2500000,"age":35.5,"credit_score":720,"existing_emis":0}`,
			"credit_score": `{"income":85000,"loan_amount":2500000,"age":35,"credit_score":1e30,"existing_emis":0}`,
			"income":       `{"income":"abc","loan_amount":2500000,"age":35,"credit_score":720,"existing_emis":0}`,
		}
		for field, body := range cases {
			rr := analyze(r, body)
			testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
			resp := testutil.UnmarshalErrorResponse(s.T(), rr)
			s.Equal(field, resp["field"], body)
			s.Contains(resp["error_description"], field)
		}
	})

	s.Run("malformed json", func() {
		r, _ := newTestRouter(s.T())
		rr := analyze(r, `{"income":`)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("empty body", func() {
		r, _ := newTestRouter(s.T())
		rr := analyze(r, ``)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("computation failure is internal and opaque", func() {
		r, mockService := newTestRouter(s.T())
		mockService.EXPECT().Analyze(gomock.Any(), gomock.Any()).
			Return(risk.Result{}, &risk.ComputationError{Stage: "risk_score"})

		rr := analyze(r, `{"income":1,"loan_amount":1,"age":30,"credit_score":700,"existing_emis":0}`)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
		s.NotContains(rr.Body.String(), "risk_score")
	})
}

func (s *RiskHandlerSuite) TestHandleDemo() {
	r, mockService := newTestRouter(s.T())
	mockService.EXPECT().Demo(gomock.Any()).Return(risk.Result{}, errors.New("boom"))

	rr := testutil.DoRequest(r, httptest.NewRequest(http.MethodGet, "/risk/demo", nil))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
}

func newTestMetrics() *metrics.Metrics {
	return &metrics.Metrics{
		Outcomes:            prometheus.NewCounterVec(prometheus.CounterOpts{Name: "outcomes"}, []string{"decision", "tier"}),
		ValidationFailures:  prometheus.NewCounterVec(prometheus.CounterOpts{Name: "validation"}, []string{"field"}),
		ComputationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "computation"}, []string{"stage"}),
		EvaluateLatency:     prometheus.NewHistogram(prometheus.HistogramOpts{Name: "latency"}),
	}
}

func newServiceRouter(m *metrics.Metrics) chi.Router {
	r := chi.NewRouter()
	svc := service.New(risk.NewEngine(), service.WithMetrics(m), service.WithLogger(slog.New(slog.DiscardHandler)))
	New(svc, slog.New(slog.DiscardHandler)).Register(r)
	return r
}

func TestHandleAnalyze_OutOfRangeRejected(t *testing.T) {
	t.Run("explicit zero is present but out of range", func(t *testing.T) {
		m := newTestMetrics()
		rr := analyze(newServiceRouter(m), `{"income":0,"loan_amount":1500000,"age":38,"credit_score":780,"existing_emis":0}`)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
		body := testutil.UnmarshalErrorResponse(t, rr)
		assert.Equal(t, "income", body["field"])
		assert.Contains(t, body["error_description"], "greater than 0")
		assert.Equal(t, 1.0, promtest.ToFloat64(m.ValidationFailures.WithLabelValues("income")))
	})

	t.Run("values are rejected not clamped", func(t *testing.T) {
		m := newTestMetrics()
		r := newServiceRouter(m)
		cases := map[string]string{
			"age":           `{"income":1,"loan_amount":1,"age":17,"credit_score":700,"existing_emis":0}`,
			"credit_score":  `{"income":1,"loan_amount":1,"age":30,"credit_score":901,"existing_emis":0}`,
			"existing_emis": `{"income":1,"loan_amount":1,"age":30,"credit_score":700,"existing_emis":-1}`,
		}
		for field, body := range cases {
			rr := analyze(r, body)
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
			assert.Equal(t, field, testutil.UnmarshalErrorResponse(t, rr)["field"])
			assert.Equal(t, 1.0, promtest.ToFloat64(m.ValidationFailures.WithLabelValues(field)), field)
		}
		assert.Zero(t, promtest.CollectAndCount(m.Outcomes))
	})

	t.Run("missing field never reaches the service", func(t *testing.T) {
		m := newTestMetrics()
		rr := analyze(newServiceRouter(m), `{"income":1,"loan_amount":1,"age":30,"existing_emis":0}`)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
		assert.Zero(t, promtest.CollectAndCount(m.ValidationFailures))
	})
}

// The real service behind the router reproduces the reference demo values.
func TestHandleDemo_EndToEnd(t *testing.T) {
	r := chi.NewRouter()
	New(service.New(risk.NewEngine()), slog.New(slog.DiscardHandler)).Register(r)

	rr := testutil.DoRequest(r, httptest.NewRequest(http.MethodGet, "/risk/demo", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"risk_score":59.5,"category":"Medium","approval_probability":48.75,"decision":"Reject"}`, rr.Body.String())
}
