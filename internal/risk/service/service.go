// Package service runs risk evaluations for the HTTP surface and records
// each final decision in the audit trail.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"finai/internal/risk"
	"finai/internal/risk/metrics"
	"finai/pkg/platform/audit"
	"finai/pkg/requestcontext"
)

// AnonymousSubject is recorded for evaluations not tied to a stored application.
const AnonymousSubject = "anonymous"

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service wraps the risk engine with tracing, metrics and auditing.
type Service struct {
	engine  *risk.Engine
	auditor AuditPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer overrides the global "finai/risk" tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service around engine.
func New(engine *risk.Engine, opts ...Option) *Service {
	s := &Service{
		engine: engine,
		logger: slog.Default(),
		tracer: otel.Tracer("finai/risk"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze validates in and evaluates the resulting profile. Invalid input is
// returned as a *risk.ValidationError and counted by field. A successful result
// is final: failing to record the audit event is logged and does not change
// the response.
func (s *Service) Analyze(ctx context.Context, in risk.Input) (risk.Result, error) {
	ctx, span := s.tracer.Start(ctx, "risk.Evaluate")
	defer span.End()

	p, err := in.Profile()
	if err != nil {
		s.recordFailure(ctx, span, err)
		return risk.Result{}, err
	}
	return s.evaluate(ctx, span, p, AnonymousSubject)
}

// Demo evaluates the fixed demo applicant.
func (s *Service) Demo(ctx context.Context) (risk.Result, error) {
	ctx, span := s.tracer.Start(ctx, "risk.Evaluate")
	defer span.End()

	return s.evaluate(ctx, span, risk.DemoProfile(), "demo")
}

func (s *Service) evaluate(ctx context.Context, span trace.Span, p risk.Profile, subject string) (risk.Result, error) {
	start := time.Now()
	result, err := s.engine.Evaluate(p)
	s.metrics.ObserveEvaluateLatency(time.Since(start))
	if err != nil {
		s.recordFailure(ctx, span, err)
		return risk.Result{}, err
	}

	span.SetAttributes(
		attribute.Float64("risk.score", result.RiskScore),
		attribute.String("risk.tier", result.Tier.String()),
		attribute.Float64("risk.approval_probability", result.ApprovalProbability),
		attribute.String("risk.decision", result.Decision.String()),
	)
	s.metrics.IncrementOutcome(result.Decision.String(), result.Tier.String())
	s.emitDecision(ctx, subject, p, result)
	return result, nil
}

func (s *Service) recordFailure(ctx context.Context, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var verr *risk.ValidationError
	var cerr *risk.ComputationError
	switch {
	case errors.As(err, &verr):
		s.metrics.IncrementValidationFailure(verr.Field)
	case errors.As(err, &cerr):
		s.metrics.IncrementComputationFailure(cerr.Stage)
		s.logger.ErrorContext(ctx, "risk computation failed",
			"request_id", requestcontext.RequestID(ctx),
			"stage", cerr.Stage,
			"value", cerr.Value,
		)
	}
}

func (s *Service) emitDecision(ctx context.Context, subject string, p risk.Profile, result risk.Result) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Subject:   subject,
		Action:    string(audit.EventDecisionMade),
		Decision:  result.Decision.String(),
		Reason:    result.Tier.String() + " risk",
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Device:    requestcontext.Device(ctx),
		Payload: map[string]any{
			"risk_score":           result.RiskScore,
			"category":             result.Tier.String(),
			"approval_probability": result.ApprovalProbability,
			"credit_score":         p.CreditScore(),
			"loan_amount":          p.LoanAmount(),
		},
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to record decision audit event",
			"request_id", event.RequestID,
			"decision", event.Decision,
			"error", err,
		)
	}
}
