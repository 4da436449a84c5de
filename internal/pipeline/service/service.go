// Package service aggregates the lending pipeline. Every derived risk field
// is computed by the risk engine when read, so tier and decision always
// agree with the score shown next to them.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"finai/internal/pipeline"
	"finai/internal/risk"
	dErrors "finai/pkg/domain-errors"
	"finai/pkg/platform/audit"
	"finai/pkg/platform/sentinel"
	"finai/pkg/requestcontext"
)

// Store persists pipeline applications.
type Store interface {
	Create(ctx context.Context, app *pipeline.Application) error
	// List returns applications oldest first.
	List(ctx context.Context) ([]pipeline.Application, error)
	FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Application, error)
}

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const defaultConcurrency = 8

type Service struct {
	store       Store
	engine      *risk.Engine
	auditor     AuditPublisher
	logger      *slog.Logger
	tracer      trace.Tracer
	concurrency int
	newID       func() uuid.UUID
}

type Option func(*Service)

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithConcurrency bounds how many applications are evaluated at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(store Store, engine *risk.Engine, opts ...Option) *Service {
	s := &Service{
		store:       store,
		engine:      engine,
		logger:      slog.Default(),
		tracer:      otel.Tracer("finai/pipeline"),
		concurrency: defaultConcurrency,
		newID:       uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and stores a new application and returns its evaluated row.
func (s *Service) Create(ctx context.Context, in pipeline.NewApplicationInput) (Row, error) {
	app, err := pipeline.NewApplication(s.newID(), in, requestcontext.Now(ctx))
	if err != nil {
		return Row{}, err
	}
	row, err := s.evaluate(*app)
	if err != nil {
		return Row{}, err
	}
	if err := s.store.Create(ctx, app); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return Row{}, dErrors.NewField(dErrors.CodeConflict, "pan", "an application with this PAN already exists")
		}
		return Row{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store application")
	}

	s.emitCreated(ctx, row)
	return row, nil
}

// Get returns one evaluated application.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Row, error) {
	app, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Row{}, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return Row{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
	}
	return s.evaluate(*app)
}

// Summary evaluates every application concurrently and aggregates the
// pipeline. Rows keep the store's order.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.Summary")
	defer span.End()

	apps, err := s.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list applications")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}

	rows := make([]Row, len(apps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, app := range apps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := s.evaluate(app)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluate applications")
		return nil, err
	}

	summary := aggregate(rows)
	span.SetAttributes(
		attribute.Int("pipeline.applications", len(rows)),
		attribute.Float64("pipeline.average_risk", summary.AverageRisk),
	)
	return summary, nil
}

// evaluate derives an application's risk fields. Stored applications were
// validated on create, so a failure here means the record was altered
// outside the service.
func (s *Service) evaluate(app pipeline.Application) (Row, error) {
	profile, err := app.Profile()
	if err != nil {
		s.logger.Error("stored application fails validation",
			"application_id", app.ID,
			"error", err,
		)
		return Row{}, dErrors.Wrap(err, dErrors.CodeInternal, "application record is invalid")
	}
	result, err := s.engine.Evaluate(profile)
	if err != nil {
		return Row{}, err
	}
	return newRow(app, result), nil
}

func (s *Service) emitCreated(ctx context.Context, row Row) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Subject:   row.ID.String(),
		Action:    string(audit.EventApplicationCreated),
		Decision:  row.Decision.String(),
		Reason:    row.Category.String() + " risk",
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Device:    requestcontext.Device(ctx),
		Payload: map[string]any{
			"risk_score":           row.Risk,
			"approval_probability": row.ApprovalProbability,
			"status":               row.Status.String(),
		},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record application audit event",
			"request_id", requestcontext.RequestID(ctx),
			"application_id", row.ID,
			"error", err,
		)
	}
}

// Row is one application with its derived risk fields.
type Row struct {
	ID                  uuid.UUID
	Name                string
	PAN                 string
	Credit              int
	Income              decimal.Decimal
	LoanAmount          decimal.Decimal
	FOIR                string
	Risk                float64
	Category            risk.Tier
	ApprovalProbability float64
	Decision            risk.Decision
	Status              pipeline.Status
	CreatedAt           time.Time
}

func newRow(app pipeline.Application, result risk.Result) Row {
	return Row{
		ID:                  app.ID,
		Name:                app.Name,
		PAN:                 app.PAN,
		Credit:              app.CreditScore,
		Income:              decimal.NewFromFloat(app.Income),
		LoanAmount:          decimal.NewFromFloat(app.LoanAmount),
		FOIR:                pipeline.FOIR(app.ExistingEMIs, app.Income),
		Risk:                result.RiskScore,
		Category:            result.Tier,
		ApprovalProbability: result.ApprovalProbability,
		Decision:            result.Decision,
		Status:              app.Status,
		CreatedAt:           app.CreatedAt,
	}
}
