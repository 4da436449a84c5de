package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"finai/internal/risk"
	dErrors "finai/pkg/domain-errors"
	"finai/pkg/platform/httputil"
	"finai/pkg/requestcontext"
)

// Service defines the interface for risk operations.
type Service interface {
	Analyze(ctx context.Context, in risk.Input) (risk.Result, error)
	Demo(ctx context.Context) (risk.Result, error)
}

// Handler wires risk endpoints to the risk service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a risk handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts risk endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/risk/analyze", h.HandleAnalyze)
	r.Get("/risk/demo", h.HandleDemo)
}

// HandleAnalyze handles POST /risk/analyze requests.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[AnalyzeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Analyze(ctx, req.Input())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.WarnContext(ctx, "risk profile rejected",
				"request_id", requestID,
				"error", err,
			)
		} else {
			h.logger.ErrorContext(ctx, "risk analysis failed",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "risk analyzed",
		"request_id", requestID,
		"risk_score", result.RiskScore,
		"decision", result.Decision,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleDemo handles GET /risk/demo requests.
func (h *Handler) HandleDemo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	result, err := h.service.Demo(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "risk demo failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}
