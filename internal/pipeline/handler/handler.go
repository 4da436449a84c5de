package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"finai/internal/pipeline"
	"finai/internal/pipeline/service"
	dErrors "finai/pkg/domain-errors"
	"finai/pkg/platform/httputil"
	"finai/pkg/requestcontext"
)

// Service defines the interface for pipeline operations.
type Service interface {
	Summary(ctx context.Context) (*service.Summary, error)
	Create(ctx context.Context, in pipeline.NewApplicationInput) (service.Row, error)
	Get(ctx context.Context, id uuid.UUID) (service.Row, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts pipeline, risk overview and dashboard endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/pipeline", h.HandlePipeline)
	r.Post("/pipeline/applications", h.HandleCreate)
	r.Get("/pipeline/applications/{id}", h.HandleGet)
	r.Get("/risk", h.HandleRiskOverview)
	r.Get("/dashboard", h.HandleDashboard)
}

// HandlePipeline handles GET /pipeline requests.
func (h *Handler) HandlePipeline(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.summary(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPipelineResponse(summary))
}

// HandleRiskOverview handles GET /risk requests.
func (h *Handler) HandleRiskOverview(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.summary(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRiskOverview(summary))
}

// HandleDashboard handles GET /dashboard requests.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.summary(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDashboard(summary))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) (*service.Summary, bool) {
	ctx := r.Context()
	summary, err := h.service.Summary(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "pipeline summary failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return nil, false
	}
	return summary, true
}

// HandleCreate handles POST /pipeline/applications requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateApplicationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	row, err := h.service.Create(ctx, req.Input())
	if err != nil {
		h.logger.WarnContext(ctx, "application create failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "application created",
		"request_id", requestID,
		"application_id", row.ID,
		"decision", row.Decision,
	)
	httputil.WriteJSON(w, http.StatusCreated, toApplicationResponse(row))
}

// HandleGet handles GET /pipeline/applications/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.NewField(dErrors.CodeBadRequest, "id", "invalid application id"))
		return
	}

	row, err := h.service.Get(ctx, id)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "application lookup failed",
				"request_id", requestcontext.RequestID(ctx),
				"application_id", id,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(row))
}
