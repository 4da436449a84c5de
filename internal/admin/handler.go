// Package admin serves operator endpoints. Routes are mounted behind the
// admin token middleware.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dErrors "finai/pkg/domain-errors"
	"finai/pkg/platform/audit"
	"finai/pkg/platform/httputil"
	"finai/pkg/requestcontext"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// AuditReader lists recorded audit events.
type AuditReader interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

type Handler struct {
	audit  AuditReader
	logger *slog.Logger
}

func New(reader AuditReader, logger *slog.Logger) *Handler {
	return &Handler{audit: reader, logger: logger}
}

// Register mounts admin endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/decisions", h.HandleListDecisions)
}

// HandleListDecisions handles GET /admin/decisions?limit=N requests.
func (h *Handler) HandleListDecisions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.audit.ListRecent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}

	h.logger.InfoContext(ctx, "audit events listed",
		"request_id", requestID,
		"admin", requestcontext.AdminSubject(ctx),
		"count", len(events),
	)
	httputil.WriteJSON(w, http.StatusOK, toDecisionsList(events))
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxLimit {
		return 0, dErrors.NewField(dErrors.CodeValidation, "limit", "limit must be an integer between 1 and 500")
	}
	return n, nil
}
