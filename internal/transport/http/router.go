// Package httptransport assembles the public HTTP surface: the shared
// middleware chain, the domain handlers, and the operational endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finai/internal/platform/metrics"
	platformmw "finai/internal/platform/middleware"
	dErrors "finai/pkg/domain-errors"
	"finai/pkg/platform/httputil"
	"finai/pkg/platform/middleware/admin"
	"finai/pkg/platform/middleware/metadata"
	request "finai/pkg/platform/middleware/request"
	"finai/pkg/platform/middleware/requesttime"
)

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// Deps is everything NewRouter needs. Nil middleware fields are skipped.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	RequestTimeout time.Duration
	// RateLimit wraps every public route.
	RateLimit func(http.Handler) http.Handler
	// AdminValidator guards the Admin routes. Without one they are not mounted.
	AdminValidator admin.TokenValidator
	// Health reports dependency failures; nil means always healthy.
	Health func(ctx context.Context) error

	Public []Registrar
	Admin  []Registrar
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// NewRouter wires all endpoints behind the shared middleware chain.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(d.Logger))
	r.Use(request.Recovery(d.Logger))
	if d.Metrics != nil {
		r.Use(platformmw.Metrics(d.Metrics))
	}
	if d.RequestTimeout > 0 {
		r.Use(request.Timeout(d.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})

	r.Get("/health", healthHandler(d.Health))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if d.RateLimit != nil {
			r.Use(d.RateLimit)
		}
		for _, reg := range d.Public {
			reg.Register(r)
		}
	})

	if d.AdminValidator != nil && len(d.Admin) > 0 {
		r.Group(func(r chi.Router) {
			r.Use(admin.RequireAdmin(d.AdminValidator, d.Logger))
			for _, reg := range d.Admin {
				reg.Register(r)
			}
		})
	}

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
