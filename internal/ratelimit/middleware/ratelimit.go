package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"finai/internal/ratelimit/metrics"
	"finai/internal/ratelimit/models"
	dErrors "finai/pkg/domain-errors"
	"finai/pkg/platform/httputil"
	"finai/pkg/requestcontext"
)

// BucketStore is the sliding-window capability the middleware needs.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

type Middleware struct {
	store    BucketStore
	limits   map[models.EndpointClass]int
	window   time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithLimit overrides the per-window budget for one endpoint class.
func WithLimit(class models.EndpointClass, limit int) Option {
	return func(m *Middleware) {
		m.limits[class] = limit
	}
}

func WithWindow(window time.Duration) Option {
	return func(m *Middleware) {
		if window > 0 {
			m.window = window
		}
	}
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = metrics
	}
}

// New builds the limiter middleware. perWindow is the default budget for
// every class; the default window is one minute.
func New(store BucketStore, perWindow int, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		store: store,
		limits: map[models.EndpointClass]int{
			models.ClassWrite: perWindow,
			models.ClassRead:  perWindow,
		},
		window: time.Minute,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit limits requests per client IP within class. Limiter store
// failures let the request through.
func (m *Middleware) RateLimit(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := m.limits[class]
			if m.disabled || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)

			result, err := m.store.Allow(ctx, models.IPKey(class, ip), limit, m.window)
			if err != nil {
				m.metrics.IncrementStoreErrors()
				m.logger.ErrorContext(ctx, "failed to check IP rate limit",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			// Add headers regardless of outcome
			addRateLimitHeaders(w, result)

			if !result.Allowed {
				m.metrics.IncrementDenied(string(class))
				m.logger.WarnContext(ctx, "rate limit exceeded",
					"class", class,
					"request_id", requestcontext.RequestID(ctx),
				)
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests, please try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ByMethod applies the read limit to safe methods and the write limit to
// everything else.
func (m *Middleware) ByMethod() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		write := m.RateLimit(models.ClassWrite)(next)
		read := m.RateLimit(models.ClassRead)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				read.ServeHTTP(w, r)
			default:
				write.ServeHTTP(w, r)
			}
		})
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
