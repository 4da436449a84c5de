// Package admin guards operator-only routes with a signed bearer token.
package admin

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "finai/pkg/domain-errors"
	"finai/pkg/platform/httputil"
	"finai/pkg/requestcontext"
)

// TokenValidator verifies an admin bearer token and returns its subject.
type TokenValidator interface {
	ValidateAdmin(token string) (string, error)
}

// RequireAdmin rejects requests without a valid admin bearer token and stores
// the token subject in the context for audit attribution.
func RequireAdmin(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "admin access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			subject, err := validator.ValidateAdmin(strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "admin access - token rejected",
					"request_id", requestID,
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}

			ctx = requestcontext.WithAdminSubject(ctx, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
