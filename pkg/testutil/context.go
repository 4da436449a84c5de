package testutil

import (
	"net/http"

	"finai/pkg/requestcontext"
)

// WithClientMetadata stamps the client IP and User-Agent the way the
// metadata middleware would, for handlers tested without the router.
func WithClientMetadata(req *http.Request, clientIP, userAgent string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), clientIP, userAgent))
}
