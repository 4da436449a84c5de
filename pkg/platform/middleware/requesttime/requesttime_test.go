package requesttime

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"finai/pkg/requestcontext"
	"finai/pkg/testutil"
)

func TestMiddlewareWithClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	var first, second time.Time
	h := MiddlewareWithClock(func() time.Time { return fixed })(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		first = requestcontext.Now(r.Context())
		second = requestcontext.Now(r.Context())
	}))

	testutil.DoRequest(h, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, fixed, first)
	assert.Equal(t, first, second)
}
