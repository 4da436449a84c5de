package admin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finai/pkg/platform/audit"
	auditmemory "finai/pkg/platform/audit/store/memory"
	"finai/pkg/testutil"
)

func newRouter(t *testing.T, n int) chi.Router {
	t.Helper()
	store := auditmemory.NewInMemoryStore()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range n {
		require.NoError(t, store.Append(context.Background(), audit.Event{
			ID:        uuid.New(),
			Category:  audit.CategoryCompliance,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Subject:   fmt.Sprintf("app-%d", i),
			Action:    string(audit.EventDecisionMade),
			Decision:  "Approve",
		}))
	}
	r := chi.NewRouter()
	New(store, slog.New(slog.DiscardHandler)).Register(r)
	return r
}

func TestHandleListDecisions(t *testing.T) {
	t.Run("newest first with limit", func(t *testing.T) {
		r := newRouter(t, 5)
		rr := testutil.DoRequest(r, httptest.NewRequest(http.MethodGet, "/admin/decisions?limit=2", nil))

		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[DecisionsListResponse](t, rr)
		require.Equal(t, 2, resp.Total)
		assert.Equal(t, "app-4", resp.Events[0].Subject)
		assert.Equal(t, "app-3", resp.Events[1].Subject)
		assert.Equal(t, "compliance", resp.Events[0].Category)
	})

	t.Run("default limit", func(t *testing.T) {
		r := newRouter(t, 60)
		rr := testutil.DoRequest(r, httptest.NewRequest(http.MethodGet, "/admin/decisions", nil))
		resp := testutil.UnmarshalResponse[DecisionsListResponse](t, rr)
		assert.Equal(t, defaultLimit, resp.Total)
	})

	t.Run("invalid limit", func(t *testing.T) {
		r := newRouter(t, 1)
		for _, q := range []string{"0", "-1", "abc", "501"} {
			rr := testutil.DoRequest(r, httptest.NewRequest(http.MethodGet, "/admin/decisions?limit="+q, nil))
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
		}
	})
}
