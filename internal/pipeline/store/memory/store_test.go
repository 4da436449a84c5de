package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finai/internal/pipeline"
	"finai/pkg/platform/sentinel"
)

func app(pan string, created time.Time) *pipeline.Application {
	return &pipeline.Application{
		ID:          uuid.New(),
		Name:        "Applicant " + pan,
		PAN:         pan,
		Income:      80000,
		LoanAmount:  1000000,
		Age:         30,
		CreditScore: 700,
		Status:      pipeline.StatusLeadIntake,
		CreatedAt:   created,
	}
}

func TestInMemoryApplicationStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryApplicationStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	second := app("BBBBB2222B", base.Add(time.Hour))
	first := app("AAAAA1111A", base)
	require.NoError(t, store.Create(ctx, second))
	require.NoError(t, store.Create(ctx, first))

	t.Run("list is oldest first", func(t *testing.T) {
		apps, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, apps, 2)
		assert.Equal(t, first.ID, apps[0].ID)
		assert.Equal(t, second.ID, apps[1].ID)
	})

	t.Run("find by id", func(t *testing.T) {
		got, err := store.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, *first, *got)

		_, err = store.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("duplicate pan conflicts", func(t *testing.T) {
		err := store.Create(ctx, app("AAAAA1111A", base))
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("returned values are copies", func(t *testing.T) {
		got, err := store.FindByID(ctx, first.ID)
		require.NoError(t, err)
		got.Status = pipeline.StatusApproved

		again, err := store.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, pipeline.StatusLeadIntake, again.Status)
	})
}
