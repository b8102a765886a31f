package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owenjoycecoughlan/Offsets/internal/iterations/domain"
	"github.com/owenjoycecoughlan/Offsets/internal/iterations/repository"
)

func TestIterationService_StartNew(t *testing.T) {
	ctx := context.Background()

	t.Run("exactly one iteration stays active", func(t *testing.T) {
		svc := NewIterationService(repository.NewMemory())

		first, err := svc.StartNew(ctx, "Season One", nil)
		require.NoError(t, err)
		assert.True(t, first.IsActive)

		second, err := svc.StartNew(ctx, "Season Two", nil)
		require.NoError(t, err)
		assert.True(t, second.IsActive)

		active, err := svc.Active(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, active.ID)

		archived, err := svc.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.False(t, archived.IsActive)
		assert.NotNil(t, archived.EndDate, "archiving stamps the end date")
	})

	t.Run("blank name is a validation error", func(t *testing.T) {
		svc := NewIterationService(repository.NewMemory())
		_, err := svc.StartNew(ctx, "   ", nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("blank description normalizes to nil", func(t *testing.T) {
		svc := NewIterationService(repository.NewMemory())
		blank := "  \n "
		it, err := svc.StartNew(ctx, "Season One", &blank)
		require.NoError(t, err)
		assert.Nil(t, it.Description)
	})
}

func TestIterationService_Active(t *testing.T) {
	svc := NewIterationService(repository.NewMemory())
	_, err := svc.Active(context.Background())
	assert.ErrorIs(t, err, domain.ErrIterationNotFound)
}
