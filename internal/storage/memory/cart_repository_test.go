package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/storage/memory"
)

func TestCartRepository_SaveFindDelete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCartRepository()

	_, err := repo.FindByUser(ctx, "user-1")
	require.ErrorIs(t, err, domain.ErrCartNotFound)

	require.ErrorIs(t, repo.Save(ctx, domain.Cart{}), domain.ErrUserRequired)

	cart := domain.Cart{UserID: "user-1", Items: []domain.CartItem{{ProductID: "p1", Quantity: 2}}}
	require.NoError(t, repo.Save(ctx, cart))

	stored, err := repo.FindByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, cart.Items, stored.Items)
	require.False(t, stored.UpdatedAt.IsZero())

	require.NoError(t, repo.Delete(ctx, "user-1"))
	require.NoError(t, repo.Delete(ctx, "user-1"))
	_, err = repo.FindByUser(ctx, "user-1")
	require.ErrorIs(t, err, domain.ErrCartNotFound)
}
