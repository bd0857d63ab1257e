package memory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/storage/memory"
)

func seedProducts() *memory.ProductRepository {
	return memory.NewProductRepository(
		domain.Product{ID: "p1", Name: "Aspirin", Price: decimal.NewFromInt(5), StockQuantity: 10},
		domain.Product{ID: "p2", Name: "Amoxicillin", Price: decimal.NewFromInt(12), StockQuantity: 1, RequiresPrescription: true},
	)
}

func TestProductRepository_DecrementAllIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := seedProducts()

	err := repo.DecrementAll(ctx, []domain.StockLine{
		{ProductID: "p1", Qty: 3},
		{ProductID: "p2", Name: "Amoxicillin", Qty: 2},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Equal(t, "p2", stockErr.ProductID)

	p1, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.EqualValues(t, 10, p1.StockQuantity, "first line must not be applied")
}

func TestProductRepository_DecrementAggregatesDuplicateLines(t *testing.T) {
	ctx := context.Background()
	repo := seedProducts()

	err := repo.DecrementAll(ctx, []domain.StockLine{{ProductID: "p1", Qty: 6}, {ProductID: "p1", Qty: 5}})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	require.NoError(t, repo.DecrementAll(ctx, []domain.StockLine{{ProductID: "p1", Qty: 6}, {ProductID: "p1", Qty: 4}}))
	p1, _ := repo.Get(ctx, "p1")
	require.EqualValues(t, 0, p1.StockQuantity)
}

func TestProductRepository_IncrementRestores(t *testing.T) {
	ctx := context.Background()
	repo := seedProducts()

	require.NoError(t, repo.Decrement(ctx, "p2", 1))
	require.ErrorIs(t, repo.Decrement(ctx, "p2", 1), domain.ErrInsufficientStock)
	require.NoError(t, repo.Increment(ctx, "p2", 1))

	p2, _ := repo.Get(ctx, "p2")
	require.EqualValues(t, 1, p2.StockQuantity)

	require.ErrorIs(t, repo.Increment(ctx, "missing", 1), domain.ErrProductNotFound)
	require.ErrorIs(t, repo.Decrement(ctx, "p1", 0), domain.ErrItemQtyInvalid)
}

func TestProductRepository_ConcurrentDecrementNeverNegative(t *testing.T) {
	ctx := context.Background()
	repo := seedProducts()

	var (
		wg      sync.WaitGroup
		success atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Decrement(ctx, "p1", 1); err == nil {
				success.Add(1)
			}
		}()
	}
	wg.Wait()

	p1, _ := repo.Get(ctx, "p1")
	require.EqualValues(t, 10, success.Load())
	require.EqualValues(t, 0, p1.StockQuantity)
}

func TestProductRepository_CatalogQueries(t *testing.T) {
	ctx := context.Background()
	repo := seedProducts()

	found, err := repo.GetMany(ctx, []string{"p1", "missing"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, repo.Upsert(ctx, domain.Product{ID: "p3", Name: "Vitamin C", Price: decimal.NewFromInt(3), StockQuantity: 7}))
	list, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "p1", list[0].ID)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}
