package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

// ProductRepository хранит каталог и остатки в памяти.
// Реализует ProductCatalog и InventoryLedger; проверка остатка и списание идут под одной блокировкой.
type ProductRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository создаёт in-memory каталог, опционально заполненный товарами.
func NewProductRepository(products ...domain.Product) *ProductRepository {
	repo := &ProductRepository{items: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		repo.items[p.ID] = p
	}
	return repo
}

func (r *ProductRepository) Get(_ context.Context, id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *ProductRepository) GetMany(_ context.Context, ids []string) (map[string]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.items[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (r *ProductRepository) List(_ context.Context, limit int) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.items))
	for _, p := range r.items {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Upsert добавляет товар или обновляет его карточку вместе с остатком.
func (r *ProductRepository) Upsert(_ context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.items[product.ID]; ok {
		product.CreatedAt = existing.CreatedAt
	} else if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	r.items[product.ID] = product
	return nil
}

func (r *ProductRepository) Decrement(ctx context.Context, productID string, qty int32) error {
	return r.DecrementAll(ctx, []domain.StockLine{{ProductID: productID, Qty: qty}})
}

func (r *ProductRepository) Increment(ctx context.Context, productID string, qty int32) error {
	return r.IncrementAll(ctx, []domain.StockLine{{ProductID: productID, Qty: qty}})
}

// DecrementAll сначала проверяет все строки и только потом списывает.
func (r *ProductRepository) DecrementAll(_ context.Context, lines []domain.StockLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	need := aggregateLines(lines)
	for id, qty := range need {
		if qty <= 0 {
			return domain.ErrItemQtyInvalid
		}
		p, ok := r.items[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		if p.StockQuantity < qty {
			return &domain.InsufficientStockError{ProductID: id, Name: p.Name, Requested: qty, Available: p.StockQuantity}
		}
	}

	now := time.Now().UTC()
	for id, qty := range need {
		p := r.items[id]
		p.StockQuantity -= qty
		p.UpdatedAt = now
		r.items[id] = p
	}
	return nil
}

func (r *ProductRepository) IncrementAll(_ context.Context, lines []domain.StockLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	need := aggregateLines(lines)
	for id, qty := range need {
		if qty <= 0 {
			return domain.ErrItemQtyInvalid
		}
		if _, ok := r.items[id]; !ok {
			return domain.ErrProductNotFound
		}
	}

	now := time.Now().UTC()
	for id, qty := range need {
		p := r.items[id]
		p.StockQuantity += qty
		p.UpdatedAt = now
		r.items[id] = p
	}
	return nil
}

// aggregateLines складывает строки одного товара, чтобы проверка остатка учитывала их сумму.
func aggregateLines(lines []domain.StockLine) map[string]int32 {
	need := make(map[string]int32, len(lines))
	for _, line := range lines {
		need[line.ProductID] += line.Qty
	}
	return need
}

var (
	_ domain.ProductCatalog  = (*ProductRepository)(nil)
	_ domain.InventoryLedger = (*ProductRepository)(nil)
)
