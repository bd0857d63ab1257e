package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

type cartRepositoryInMemory struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

// NewCartRepository создаёт in-memory реализацию CartStore.
func NewCartRepository() domain.CartStore {
	return &cartRepositoryInMemory{carts: make(map[string]domain.Cart)}
}

func (r *cartRepositoryInMemory) FindByUser(_ context.Context, userID string) (domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	cart.Items = append([]domain.CartItem(nil), cart.Items...)
	return cart, nil
}

func (r *cartRepositoryInMemory) Save(_ context.Context, cart domain.Cart) error {
	if cart.UserID == "" {
		return domain.ErrUserRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cart.Items = append([]domain.CartItem(nil), cart.Items...)
	if cart.UpdatedAt.IsZero() {
		cart.UpdatedAt = time.Now().UTC()
	}
	r.carts[cart.UserID] = cart
	return nil
}

// Delete удаляет корзину; отсутствие корзины ошибкой не считается.
func (r *cartRepositoryInMemory) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, userID)
	return nil
}

var _ domain.CartStore = (*cartRepositoryInMemory)(nil)
