// Package redis хранит корзины пользователей в Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

const (
	// KeyCart: корзина пользователя: cart:{user_id} -> JSON.
	KeyCart = "cart:%s"

	// DefaultCartTTL: брошенная корзина живёт неделю с последнего изменения.
	DefaultCartTTL = 7 * 24 * time.Hour
)

// CartStore реализует domain.CartStore поверх Redis.
type CartStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewCartStore создаёт хранилище корзин. ttl<=0 означает DefaultCartTTL.
func NewCartStore(client redis.Cmdable, ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &CartStore{client: client, ttl: ttl}
}

// NewClient создаёт клиента Redis с короткими таймаутами.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

func cartKey(userID string) string {
	return fmt.Sprintf(KeyCart, userID)
}

func (s *CartStore) FindByUser(ctx context.Context, userID string) (domain.Cart, error) {
	raw, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Cart{}, domain.ErrCartNotFound
		}
		return domain.Cart{}, fmt.Errorf("get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return domain.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	cart.UserID = userID
	return cart, nil
}

// Save перезаписывает корзину и продлевает её TTL.
func (s *CartStore) Save(ctx context.Context, cart domain.Cart) error {
	if cart.UserID == "" {
		return domain.ErrUserRequired
	}
	if cart.UpdatedAt.IsZero() {
		cart.UpdatedAt = time.Now().UTC()
	}

	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(cart.UserID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set cart: %w", err)
	}
	return nil
}

// Delete удаляет корзину; отсутствие корзины ошибкой не считается.
func (s *CartStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// Ping проверяет доступность Redis для readiness-проверки.
func (s *CartStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

var _ domain.CartStore = (*CartStore)(nil)
