package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLedger изменяет складские остатки атомарно.
// Проверка и изменение остатка выполняются одной операцией: остаток не уходит в минус.
type InventoryLedger interface {
	// Decrement уменьшает остаток, если его хватает, иначе возвращает ErrInsufficientStock.
	Decrement(ctx context.Context, productID string, qty int32) error
	// Increment возвращает единицы на склад.
	Increment(ctx context.Context, productID string, qty int32) error
	// DecrementAll списывает все строки либо ни одной.
	DecrementAll(ctx context.Context, lines []StockLine) error
	// IncrementAll возвращает все строки на склад.
	IncrementAll(ctx context.Context, lines []StockLine) error
}

// ProductCatalog отдаёт товары каталога.
type ProductCatalog interface {
	Get(ctx context.Context, id string) (Product, error)
	// GetMany возвращает найденные товары; отсутствующие ID просто не попадают в map.
	GetMany(ctx context.Context, ids []string) (map[string]Product, error)
	List(ctx context.Context, limit int) ([]Product, error)
	Upsert(ctx context.Context, product Product) error
}

// CartStore хранит корзины пользователей.
type CartStore interface {
	// FindByUser возвращает корзину или ErrCartNotFound.
	FindByUser(ctx context.Context, userID string) (Cart, error)
	Save(ctx context.Context, cart Cart) error
	Delete(ctx context.Context, userID string) error
}

// ShippingCalculator проверяет адрес и считает стоимость доставки.
type ShippingCalculator interface {
	ValidateAddress(addr Address) error
	CalculateShippingFee(items []OrderItem, addr Address) (decimal.Decimal, error)
}

// PaymentGateway проводит платёж по заказу.
type PaymentGateway interface {
	ProcessPayment(ctx context.Context, req PaymentRequest) (PaymentResult, error)
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(ctx context.Context, event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg OutboxMessage) (OutboxMessage, error)
	PullPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	Stats(ctx context.Context) (OutboxStats, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(ctx context.Context, event TimelineEvent) error
	List(ctx context.Context, orderID string) ([]TimelineEvent, error)
}

// IdempotencyRepository хранит состояние обработки запросов по idempotency-key.
type IdempotencyRepository interface {
	CreateProcessing(ctx context.Context, key, requestHash string, ttlAt time.Time) (IdempotencyRecord, error)
	Get(ctx context.Context, key string) (IdempotencyRecord, error)
	MarkDone(ctx context.Context, key string, responseBody []byte) error
	MarkFailed(ctx context.Context, key string, responseBody []byte, kind ErrorKind) error
	// Release удаляет незавершённый ключ, чтобы запрос можно было повторить.
	Release(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context, before time.Time, limit int) (int, error)
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
