package order_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/order"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/payment"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/shipping"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/storage/memory"
)

const (
	productOTC = "otc-ibuprofen"
	productRx  = "rx-amoxicillin"
)

// fixture собирает сервис заказов поверх in-memory хранилищ.
type fixture struct {
	svc      *order.Service
	orders   domain.OrderRepository
	products *memory.ProductRepository
	carts    domain.CartStore
	outbox   *memory.OutboxRepository
	timeline domain.TimelineRepository
	gateway  *payment.MockGateway
}

type fixtureOption func(*domain.OrderRepository, *domain.InventoryLedger)

func quietLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return logger.WithField("component", "order-test")
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	f := &fixture{
		orders: memory.NewOrderRepository(),
		products: memory.NewProductRepository(
			domain.Product{ID: productOTC, Name: "Ibuprofen 200mg", Price: decimal.NewFromInt(10), StockQuantity: 5},
			domain.Product{ID: productRx, Name: "Amoxicillin 500mg", Price: decimal.NewFromInt(15), StockQuantity: 5, RequiresPrescription: true},
		),
		carts:    memory.NewCartRepository(),
		outbox:   memory.NewOutboxRepository(),
		timeline: memory.NewTimelineRepository(),
		gateway:  payment.NewMockGateway(),
	}

	orders := f.orders
	var ledger domain.InventoryLedger = f.products
	for _, opt := range opts {
		opt(&orders, &ledger)
	}

	// Плоский тариф 3 без надбавок, чтобы суммы считались вручную.
	calc := shipping.NewCalculator(shipping.Config{BaseFee: decimal.NewFromInt(3)})

	svc, err := order.New(order.Deps{
		Orders:   orders,
		Catalog:  f.products,
		Ledger:   ledger,
		Carts:    f.carts,
		Shipping: calc,
		Payments: f.gateway,
		Outbox:   f.outbox,
		Timeline: f.timeline,
	}, order.WithLogger(quietLogger()), order.WithRetryPolicy(5, 0))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) putCart(t *testing.T, userID string, items ...domain.CartItem) {
	t.Helper()
	if err := f.carts.Save(context.Background(), domain.Cart{UserID: userID, Items: items}); err != nil {
		t.Fatalf("save cart: %v", err)
	}
}

func (f *fixture) stock(t *testing.T, productID string) int32 {
	t.Helper()
	p, err := f.products.Get(context.Background(), productID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	return p.StockQuantity
}

func (f *fixture) eventTypes(t *testing.T, orderID string) []string {
	t.Helper()
	events, err := f.timeline.List(context.Background(), orderID)
	if err != nil {
		t.Fatalf("list timeline: %v", err)
	}
	types := make([]string, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	return types
}

func validAddress() domain.Address {
	return domain.Address{
		FullName:   "Jane Doe",
		Line1:      "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
	}
}

func createInput(userID string, method domain.PaymentMethod) order.CreateOrderInput {
	return order.CreateOrderInput{
		UserID:          userID,
		ShippingAddress: validAddress(),
		PaymentMethod:   method,
	}
}

// conflictOnceRepository возвращает конфликт версий на первом Save после включения.
type conflictOnceRepository struct {
	domain.OrderRepository
	mu    sync.Mutex
	armed bool
	hits  int
}

func (r *conflictOnceRepository) arm() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.armed = true
}

func (r *conflictOnceRepository) Save(ctx context.Context, o domain.Order) error {
	r.mu.Lock()
	if r.armed {
		r.armed = false
		r.hits++
		r.mu.Unlock()
		return domain.ErrOrderVersionConflict
	}
	r.mu.Unlock()
	return r.OrderRepository.Save(ctx, o)
}

// countingLedger считает списания и возвраты поверх настоящего склада.
type countingLedger struct {
	domain.InventoryLedger
	mu         sync.Mutex
	decrements int
	increments int
}

func (l *countingLedger) DecrementAll(ctx context.Context, lines []domain.StockLine) error {
	err := l.InventoryLedger.DecrementAll(ctx, lines)
	if err == nil {
		l.mu.Lock()
		l.decrements++
		l.mu.Unlock()
	}
	return err
}

func (l *countingLedger) IncrementAll(ctx context.Context, lines []domain.StockLine) error {
	err := l.InventoryLedger.IncrementAll(ctx, lines)
	if err == nil {
		l.mu.Lock()
		l.increments++
		l.mu.Unlock()
	}
	return err
}

func (l *countingLedger) counts() (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.decrements, l.increments
}
