package payment

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

// MockGateway: конфигурируемая заглушка PaymentGateway для тестов.
type MockGateway struct {
	mu sync.Mutex

	Result domain.PaymentResult
	Err    error
	// ResultFn, если задана, имеет приоритет над Result/Err.
	ResultFn func(req domain.PaymentRequest) (domain.PaymentResult, error)

	Calls    int
	Requests []domain.PaymentRequest
}

// NewMockGateway возвращает mock с успешным сценарием по умолчанию.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		Result: domain.PaymentResult{ID: "pay-mock", Status: domain.PaymentStatusCompleted},
	}
}

// ProcessPayment возвращает заранее настроенный результат и считает вызовы.
func (m *MockGateway) ProcessPayment(_ context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.Requests = append(m.Requests, req)
	if m.ResultFn != nil {
		return m.ResultFn(req)
	}
	return m.Result, m.Err
}

// CallCount возвращает число вызовов.
func (m *MockGateway) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

var _ domain.PaymentGateway = (*MockGateway)(nil)
