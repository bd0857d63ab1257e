package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

// CircuitState: состояние circuit breaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreaker простая потокобезопасная реализация circuit breaker.
type CircuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration
	now          func() time.Time

	mu          sync.Mutex
	failures    int
	lastFailure time.Time
	state       CircuitState
	logger      *log.Entry
}

// NewCircuitBreaker создаёт новый circuit breaker.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, logger *log.Entry) *CircuitBreaker {
	if logger == nil {
		logger = log.New().WithField("component", "circuit-breaker")
	}
	if maxFailures <= 0 {
		maxFailures = 5
	}

	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		now:          time.Now,
		state:        CircuitClosed,
		logger:       logger,
	}
}

// State возвращает текущее состояние.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Execute выполняет операцию через circuit breaker.
// Ошибки, для которых countable возвращает false, не открывают цепь.
func (cb *CircuitBreaker) Execute(operation string, fn func() error, countable func(error) bool) error {
	if err := cb.before(operation); err != nil {
		return err
	}

	err := fn()
	cb.after(operation, err, countable)
	return err
}

func (cb *CircuitBreaker) before(operation string) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != CircuitOpen {
		return nil
	}
	if cb.now().Sub(cb.lastFailure) > cb.resetTimeout {
		cb.state = CircuitHalfOpen
		cb.logger.WithField("operation", operation).Info("Circuit breaker half-open")
		return nil
	}
	return domain.ErrCircuitOpen
}

func (cb *CircuitBreaker) after(operation string, err error, countable func(error) bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil && (countable == nil || countable(err)) {
		cb.failures++
		cb.lastFailure = cb.now()

		if cb.state == CircuitHalfOpen || cb.failures >= cb.maxFailures {
			cb.state = CircuitOpen
			cb.logger.WithFields(log.Fields{
				"operation": operation,
				"failures":  cb.failures,
			}).Warn("Circuit breaker opened")
		}
		return
	}

	if cb.state == CircuitHalfOpen {
		cb.state = CircuitClosed
		cb.logger.WithField("operation", operation).Info("Circuit breaker closed")
	}
	cb.failures = 0
}

// ResilientGateway ограничивает время вызова шлюза и отключает его при серии сбоев.
// Платёж не повторяется автоматически, чтобы не списать деньги дважды.
type ResilientGateway struct {
	next    domain.PaymentGateway
	timeout time.Duration
	breaker *CircuitBreaker
	logger  *log.Entry
}

// NewResilientGateway оборачивает шлюз таймаутом и circuit breaker.
func NewResilientGateway(next domain.PaymentGateway, timeout time.Duration, breaker *CircuitBreaker, logger *log.Entry) *ResilientGateway {
	if logger == nil {
		logger = log.New().WithField("component", "payment-gateway")
	}
	if breaker == nil {
		breaker = NewCircuitBreaker(5, 30*time.Second, logger)
	}
	return &ResilientGateway{next: next, timeout: timeout, breaker: breaker, logger: logger}
}

// ProcessPayment вызывает шлюз с таймаутом. Отказ по бизнес-причине не считается сбоем шлюза.
func (g *ResilientGateway) ProcessPayment(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	var result domain.PaymentResult

	err := g.breaker.Execute("ProcessPayment", func() error {
		callCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}

		var callErr error
		result, callErr = g.next.ProcessPayment(callCtx, req)
		if callErr != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: gateway timeout after %s", domain.ErrPaymentTemporary, g.timeout)
		}
		return callErr
	}, isGatewayFault)

	if err != nil {
		g.logger.WithFields(log.Fields{
			"order_id": req.OrderID,
			"method":   req.Method,
			"error":    err,
		}).Warn("payment gateway call failed")
		return domain.PaymentResult{}, err
	}
	return result, nil
}

// isGatewayFault отделяет сбои шлюза от отказов в оплате.
func isGatewayFault(err error) bool {
	return !errors.Is(err, domain.ErrPaymentFailed)
}

var _ domain.PaymentGateway = (*ResilientGateway)(nil)
