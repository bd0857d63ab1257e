package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/metrics"
)

// Deps: зависимости сервиса заказов. Outbox и Timeline опциональны.
type Deps struct {
	Orders   domain.OrderRepository
	Catalog  domain.ProductCatalog
	Ledger   domain.InventoryLedger
	Carts    domain.CartStore
	Shipping domain.ShippingCalculator
	Payments domain.PaymentGateway
	Outbox   domain.OutboxRepository
	Timeline domain.TimelineRepository
}

// Option настраивает Service.
type Option func(*Service)

// WithLogger задаёт логгер.
func WithLogger(logger *log.Entry) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics включает метрики.
func WithMetrics(m *metrics.OrderMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator подменяет генератор идентификаторов заказов.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithRetryPolicy задаёт число попыток и базовую задержку при конфликте версий.
func WithRetryPolicy(attempts int, baseDelay time.Duration) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
		if baseDelay >= 0 {
			s.baseDelay = baseDelay
		}
	}
}

// Service управляет жизненным циклом заказа: создание из корзины, оплата,
// списание склада, рецептурный контроль, отмена и смена статуса.
type Service struct {
	orders   domain.OrderRepository
	catalog  domain.ProductCatalog
	ledger   domain.InventoryLedger
	carts    domain.CartStore
	shipping domain.ShippingCalculator
	payments domain.PaymentGateway
	outbox   domain.OutboxRepository
	timeline domain.TimelineRepository

	logger      *log.Entry
	metrics     *metrics.OrderMetrics
	now         func() time.Time
	newID       func() string
	maxAttempts int
	baseDelay   time.Duration
}

// New создаёт сервис заказов.
func New(deps Deps, opts ...Option) (*Service, error) {
	switch {
	case deps.Orders == nil:
		return nil, errors.New("order service: orders repository is required")
	case deps.Catalog == nil:
		return nil, errors.New("order service: product catalog is required")
	case deps.Ledger == nil:
		return nil, errors.New("order service: inventory ledger is required")
	case deps.Carts == nil:
		return nil, errors.New("order service: cart store is required")
	case deps.Shipping == nil:
		return nil, errors.New("order service: shipping calculator is required")
	case deps.Payments == nil:
		return nil, errors.New("order service: payment gateway is required")
	}

	s := &Service{
		orders:      deps.Orders,
		catalog:     deps.Catalog,
		ledger:      deps.Ledger,
		carts:       deps.Carts,
		shipping:    deps.Shipping,
		payments:    deps.Payments,
		outbox:      deps.Outbox,
		timeline:    deps.Timeline,
		logger:      log.New().WithField("component", "order-service"),
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
		maxAttempts: 3,
		baseDelay:   10 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateOrderInput: параметры оформления заказа.
type CreateOrderInput struct {
	UserID          string
	ShippingAddress domain.Address
	PaymentMethod   domain.PaymentMethod
	PaymentDetails  map[string]string
}

// CreateOrderResult: созданный заказ и результат оплаты.
type CreateOrderResult struct {
	Order                domain.Order
	Payment              domain.PaymentResult
	RequiresPrescription bool
}

// CreateOrder превращает корзину пользователя в заказ.
// Проверки идут в порядке: адрес, корзина, способ оплаты, остатки. Первая ошибка прерывает операцию.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (res CreateOrderResult, err error) {
	defer s.observe("create_order", s.now(), &err)

	if strings.TrimSpace(in.UserID) == "" {
		return res, domain.ValidationError(domain.ErrUserRequired, "User id is required")
	}
	if err := s.shipping.ValidateAddress(in.ShippingAddress); err != nil {
		return res, addressError(err)
	}

	cart, err := s.carts.FindByUser(ctx, in.UserID)
	if err != nil && !errors.Is(err, domain.ErrCartNotFound) {
		return res, domain.InternalError(err, "load cart")
	}
	if cart.Empty() {
		return res, domain.ValidationError(domain.ErrEmptyCart, "Cannot create order with empty cart")
	}

	if !in.PaymentMethod.Valid() {
		return res, domain.ValidationError(domain.ErrInvalidPaymentMethod, "Invalid payment method")
	}

	items, prescriptionRequired, err := s.priceCart(ctx, cart)
	if err != nil {
		return res, err
	}

	shippingFee, err := s.shipping.CalculateShippingFee(items, in.ShippingAddress)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAddress) {
			return res, addressError(err)
		}
		return res, domain.InternalError(err, "calculate shipping fee")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	tax, total := domain.CalculateTotals(subtotal, shippingFee)

	now := s.now()
	order := domain.Order{
		ID:                   s.newID(),
		UserID:               in.UserID,
		Items:                items,
		ShippingAddress:      in.ShippingAddress,
		PaymentMethod:        in.PaymentMethod,
		PaymentStatus:        domain.PaymentStatusPending,
		Subtotal:             subtotal,
		ShippingFee:          shippingFee,
		Tax:                  tax,
		TotalAmount:          total,
		Status:               domain.OrderStatusPending,
		PrescriptionRequired: prescriptionRequired,
		PrescriptionStatus:   domain.PrescriptionStatusNotRequired,
		StockDeduction:       domain.StockDeductionAtConfirmation,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if prescriptionRequired {
		order.Status = domain.OrderStatusAwaitingPrescription
		order.PrescriptionStatus = domain.PrescriptionStatusPending
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return res, domain.InternalError(err, "persist order")
	}
	s.emitEvent(ctx, &order, domain.EventOrderCreated, map[string]any{
		"user_id":               order.UserID,
		"status":                order.Status,
		"total_amount":          order.TotalAmount.String(),
		"prescription_required": order.PrescriptionRequired,
	})

	payment, payErr := s.pay(ctx, &order, in.PaymentDetails)
	if payErr != nil {
		return res, s.recordPaymentFailure(ctx, order, payErr)
	}

	order.PaymentStatus = payment.Status
	order.PaymentID = payment.ID
	if !prescriptionRequired && payment.Status == domain.PaymentStatusCompleted {
		order.StockDeduction = domain.StockDeductionAtCreation
	}

	deducted := false
	if order.StockDeduction == domain.StockDeductionAtCreation {
		if err := s.ledger.DecrementAll(ctx, order.StockLines()); err != nil {
			// Остаток успели выкупить между проверкой и списанием: списание переносится на подтверждение.
			order.StockDeduction = domain.StockDeductionAtConfirmation
			s.metrics.RecordStockDeferred()
			entry := s.logger.WithError(err).WithField("order_id", order.ID)
			if errors.Is(err, domain.ErrInsufficientStock) {
				entry.Warn("stock ran out after payment, deduction deferred to confirmation")
			} else {
				entry.Error("stock deduction failed after payment, deduction deferred to confirmation")
			}
		} else {
			order.StockDeducted = true
			deducted = true
		}
	}

	order.UpdatedAt = s.now()
	if err := s.orders.Save(ctx, order); err != nil {
		if deducted {
			s.compensateDeduction(ctx, order)
		}
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":       order.ID,
			"payment_id":     payment.ID,
			"payment_status": payment.Status,
		}).Error("failed to persist payment result")
		return res, domain.InternalError(err, "persist payment result")
	}
	order.Version++

	s.emitEvent(ctx, &order, domain.EventPaymentRecorded, map[string]any{
		"payment_id":     payment.ID,
		"payment_status": payment.Status,
		"method":         order.PaymentMethod,
	})
	switch {
	case deducted:
		s.metrics.RecordStockDeducted(string(order.StockDeduction))
		s.emitEvent(ctx, &order, domain.EventStockDeducted, map[string]any{"point": order.StockDeduction})
	case !prescriptionRequired && payment.Status == domain.PaymentStatusCompleted:
		s.emitEvent(ctx, &order, domain.EventStockDeferred, map[string]any{"reason": "insufficient stock at creation"})
	}

	if err := s.carts.Delete(ctx, order.UserID); err != nil {
		s.logger.WithError(err).WithField("user_id", order.UserID).Warn("failed to clear cart after order creation")
	}
	s.metrics.RecordOrderCreated(prescriptionRequired)

	s.logger.WithFields(log.Fields{
		"order_id":              order.ID,
		"user_id":               order.UserID,
		"payment_status":        order.PaymentStatus,
		"prescription_required": prescriptionRequired,
		"stock_deduction":       order.StockDeduction,
	}).Info("order created")

	return CreateOrderResult{
		Order:                order,
		Payment:              payment,
		RequiresPrescription: prescriptionRequired,
	}, nil
}

// priceCart проверяет остатки и фиксирует цены позиций.
func (s *Service) priceCart(ctx context.Context, cart domain.Cart) ([]domain.OrderItem, bool, error) {
	ids := make([]string, 0, len(cart.Items))
	// requested: суммарное количество по товару. Повторяющиеся строки корзины
	// списываются из одного остатка.
	requested := make(map[string]int32, len(cart.Items))
	for _, item := range cart.Items {
		if _, seen := requested[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		requested[item.ProductID] += item.Quantity
	}
	products, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		return nil, false, domain.InternalError(err, "load products")
	}

	items := make([]domain.OrderItem, 0, len(cart.Items))
	prescriptionRequired := false
	for _, line := range cart.Items {
		if line.Quantity <= 0 {
			return nil, false, domain.ValidationError(domain.ErrItemQtyInvalid, "Invalid quantity for product %s", line.ProductID)
		}
		product, ok := products[line.ProductID]
		if !ok {
			return nil, false, domain.ValidationError(domain.ErrProductNotFound, "Product %s is no longer available", line.ProductID)
		}
		if requested[line.ProductID] > product.StockQuantity {
			return nil, false, domain.ValidationError(domain.ErrInsufficientStock, "Insufficient stock for %s", product.Name)
		}
		if product.RequiresPrescription {
			prescriptionRequired = true
		}
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Qty:       line.Quantity,
			Price:     product.Price,
		})
	}
	return items, prescriptionRequired, nil
}

// pay вызывает платёжный шлюз. Статус failed в ответе считается отказом.
func (s *Service) pay(ctx context.Context, order *domain.Order, details map[string]string) (domain.PaymentResult, error) {
	start := s.now()
	payment, err := s.payments.ProcessPayment(ctx, domain.PaymentRequest{
		OrderID: order.ID,
		UserID:  order.UserID,
		Method:  order.PaymentMethod,
		Amount:  order.TotalAmount,
		Details: details,
	})
	if err == nil {
		switch payment.Status {
		case domain.PaymentStatusCompleted, domain.PaymentStatusPending:
		case domain.PaymentStatusFailed:
			reason := payment.Message
			if reason == "" {
				reason = "declined by gateway"
			}
			err = fmt.Errorf("%w: %s", domain.ErrPaymentFailed, reason)
		default:
			err = fmt.Errorf("%w: unexpected payment status %q", domain.ErrPaymentFailed, payment.Status)
		}
	}

	status := string(payment.Status)
	if err != nil {
		status = string(domain.PaymentStatusFailed)
	}
	s.metrics.RecordPayment(string(order.PaymentMethod), status, s.now().Sub(start))
	return payment, err
}

// recordPaymentFailure сохраняет заказ с paymentStatus=failed. Склад и корзина не меняются.
func (s *Service) recordPaymentFailure(ctx context.Context, order domain.Order, payErr error) error {
	order.PaymentStatus = domain.PaymentStatusFailed
	order.StockDeduction = domain.StockDeductionNone
	order.UpdatedAt = s.now()

	reason := strings.TrimPrefix(payErr.Error(), domain.ErrPaymentFailed.Error()+": ")
	if err := s.orders.Save(ctx, order); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to persist payment failure")
	} else {
		order.Version++
		s.emitEvent(ctx, &order, domain.EventPaymentFailed, map[string]any{"reason": reason})
	}

	s.logger.WithError(payErr).WithField("order_id", order.ID).Warn("payment failed")
	cause := payErr
	if !errors.Is(payErr, domain.ErrPaymentFailed) {
		cause = fmt.Errorf("%w: %w", domain.ErrPaymentFailed, payErr)
	}
	return domain.PaymentError(cause, "Payment failed: %s", reason)
}

func addressError(err error) error {
	if !errors.Is(err, domain.ErrInvalidAddress) {
		err = fmt.Errorf("%w: %w", domain.ErrInvalidAddress, err)
	}
	detail := strings.TrimPrefix(err.Error(), domain.ErrInvalidAddress.Error())
	return domain.ValidationError(err, "Invalid shipping address%s", detail)
}

// observe записывает исход операции в метрики.
func (s *Service) observe(operation string, start time.Time, errp *error) {
	result := metrics.ResultOK
	if errp != nil && *errp != nil {
		result = string(domain.KindOf(*errp))
	}
	s.metrics.RecordOperation(operation, result, s.now().Sub(start))
}
