package order

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

// event: событие, которое публикуется после успешного сохранения.
type event struct {
	kind    string
	payload map[string]any
}

// change описывает результат решения над заказом.
type change struct {
	noop bool
	// deduct: списать склад до сохранения заказа.
	deduct bool
	// restore: вернуть склад после сохранения заказа.
	restore bool
	events  []event
}

// decideFunc проверяет предусловия и меняет заказ в памяти.
type decideFunc func(order *domain.Order) (change, error)

// CancelOrder отменяет заказ пользователя в статусе pending или awaiting_prescription.
// Склад возвращается только если он был списан.
func (s *Service) CancelOrder(ctx context.Context, userID, orderID string) (order domain.Order, err error) {
	defer s.observe("cancel_order", s.now(), &err)

	return s.mutate(ctx, orderID, func(o *domain.Order) (change, error) {
		if !o.OwnedBy(userID) {
			return change{}, domain.NotFoundError(domain.ErrOrderNotFound, "Order not found")
		}
		if !o.Cancellable() {
			return change{}, domain.StateError(domain.ErrOrderNotCancellable, "Order cannot be cancelled at this stage")
		}
		return s.cancel(o, "cancelled by customer"), nil
	})
}

// UpdateOrderStatus: привилегированная смена статуса. Авторизация выполняется транспортом.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) (order domain.Order, err error) {
	defer s.observe("update_order_status", s.now(), &err)

	if !newStatus.Valid() {
		return domain.Order{}, domain.ValidationError(domain.ErrInvalidOrderStatus, "Invalid order status %q", newStatus)
	}

	return s.mutate(ctx, orderID, func(o *domain.Order) (change, error) {
		if o.Status == domain.OrderStatusCancelled {
			return change{}, domain.StateError(domain.ErrOrderCancelled, "Cannot update status of a cancelled order")
		}
		if o.Status == newStatus {
			return change{noop: true}, nil
		}
		if newStatus == domain.OrderStatusCancelled {
			return s.cancel(o, "cancelled by operator"), nil
		}

		// Без одобренного рецепта заказ покидает awaiting_prescription только отменой.
		if o.Status == domain.OrderStatusAwaitingPrescription && o.PrescriptionStatus != domain.PrescriptionStatusApproved && !isFulfilment(newStatus) {
			return change{}, domain.StateError(domain.ErrPrescriptionNotApproved, "Order is awaiting prescription approval")
		}

		var ch change
		if isFulfilment(newStatus) {
			if o.PrescriptionRequired && o.PrescriptionStatus != domain.PrescriptionStatusApproved {
				return change{}, domain.StateError(domain.ErrPrescriptionNotApproved, "Cannot confirm order without prescription approval")
			}
			if o.PaymentStatus == domain.PaymentStatusFailed || o.StockDeduction == domain.StockDeductionNone {
				return change{}, domain.StateError(domain.ErrPaymentNotCompleted, "Cannot confirm order with failed payment")
			}
			if o.StockDeduction == domain.StockDeductionAtConfirmation && !o.StockDeducted {
				o.StockDeducted = true
				ch.deduct = true
			}
		}

		previous := o.Status
		o.Status = newStatus
		ch.events = append(ch.events, event{kind: domain.EventOrderStatusChanged, payload: map[string]any{
			"status":          newStatus,
			"previous_status": previous,
		}})
		return ch, nil
	})
}

// UploadPrescription сохраняет ссылку на документ рецепта и возвращает рецепт на проверку.
func (s *Service) UploadPrescription(ctx context.Context, userID, orderID, documentRef string) (order domain.Order, err error) {
	defer s.observe("upload_prescription", s.now(), &err)

	documentRef = strings.TrimSpace(documentRef)
	if documentRef == "" {
		return domain.Order{}, domain.ValidationError(domain.ErrPrescriptionRefRequired, "Prescription document is required")
	}

	return s.mutate(ctx, orderID, func(o *domain.Order) (change, error) {
		if !o.OwnedBy(userID) {
			return change{}, domain.NotFoundError(domain.ErrOrderNotFound, "Order not found")
		}
		if !o.PrescriptionRequired {
			return change{}, domain.StateError(domain.ErrPrescriptionNotRequired, "Order does not require a prescription")
		}
		if o.Status != domain.OrderStatusAwaitingPrescription || o.PrescriptionStatus == domain.PrescriptionStatusApproved {
			return change{}, domain.StateError(domain.ErrPrescriptionNotReviewable, "Prescription can no longer be uploaded for this order")
		}

		o.PrescriptionRef = documentRef
		o.PrescriptionStatus = domain.PrescriptionStatusPending
		o.PrescriptionNote = ""
		return change{events: []event{{kind: domain.EventPrescriptionUploaded, payload: map[string]any{
			"document_ref": documentRef,
		}}}}, nil
	})
}

// ReviewPrescription фиксирует решение фармацевта по рецепту. Повтор того же решения ничего не меняет.
func (s *Service) ReviewPrescription(ctx context.Context, orderID string, decision domain.PrescriptionStatus, reviewer, note string) (order domain.Order, err error) {
	defer s.observe("review_prescription", s.now(), &err)

	if decision != domain.PrescriptionStatusApproved && decision != domain.PrescriptionStatusRejected {
		return domain.Order{}, domain.ValidationError(domain.ErrInvalidPrescriptionDecision, "Prescription decision must be approved or rejected")
	}

	return s.mutate(ctx, orderID, func(o *domain.Order) (change, error) {
		if !o.PrescriptionRequired {
			return change{}, domain.StateError(domain.ErrPrescriptionNotRequired, "Order does not require a prescription")
		}
		if o.Status != domain.OrderStatusAwaitingPrescription {
			return change{}, domain.StateError(domain.ErrPrescriptionNotReviewable, "Prescription can no longer be reviewed for this order")
		}
		if o.PrescriptionStatus == decision && o.PrescriptionNote == note {
			return change{noop: true}, nil
		}

		o.PrescriptionStatus = decision
		o.PrescriptionNote = note
		return change{events: []event{{kind: domain.EventPrescriptionReviewed, payload: map[string]any{
			"decision": decision,
			"reviewer": reviewer,
			"reason":   note,
		}}}}, nil
	})
}

// cancel переводит заказ в cancelled и планирует возврат списанного склада.
func (s *Service) cancel(o *domain.Order, reason string) change {
	ch := change{}
	if o.StockDeducted {
		o.StockDeducted = false
		ch.restore = true
	}
	previous := o.Status
	o.Status = domain.OrderStatusCancelled
	ch.events = append(ch.events, event{kind: domain.EventOrderCancelled, payload: map[string]any{
		"previous_status": previous,
		"reason":          reason,
		"stock_restored":  ch.restore,
	}})
	return ch
}

// mutate читает заказ, применяет decide и сохраняет результат с проверкой версии.
// При конфликте версий заказ перечитывается и решение принимается заново.
// Списание склада, проигравшее гонку за сохранение, компенсируется.
func (s *Service) mutate(ctx context.Context, orderID string, decide decideFunc) (domain.Order, error) {
	var lastErr error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		order, err := s.load(ctx, orderID)
		if err != nil {
			return domain.Order{}, err
		}

		ch, err := decide(&order)
		if err != nil {
			return domain.Order{}, err
		}
		if ch.noop {
			return order, nil
		}

		if ch.deduct {
			if err := s.ledger.DecrementAll(ctx, order.StockLines()); err != nil {
				var stockErr *domain.InsufficientStockError
				if errors.As(err, &stockErr) {
					return domain.Order{}, domain.StateError(err, "Insufficient stock for %s", stockLabel(stockErr))
				}
				if errors.Is(err, domain.ErrInsufficientStock) {
					return domain.Order{}, domain.StateError(err, "Insufficient stock")
				}
				return domain.Order{}, domain.InternalError(err, "deduct stock")
			}
		}

		order.UpdatedAt = s.now()
		if err := s.orders.Save(ctx, order); err != nil {
			if ch.deduct {
				s.compensateDeduction(ctx, order)
			}
			if domain.IsVersionConflict(err) {
				lastErr = err
				s.logger.WithFields(log.Fields{
					"order_id": order.ID,
					"attempt":  attempt + 1,
					"version":  order.Version,
				}).Warn("version conflict detected, retrying")
				if !s.sleep(ctx, s.baseDelay*time.Duration(1<<uint(attempt))) {
					return domain.Order{}, domain.InternalError(ctx.Err(), "retry interrupted")
				}
				continue
			}
			return domain.Order{}, domain.InternalError(err, "persist order")
		}
		order.Version++

		if ch.deduct {
			s.metrics.RecordStockDeducted(string(order.StockDeduction))
			s.emitEvent(ctx, &order, domain.EventStockDeducted, map[string]any{"point": order.StockDeduction})
		}
		if ch.restore {
			s.restoreStock(ctx, &order)
		}
		for _, ev := range ch.events {
			s.emitEvent(ctx, &order, ev.kind, ev.payload)
		}
		return order, nil
	}

	return domain.Order{}, &domain.Error{
		Kind:    domain.KindConflict,
		Message: "Order was modified concurrently, please retry",
		Err:     lastErr,
	}
}

// restoreStock возвращает склад отменённого заказа. Заказ уже сохранён как отменённый,
// поэтому при неудаче операция повторяется, а затем фиксируется событие для сверки.
func (s *Service) restoreStock(ctx context.Context, order *domain.Order) {
	lines := order.StockLines()
	var err error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if err = s.ledger.IncrementAll(ctx, lines); err == nil {
			s.metrics.RecordStockRestored(string(order.StockDeduction))
			s.emitEvent(ctx, order, domain.EventStockRestored, map[string]any{"point": order.StockDeduction})
			return
		}
		if !s.sleep(ctx, s.baseDelay*time.Duration(1<<uint(attempt))) {
			break
		}
	}

	s.logger.WithError(err).WithFields(log.Fields{
		"order_id": order.ID,
		"lines":    lines,
	}).Error("failed to restore stock for cancelled order")
	s.emitEvent(ctx, order, domain.EventStockRestoreFailed, map[string]any{"reason": err.Error()})
}

// compensateDeduction возвращает склад, списанный под сохранение, которое не состоялось.
func (s *Service) compensateDeduction(ctx context.Context, order domain.Order) {
	if err := s.ledger.IncrementAll(ctx, order.StockLines()); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to compensate stock deduction")
		return
	}
	s.logger.WithField("order_id", order.ID).Info("stock deduction compensated")
}

func (s *Service) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// isFulfilment: статусы, в которых заказ считается подтверждённым.
func isFulfilment(status domain.OrderStatus) bool {
	switch status {
	case domain.OrderStatusConfirmed, domain.OrderStatusProcessing, domain.OrderStatusShipped, domain.OrderStatusDelivered:
		return true
	default:
		return false
	}
}

func stockLabel(err *domain.InsufficientStockError) string {
	if err.Name != "" {
		return err.Name
	}
	return err.ProductID
}
