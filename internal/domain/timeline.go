package domain

import "time"

// Типы событий жизненного цикла заказа. Используются и в timeline, и в outbox.
const (
	EventOrderCreated         = "OrderCreated"
	EventPaymentRecorded      = "PaymentRecorded"
	EventPaymentFailed        = "PaymentFailed"
	EventStockDeducted        = "StockDeducted"
	EventStockDeferred        = "StockDeferred"
	EventStockRestored        = "StockRestored"
	EventStockRestoreFailed   = "StockRestoreFailed"
	EventOrderStatusChanged   = "OrderStatusChanged"
	EventOrderCancelled       = "OrderCancelled"
	EventPrescriptionUploaded = "PrescriptionUploaded"
	EventPrescriptionReviewed = "PrescriptionReviewed"
)

// TimelineEvent описывает событие в жизненном цикле заказа.
type TimelineEvent struct {
	OrderID  string
	Type     string
	Reason   string
	Occurred time.Time
}
