package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

// JSON-представления REST API. Суммы сериализуются decimal-строками.

type Address struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int32           `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type Order struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"user_id"`
	Status               string          `json:"status"`
	Items                []OrderItem     `json:"items"`
	ShippingAddress      Address         `json:"shipping_address"`
	PaymentMethod        string          `json:"payment_method"`
	PaymentStatus        string          `json:"payment_status"`
	PaymentID            string          `json:"payment_id,omitempty"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	ShippingFee          decimal.Decimal `json:"shipping_fee"`
	Tax                  decimal.Decimal `json:"tax"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	PrescriptionRequired bool            `json:"prescription_required"`
	PrescriptionStatus   string          `json:"prescription_status"`
	PrescriptionRef      string          `json:"prescription_ref,omitempty"`
	PrescriptionNote     string          `json:"prescription_note,omitempty"`
	StockDeduction       string          `json:"stock_deduction"`
	StockDeducted        bool            `json:"stock_deducted"`
	Version              int64           `json:"version"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// Payment: результат обращения к платёжному шлюзу.
type Payment struct {
	ID             string `json:"id,omitempty"`
	Status         string `json:"status"`
	TransactionRef string `json:"transaction_ref,omitempty"`
	Message        string `json:"message,omitempty"`
}

type TimelineEvent struct {
	Type       string    `json:"type"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type CreateOrderRequest struct {
	ShippingAddress Address           `json:"shipping_address"`
	PaymentMethod   string            `json:"payment_method"`
	PaymentDetails  map[string]string `json:"payment_details,omitempty"`
}

type CreateOrderResponse struct {
	Order                Order   `json:"order"`
	Payment              Payment `json:"payment"`
	RequiresPrescription bool    `json:"requires_prescription"`
}

// OrderDetail: заказ вместе с хронологией, ответ GET /orders/{id}.
type OrderDetail struct {
	Order    Order           `json:"order"`
	Timeline []TimelineEvent `json:"timeline"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type UploadPrescriptionRequest struct {
	DocumentRef string `json:"document_ref"`
}

type ReviewPrescriptionRequest struct {
	Decision string `json:"decision"`
	Note     string `json:"note,omitempty"`
}

// cancelRequest участвует только в хеше ключа идемпотентности.
type cancelRequest struct {
	OrderID string `json:"order_id"`
}

func newOrder(o domain.Order) Order {
	items := make([]OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Qty:       item.Qty,
			Price:     item.Price,
			LineTotal: item.LineTotal(),
		})
	}

	return Order{
		ID:                   o.ID,
		UserID:               o.UserID,
		Status:               string(o.Status),
		Items:                items,
		ShippingAddress:      Address(o.ShippingAddress),
		PaymentMethod:        string(o.PaymentMethod),
		PaymentStatus:        string(o.PaymentStatus),
		PaymentID:            o.PaymentID,
		Subtotal:             o.Subtotal,
		ShippingFee:          o.ShippingFee,
		Tax:                  o.Tax,
		TotalAmount:          o.TotalAmount,
		PrescriptionRequired: o.PrescriptionRequired,
		PrescriptionStatus:   string(o.PrescriptionStatus),
		PrescriptionRef:      o.PrescriptionRef,
		PrescriptionNote:     o.PrescriptionNote,
		StockDeduction:       string(o.StockDeduction),
		StockDeducted:        o.StockDeducted,
		Version:              o.Version,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

func newOrders(orders []domain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, newOrder(o))
	}
	return result
}

func newPayment(p domain.PaymentResult) Payment {
	return Payment{
		ID:             p.ID,
		Status:         string(p.Status),
		TransactionRef: p.TransactionRef,
		Message:        p.Message,
	}
}

func newTimeline(events []domain.TimelineEvent) []TimelineEvent {
	result := make([]TimelineEvent, 0, len(events))
	for _, ev := range events {
		result = append(result, TimelineEvent{
			Type:       ev.Type,
			Reason:     ev.Reason,
			OccurredAt: ev.Occurred,
		})
	}
	return result
}
