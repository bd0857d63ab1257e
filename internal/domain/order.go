package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate: ставка налога, применяемая к сумме позиций заказа.
var TaxRate = decimal.RequireFromString("0.1")

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending: заказ создан и ждёт подтверждения.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusAwaitingPrescription: заказ с рецептурными товарами ждёт проверки рецепта.
	OrderStatusAwaitingPrescription OrderStatus = "awaiting_prescription"
	// OrderStatusConfirmed: заказ подтверждён, склад списан.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusProcessing: заказ собирается.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipped: заказ передан в доставку.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered: заказ вручён покупателю.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled: заказ отменён. Терминальный статус.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAwaitingPrescription, OrderStatusConfirmed,
		OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// PrescriptionStatus описывает состояние проверки рецепта.
type PrescriptionStatus string

const (
	PrescriptionStatusNotRequired PrescriptionStatus = "not_required"
	PrescriptionStatusPending     PrescriptionStatus = "pending"
	PrescriptionStatusApproved    PrescriptionStatus = "approved"
	PrescriptionStatusRejected    PrescriptionStatus = "rejected"
)

// StockDeductionPoint фиксирует момент, в который заказ списывает склад.
// Значение выставляется при создании заказа.
type StockDeductionPoint string

const (
	// StockDeductionAtCreation: склад списан сразу после успешной оплаты.
	StockDeductionAtCreation StockDeductionPoint = "at_creation"
	// StockDeductionAtConfirmation: склад списывается при переводе в confirmed.
	StockDeductionAtConfirmation StockDeductionPoint = "at_confirmation"
	// StockDeductionNone: заказ никогда не списывает склад (оплата не прошла).
	StockDeductionNone StockDeductionPoint = "none"
)

// OrderItem представляет одну позицию заказа с ценой, зафиксированной при создании.
type OrderItem struct {
	ProductID string
	Name      string
	Qty       int32
	Price     decimal.Decimal
}

// LineTotal возвращает стоимость позиции.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt32(i.Qty))
}

// Order агрегирует состояние заказа, оплаты и рецепта.
type Order struct {
	ID              string
	UserID          string
	Items           []OrderItem
	ShippingAddress Address
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	PaymentID       string

	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Tax         decimal.Decimal
	TotalAmount decimal.Decimal

	Status               OrderStatus
	PrescriptionRequired bool
	PrescriptionStatus   PrescriptionStatus
	PrescriptionRef      string
	PrescriptionNote     string

	StockDeduction StockDeductionPoint
	StockDeducted  bool

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CalculateTotals считает налог и итоговую сумму заказа.
func CalculateTotals(subtotal, shippingFee decimal.Decimal) (tax, total decimal.Decimal) {
	tax = subtotal.Mul(TaxRate)
	total = subtotal.Add(shippingFee).Add(tax)
	return tax, total
}

// StockLines возвращает позиции заказа в виде строк для складского журнала.
func (o *Order) StockLines() []StockLine {
	lines := make([]StockLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, StockLine{ProductID: item.ProductID, Name: item.Name, Qty: item.Qty})
	}
	return lines
}

// Cancellable сообщает, можно ли отменить заказ по запросу покупателя.
func (o *Order) Cancellable() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusAwaitingPrescription
}

// NeedsPrescriptionAction: заказ ждёт от покупателя загрузки или повторной загрузки рецепта.
func (o *Order) NeedsPrescriptionAction() bool {
	if !o.PrescriptionRequired {
		return false
	}
	return o.PrescriptionStatus == PrescriptionStatusPending || o.PrescriptionStatus == PrescriptionStatusRejected
}

// OwnedBy проверяет принадлежность заказа пользователю.
func (o *Order) OwnedBy(userID string) bool {
	return userID != "" && o.UserID == userID
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.UserID == "" {
		errs = append(errs, ErrUserRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if !o.PaymentMethod.Valid() {
		errs = append(errs, ErrInvalidPaymentMethod)
	}

	calc := decimal.Zero
	for _, item := range o.Items {
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.Price.IsNegative() {
			errs = append(errs, ErrItemPriceInvalid)
		}
		calc = calc.Add(item.LineTotal())
	}
	if !calc.Equal(o.Subtotal) {
		errs = append(errs, ErrAmountMismatch)
	}

	tax, total := CalculateTotals(o.Subtotal, o.ShippingFee)
	if !tax.Equal(o.Tax) || !total.Equal(o.TotalAmount) {
		errs = append(errs, ErrTotalMismatch)
	}

	if o.PrescriptionRequired == (o.PrescriptionStatus == PrescriptionStatusNotRequired) {
		errs = append(errs, ErrPrescriptionStatusMismatch)
	}

	return errs
}
