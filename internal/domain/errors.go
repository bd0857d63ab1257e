package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствующего идентификатора пользователя.
	ErrUserRequired = errors.New("user_id is required")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка несоответствия subtotal и сумм позиций.
	ErrAmountMismatch = errors.New("order subtotal does not match items sum")
	// Ошибка несоответствия налога или итоговой суммы.
	ErrTotalMismatch = errors.New("order tax or total does not match subtotal")
	// Флаг рецепта и статус рецепта противоречат друг другу.
	ErrPrescriptionStatusMismatch = errors.New("prescription status does not match prescription flag")
	// ErrOrderIDRequired возвращается для пустого идентификатора заказа.
	ErrOrderIDRequired = errors.New("order_id is required")
	// Ошибки валидации товара каталога.
	ErrProductIDRequired   = errors.New("product_id is required")
	ErrProductNameRequired = errors.New("product name is required")
	ErrStockNegative       = errors.New("stock quantity must be non-negative")

	// ErrEmptyCart: у пользователя нет корзины или она пуста.
	ErrEmptyCart = errors.New("cannot create order with empty cart")
	// ErrInvalidPaymentMethod: способ оплаты не поддерживается.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	// ErrInvalidAddress: адрес доставки не прошёл проверку.
	ErrInvalidAddress = errors.New("invalid shipping address")
	// ErrInvalidOrderStatus: неизвестное значение статуса заказа.
	ErrInvalidOrderStatus = errors.New("invalid order status")
	// ErrInvalidPrescriptionDecision: решение по рецепту не approved и не rejected.
	ErrInvalidPrescriptionDecision = errors.New("invalid prescription decision")
	// ErrPrescriptionRefRequired: не передана ссылка на документ рецепта.
	ErrPrescriptionRefRequired = errors.New("prescription document reference is required")

	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound возвращается, если товара нет в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrCartNotFound возвращается, если у пользователя нет корзины.
	ErrCartNotFound = errors.New("cart not found")

	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")
	// ErrOrderAlreadyExists возвращается при повторном Create с тем же ID.
	ErrOrderAlreadyExists = errors.New("order already exists")

	// ErrInsufficientStock: на складе меньше единиц, чем требуется.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOrderNotCancellable: отменить можно только pending и awaiting_prescription.
	ErrOrderNotCancellable = errors.New("order cannot be cancelled at this stage")
	// ErrOrderCancelled: отменённый заказ больше не меняет статус.
	ErrOrderCancelled = errors.New("order is cancelled")
	// ErrPrescriptionNotApproved: рецептурный заказ нельзя подтвердить без одобренного рецепта.
	ErrPrescriptionNotApproved = errors.New("prescription must be approved before confirming order")
	// ErrPrescriptionNotRequired: заказ не содержит рецептурных товаров.
	ErrPrescriptionNotRequired = errors.New("order does not require a prescription")
	// ErrPrescriptionNotReviewable: рецепт уже нельзя загрузить или пересмотреть.
	ErrPrescriptionNotReviewable = errors.New("prescription can no longer be changed for this order")
	// ErrPaymentNotCompleted: заказ с неуспешной оплатой нельзя подтвердить.
	ErrPaymentNotCompleted = errors.New("order payment failed, order cannot be confirmed")

	// ErrPaymentFailed: платёжный шлюз отклонил платёж или вернул ошибку.
	ErrPaymentFailed = errors.New("payment failed")
	// ErrPaymentTemporary: временная ошибка платёжного шлюза.
	ErrPaymentTemporary = errors.New("payment temporary error")
	// ErrCircuitOpen: платёжный шлюз временно отключён circuit breaker'ом.
	ErrCircuitOpen = errors.New("payment gateway circuit open")

	// ErrOutboxPublish: ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// ErrorKind классифицирует ошибки для транспорта.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindState      ErrorKind = "state"
	KindPayment    ErrorKind = "payment"
	KindConflict   ErrorKind = "conflict"
	KindInternal   ErrorKind = "internal"
)

// Error: типизированная ошибка операции над заказом.
// Message предназначено для клиента, Err хранит причину.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Message
	case e.Message == "":
		return e.Err.Error()
	default:
		return e.Message + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// ValidationError: входные данные некорректны, состояние не менялось.
func ValidationError(cause error, format string, args ...any) *Error {
	return newError(KindValidation, cause, format, args...)
}

// NotFoundError: сущность отсутствует или не принадлежит пользователю.
func NotFoundError(cause error, format string, args ...any) *Error {
	return newError(KindNotFound, cause, format, args...)
}

// StateError: переход запрещён текущим состоянием заказа.
func StateError(cause error, format string, args ...any) *Error {
	return newError(KindState, cause, format, args...)
}

// PaymentError: оплата не прошла; заказ сохранён с paymentStatus=failed.
func PaymentError(cause error, format string, args ...any) *Error {
	return newError(KindPayment, cause, format, args...)
}

// InternalError: сбой инфраструктуры.
func InternalError(cause error, format string, args ...any) *Error {
	return newError(KindInternal, cause, format, args...)
}

// KindOf определяет вид ошибки. Голые sentinel-ошибки тоже классифицируются.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	switch {
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrProductNotFound), errors.Is(err, ErrCartNotFound):
		return KindNotFound
	case errors.Is(err, ErrOrderVersionConflict), errors.Is(err, ErrOrderAlreadyExists):
		return KindConflict
	case errors.Is(err, ErrPaymentFailed):
		return KindPayment
	default:
		return KindInternal
	}
}

// PublicMessage возвращает сообщение, безопасное для клиента.
func PublicMessage(err error) string {
	var typed *Error
	if errors.As(err, &typed) && typed.Message != "" {
		return typed.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}
