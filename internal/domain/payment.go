package domain

import "github.com/shopspring/decimal"

// PaymentMethod: способ оплаты заказа.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodWallet PaymentMethod = "wallet"
	// PaymentMethodCOD: оплата при получении, платёж остаётся pending.
	PaymentMethodCOD PaymentMethod = "cod"
)

// Valid проверяет, что способ оплаты поддерживается.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodWallet, PaymentMethodCOD:
		return true
	default:
		return false
	}
}

// PaymentStatus описывает состояние платежа по заказу.
type PaymentStatus string

const (
	// PaymentStatusPending: платёж инициирован, но деньги ещё не получены.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusCompleted: деньги получены.
	PaymentStatusCompleted PaymentStatus = "completed"
	// PaymentStatusFailed: шлюз отклонил платёж или произошла ошибка.
	PaymentStatusFailed PaymentStatus = "failed"
)

// PaymentRequest: запрос к платёжному шлюзу.
type PaymentRequest struct {
	OrderID string
	UserID  string
	Method  PaymentMethod
	Amount  decimal.Decimal
	Details map[string]string
}

// PaymentResult: ответ платёжного шлюза.
type PaymentResult struct {
	ID             string
	Status         PaymentStatus
	TransactionRef string
	Message        string
}
