package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

// DeclinedCardNumber: тестовый номер карты, который шлюз всегда отклоняет.
const DeclinedCardNumber = "4000000000000002"

// SimulatedGateway: встроенный шлюз для окружений без внешнего провайдера.
// Карта и кошелёк проводятся сразу, наложенный платёж остаётся pending до вручения.
type SimulatedGateway struct{}

// NewSimulatedGateway создаёт встроенный шлюз.
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

// ProcessPayment проводит платёж по правилам способа оплаты.
func (g *SimulatedGateway) ProcessPayment(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PaymentResult{}, err
	}
	if req.Amount.IsNegative() {
		return domain.PaymentResult{}, fmt.Errorf("%w: negative amount", domain.ErrPaymentFailed)
	}

	result := domain.PaymentResult{ID: uuid.NewString()}
	switch req.Method {
	case domain.PaymentMethodCOD:
		result.Status = domain.PaymentStatusPending
		result.Message = "payment will be collected on delivery"
	case domain.PaymentMethodCard:
		card := strings.ReplaceAll(req.Details["card_number"], " ", "")
		if card == DeclinedCardNumber {
			return domain.PaymentResult{}, fmt.Errorf("%w: card declined", domain.ErrPaymentFailed)
		}
		result.Status = domain.PaymentStatusCompleted
		result.TransactionRef = "card_" + result.ID
	case domain.PaymentMethodWallet:
		result.Status = domain.PaymentStatusCompleted
		result.TransactionRef = "wallet_" + result.ID
	default:
		return domain.PaymentResult{}, fmt.Errorf("%w: unsupported method %q", domain.ErrPaymentFailed, req.Method)
	}
	return result, nil
}

var _ domain.PaymentGateway = (*SimulatedGateway)(nil)
