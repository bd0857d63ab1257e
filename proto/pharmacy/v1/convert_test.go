package pharmacyv1

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

func TestFromOrder(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	o := domain.Order{
		ID:     "o-1",
		UserID: "u-1",
		Items: []domain.OrderItem{
			{ProductID: "p-1", Name: "Ibuprofen", Qty: 2, Price: decimal.RequireFromString("10.70")},
		},
		ShippingAddress:      domain.Address{FullName: "Jane", City: "Springfield", PostalCode: "12345", Country: "US"},
		PaymentMethod:        domain.PaymentMethodCard,
		PaymentStatus:        domain.PaymentStatusCompleted,
		Status:               domain.OrderStatusAwaitingPrescription,
		Subtotal:             decimal.RequireFromString("21.40"),
		PrescriptionRequired: true,
		PrescriptionStatus:   domain.PrescriptionStatusPending,
		StockDeduction:       domain.StockDeductionAtConfirmation,
		Version:              3,
		CreatedAt:            created,
	}

	got := FromOrder(o)
	assert.Equal(t, OrderStatus_ORDER_STATUS_AWAITING_PRESCRIPTION, got.GetStatus())
	assert.Equal(t, "card", got.GetPaymentMethod())
	assert.Equal(t, "at_confirmation", got.GetStockDeduction())
	assert.Equal(t, "Springfield", got.GetShippingAddress().GetCity())
	assert.Equal(t, "21.4", got.GetSubtotal())
	require.Len(t, got.GetItems(), 1)
	assert.Equal(t, "21.4", got.GetItems()[0].GetLineTotal())
	assert.Equal(t, int64(3), got.GetVersion())
	assert.True(t, created.Equal(got.GetCreatedAt().AsTime()))
	assert.Nil(t, got.GetUpdatedAt(), "zero time must not be sent")

	assert.Equal(t, o.ShippingAddress, got.GetShippingAddress().ToDomain())
}

func TestOrderStatusMapping(t *testing.T) {
	for _, s := range []domain.OrderStatus{
		domain.OrderStatusPending, domain.OrderStatusAwaitingPrescription, domain.OrderStatusConfirmed,
		domain.OrderStatusProcessing, domain.OrderStatusShipped, domain.OrderStatusDelivered, domain.OrderStatusCancelled,
	} {
		p := FromDomainStatus(s)
		assert.NotEqual(t, OrderStatus_ORDER_STATUS_UNSPECIFIED, p, s)
		assert.Equal(t, s, p.ToDomain())
	}

	assert.Equal(t, OrderStatus_ORDER_STATUS_UNSPECIFIED, FromDomainStatus("teleported"))
	assert.Empty(t, OrderStatus_ORDER_STATUS_UNSPECIFIED.ToDomain())
	assert.Empty(t, OrderStatus(42).ToDomain())
}

func TestAddressToDomainNil(t *testing.T) {
	var a *Address
	assert.Equal(t, domain.Address{}, a.ToDomain())
}

func TestFromTimeline(t *testing.T) {
	at := time.Now().UTC()
	events := FromTimeline([]domain.TimelineEvent{{OrderID: "o-1", Type: domain.EventOrderCreated, Reason: "r", Occurred: at}})
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventOrderCreated, events[0].GetType())
	assert.True(t, at.Equal(events[0].GetOccurredAt().AsTime()))

	assert.Empty(t, FromOrders(nil))
}

// Ответ переживает бинарную сериализацию protobuf без потери точности сумм.
func TestCreateOrderResponseWireRoundTrip(t *testing.T) {
	in := &CreateOrderResponse{
		Order: FromOrder(domain.Order{
			ID:          "o-1",
			Status:      domain.OrderStatusPending,
			TotalAmount: decimal.RequireFromString("36.10"),
			Items:       []domain.OrderItem{{ProductID: "p-1", Qty: 3, Price: decimal.RequireFromString("10.70")}},
			CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}),
		Payment:              FromPayment(domain.PaymentResult{ID: "pay-1", Status: domain.PaymentStatusCompleted}),
		RequiresPrescription: true,
	}

	data, err := proto.Marshal(in)
	require.NoError(t, err)

	var out CreateOrderResponse
	require.NoError(t, proto.Unmarshal(data, &out))
	assert.True(t, proto.Equal(in, &out))
	assert.True(t, decimal.RequireFromString(out.GetOrder().GetTotalAmount()).Equal(decimal.RequireFromString("36.1")))
	assert.Equal(t, "10.7", out.GetOrder().GetItems()[0].GetPrice())
	assert.Equal(t, OrderStatus_ORDER_STATUS_PENDING, out.GetOrder().GetStatus())
	assert.Equal(t, "completed", out.GetPayment().GetStatus())
}

func TestCreateOrderRequestPaymentDetailsRoundTrip(t *testing.T) {
	in := &CreateOrderRequest{
		ShippingAddress: FromAddress(domain.Address{FullName: "Jane", Line1: "1 Main St"}),
		PaymentMethod:   "card",
		PaymentDetails:  map[string]string{"card_last4": "4242"},
	}
	data, err := proto.Marshal(in)
	require.NoError(t, err)

	var out CreateOrderRequest
	require.NoError(t, proto.Unmarshal(data, &out))
	assert.Equal(t, "4242", out.GetPaymentDetails()["card_last4"])
	assert.Equal(t, "1 Main St", out.GetShippingAddress().GetLine1())
}
