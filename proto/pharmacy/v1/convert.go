package pharmacyv1

import (
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

var (
	statusToProto = map[domain.OrderStatus]OrderStatus{
		domain.OrderStatusPending:              OrderStatus_ORDER_STATUS_PENDING,
		domain.OrderStatusAwaitingPrescription: OrderStatus_ORDER_STATUS_AWAITING_PRESCRIPTION,
		domain.OrderStatusConfirmed:            OrderStatus_ORDER_STATUS_CONFIRMED,
		domain.OrderStatusProcessing:           OrderStatus_ORDER_STATUS_PROCESSING,
		domain.OrderStatusShipped:              OrderStatus_ORDER_STATUS_SHIPPED,
		domain.OrderStatusDelivered:            OrderStatus_ORDER_STATUS_DELIVERED,
		domain.OrderStatusCancelled:            OrderStatus_ORDER_STATUS_CANCELLED,
	}
	statusFromProto = func() map[OrderStatus]domain.OrderStatus {
		m := make(map[OrderStatus]domain.OrderStatus, len(statusToProto))
		for d, p := range statusToProto {
			m[p] = d
		}
		return m
	}()
)

// FromDomainStatus переводит доменный статус в enum. Неизвестный статус даёт UNSPECIFIED.
func FromDomainStatus(s domain.OrderStatus) OrderStatus {
	return statusToProto[s]
}

// ToDomain возвращает доменный статус. Для UNSPECIFIED и неизвестных значений результат пустой,
// такой статус движок отклоняет как невалидный.
func (x OrderStatus) ToDomain() domain.OrderStatus {
	return statusFromProto[x]
}

func FromOrder(o domain.Order) *Order {
	items := make([]*OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, &OrderItem{
			ProductId: item.ProductID,
			Name:      item.Name,
			Qty:       item.Qty,
			Price:     item.Price.String(),
			LineTotal: item.LineTotal().String(),
		})
	}

	return &Order{
		Id:                   o.ID,
		UserId:               o.UserID,
		Status:               FromDomainStatus(o.Status),
		Items:                items,
		ShippingAddress:      FromAddress(o.ShippingAddress),
		PaymentMethod:        string(o.PaymentMethod),
		PaymentStatus:        string(o.PaymentStatus),
		PaymentId:            o.PaymentID,
		Subtotal:             o.Subtotal.String(),
		ShippingFee:          o.ShippingFee.String(),
		Tax:                  o.Tax.String(),
		TotalAmount:          o.TotalAmount.String(),
		PrescriptionRequired: o.PrescriptionRequired,
		PrescriptionStatus:   string(o.PrescriptionStatus),
		PrescriptionRef:      o.PrescriptionRef,
		PrescriptionNote:     o.PrescriptionNote,
		StockDeduction:       string(o.StockDeduction),
		StockDeducted:        o.StockDeducted,
		Version:              o.Version,
		CreatedAt:            timestamp(o.CreatedAt),
		UpdatedAt:            timestamp(o.UpdatedAt),
	}
}

func FromOrders(orders []domain.Order) []*Order {
	result := make([]*Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, FromOrder(o))
	}
	return result
}

func FromPayment(p domain.PaymentResult) *Payment {
	return &Payment{
		Id:             p.ID,
		Status:         string(p.Status),
		TransactionRef: p.TransactionRef,
		Message:        p.Message,
	}
}

func FromTimeline(events []domain.TimelineEvent) []*TimelineEvent {
	result := make([]*TimelineEvent, 0, len(events))
	for _, ev := range events {
		result = append(result, &TimelineEvent{
			Type:       ev.Type,
			Reason:     ev.Reason,
			OccurredAt: timestamp(ev.Occurred),
		})
	}
	return result
}

func FromAddress(a domain.Address) *Address {
	return &Address{
		FullName:   a.FullName,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

// ToDomain переводит адрес из запроса в доменный. nil даёт пустой адрес.
func (x *Address) ToDomain() domain.Address {
	return domain.Address{
		FullName:   x.GetFullName(),
		Line1:      x.GetLine1(),
		Line2:      x.GetLine2(),
		City:       x.GetCity(),
		State:      x.GetState(),
		PostalCode: x.GetPostalCode(),
		Country:    x.GetCountry(),
		Phone:      x.GetPhone(),
	}
}

func timestamp(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}
