package order

import (
	"context"
	"errors"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

// ListOrders возвращает заказы пользователя от новых к старым.
func (s *Service) ListOrders(ctx context.Context, userID string) (orders []domain.Order, err error) {
	defer s.observe("list_orders", s.now(), &err)

	orders, err = s.orders.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, domain.InternalError(err, "list orders")
	}
	return orders, nil
}

// GetOrder возвращает заказ пользователя. Чужой заказ неотличим от отсутствующего.
func (s *Service) GetOrder(ctx context.Context, userID, orderID string) (order domain.Order, err error) {
	defer s.observe("get_order", s.now(), &err)
	return s.loadOwned(ctx, userID, orderID)
}

// GetOrderTimeline возвращает хронологию событий заказа пользователя.
func (s *Service) GetOrderTimeline(ctx context.Context, userID, orderID string) ([]domain.TimelineEvent, error) {
	if _, err := s.loadOwned(ctx, userID, orderID); err != nil {
		return nil, err
	}
	if s.timeline == nil {
		return []domain.TimelineEvent{}, nil
	}
	events, err := s.timeline.List(ctx, orderID)
	if err != nil {
		return nil, domain.InternalError(err, "list timeline")
	}
	return events, nil
}

// GetPrescriptionRequiredOrders возвращает заказы, по которым пользователь должен
// загрузить или перезагрузить рецепт.
func (s *Service) GetPrescriptionRequiredOrders(ctx context.Context, userID string) (orders []domain.Order, err error) {
	defer s.observe("prescription_required_orders", s.now(), &err)

	all, err := s.orders.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, domain.InternalError(err, "list orders")
	}
	orders = make([]domain.Order, 0)
	for _, o := range all {
		if o.NeedsPrescriptionAction() {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (s *Service) loadOwned(ctx context.Context, userID, orderID string) (domain.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.OwnedBy(userID) {
		return domain.Order{}, domain.NotFoundError(domain.ErrOrderNotFound, "Order not found")
	}
	return order, nil
}

func (s *Service) load(ctx context.Context, orderID string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.NotFoundError(domain.ErrOrderNotFound, "Order not found")
	}
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return domain.Order{}, domain.NotFoundError(err, "Order not found")
		}
		return domain.Order{}, domain.InternalError(err, "load order")
	}
	return order, nil
}
