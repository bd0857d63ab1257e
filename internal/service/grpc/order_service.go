package grpcsvc

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/boundary"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/idempotency"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/order"
	pharmacyv1 "github.com/vladislavdragonenkov/pharmacy-oms/proto/pharmacy/v1"
)

// Ключи metadata, из которых берутся личность вызывающего и ключ идемпотентности.
const (
	MetadataUserID         = "x-user-id"
	MetadataUserRole       = "x-user-role"
	MetadataIdempotencyKey = "idempotency-key"

	RoleAdmin = "admin"
)

// OrderEngine: операции движка заказов, доступные через gRPC.
type OrderEngine interface {
	CreateOrder(ctx context.Context, in order.CreateOrderInput) (order.CreateOrderResult, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (domain.Order, error)
	GetOrderTimeline(ctx context.Context, userID, orderID string) ([]domain.TimelineEvent, error)
	GetPrescriptionRequiredOrders(ctx context.Context, userID string) ([]domain.Order, error)
	CancelOrder(ctx context.Context, userID, orderID string) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) (domain.Order, error)
	UploadPrescription(ctx context.Context, userID, orderID, documentRef string) (domain.Order, error)
	ReviewPrescription(ctx context.Context, orderID string, decision domain.PrescriptionStatus, reviewer, note string) (domain.Order, error)
}

// OrderService реализует pharmacy.v1.OrderService поверх движка заказов.
type OrderService struct {
	pharmacyv1.UnimplementedOrderServiceServer

	engine OrderEngine
	idem   *idempotency.Executor
	errs   boundary.Translator
	logger *log.Entry
}

// NewOrderService конструирует сервис. idem может быть nil: тогда ключи идемпотентности игнорируются.
func NewOrderService(engine OrderEngine, idem *idempotency.Executor, translator boundary.Translator, logger *log.Entry) *OrderService {
	if logger == nil {
		logger = log.New().WithField("component", "grpc-order-service")
	}
	return &OrderService{
		engine: engine,
		idem:   idem,
		errs:   translator,
		logger: logger,
	}
}

type caller struct {
	userID string
	role   string
}

func (c caller) admin() bool { return c.role == RoleAdmin }

// CreateOrder оформляет заказ из корзины вызывающего.
func (s *OrderService) CreateOrder(ctx context.Context, req *pharmacyv1.CreateOrderRequest) (*pharmacyv1.CreateOrderResponse, error) {
	who, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	resp, err := idempotency.Execute(ctx, s.idem, idempotency.OperationCreateOrder, who.userID, idempotencyKey(ctx), req,
		func(ctx context.Context) (*pharmacyv1.CreateOrderResponse, error) {
			res, err := s.engine.CreateOrder(ctx, order.CreateOrderInput{
				UserID:          who.userID,
				ShippingAddress: req.GetShippingAddress().ToDomain(),
				PaymentMethod:   domain.PaymentMethod(strings.ToLower(strings.TrimSpace(req.GetPaymentMethod()))),
				PaymentDetails:  req.GetPaymentDetails(),
			})
			if err != nil {
				return nil, err
			}
			return &pharmacyv1.CreateOrderResponse{
				Order:                pharmacyv1.FromOrder(res.Order),
				Payment:              pharmacyv1.FromPayment(res.Payment),
				RequiresPrescription: res.RequiresPrescription,
			}, nil
		})
	if err != nil {
		return nil, s.fail("CreateOrder", err)
	}
	return resp, nil
}

// GetOrder возвращает заказ вызывающего вместе с хронологией.
func (s *OrderService) GetOrder(ctx context.Context, req *pharmacyv1.GetOrderRequest) (*pharmacyv1.GetOrderResponse, error) {
	who, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetOrderId() == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}

	o, err := s.engine.GetOrder(ctx, who.userID, req.GetOrderId())
	if err != nil {
		return nil, s.fail("GetOrder", err)
	}
	events, err := s.engine.GetOrderTimeline(ctx, who.userID, req.GetOrderId())
	if err != nil {
		s.logger.WithError(err).WithField("order_id", req.GetOrderId()).Warn("failed to list timeline events")
		events = nil
	}

	return &pharmacyv1.GetOrderResponse{
		Order:    pharmacyv1.FromOrder(o),
		Timeline: pharmacyv1.FromTimeline(events),
	}, nil
}

// ListOrders возвращает заказы вызывающего от новых к старым.
func (s *OrderService) ListOrders(ctx context.Context, req *pharmacyv1.ListOrdersRequest) (*pharmacyv1.ListOrdersResponse, error) {
	who, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var orders []domain.Order
	if req.GetPrescriptionRequired() {
		orders, err = s.engine.GetPrescriptionRequiredOrders(ctx, who.userID)
	} else {
		orders, err = s.engine.ListOrders(ctx, who.userID)
	}
	if err != nil {
		return nil, s.fail("ListOrders", err)
	}
	return &pharmacyv1.ListOrdersResponse{Orders: pharmacyv1.FromOrders(orders)}, nil
}

// CancelOrder отменяет заказ вызывающего.
func (s *OrderService) CancelOrder(ctx context.Context, req *pharmacyv1.CancelOrderRequest) (*pharmacyv1.OrderResponse, error) {
	who, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetOrderId() == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}

	resp, err := idempotency.Execute(ctx, s.idem, idempotency.OperationCancelOrder, who.userID, idempotencyKey(ctx), req,
		func(ctx context.Context) (*pharmacyv1.OrderResponse, error) {
			o, err := s.engine.CancelOrder(ctx, who.userID, req.GetOrderId())
			if err != nil {
				return nil, err
			}
			return &pharmacyv1.OrderResponse{Order: pharmacyv1.FromOrder(o)}, nil
		})
	if err != nil {
		return nil, s.fail("CancelOrder", err)
	}
	return resp, nil
}

// UpdateOrderStatus меняет статус заказа. Только для роли admin.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, req *pharmacyv1.UpdateOrderStatusRequest) (*pharmacyv1.OrderResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if req.GetOrderId() == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}

	if req.GetStatus() == pharmacyv1.OrderStatus_ORDER_STATUS_UNSPECIFIED {
		return nil, status.Error(codes.InvalidArgument, "status is required")
	}

	o, err := s.engine.UpdateOrderStatus(ctx, req.GetOrderId(), req.GetStatus().ToDomain())
	if err != nil {
		return nil, s.fail("UpdateOrderStatus", err)
	}
	return &pharmacyv1.OrderResponse{Order: pharmacyv1.FromOrder(o)}, nil
}

// UploadPrescription прикладывает рецепт к заказу вызывающего.
func (s *OrderService) UploadPrescription(ctx context.Context, req *pharmacyv1.UploadPrescriptionRequest) (*pharmacyv1.OrderResponse, error) {
	who, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetOrderId() == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}

	o, err := s.engine.UploadPrescription(ctx, who.userID, req.GetOrderId(), req.GetDocumentRef())
	if err != nil {
		return nil, s.fail("UploadPrescription", err)
	}
	return &pharmacyv1.OrderResponse{Order: pharmacyv1.FromOrder(o)}, nil
}

// ReviewPrescription фиксирует решение по рецепту. Только для роли admin.
func (s *OrderService) ReviewPrescription(ctx context.Context, req *pharmacyv1.ReviewPrescriptionRequest) (*pharmacyv1.OrderResponse, error) {
	who, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetOrderId() == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}

	decision := domain.PrescriptionStatus(strings.ToLower(strings.TrimSpace(req.GetDecision())))
	o, err := s.engine.ReviewPrescription(ctx, req.GetOrderId(), decision, who.userID, req.GetNote())
	if err != nil {
		return nil, s.fail("ReviewPrescription", err)
	}
	return &pharmacyv1.OrderResponse{Order: pharmacyv1.FromOrder(o)}, nil
}

// GetOrderTimeline возвращает хронологию заказа вызывающего.
func (s *OrderService) GetOrderTimeline(ctx context.Context, req *pharmacyv1.GetOrderTimelineRequest) (*pharmacyv1.GetOrderTimelineResponse, error) {
	who, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetOrderId() == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}

	events, err := s.engine.GetOrderTimeline(ctx, who.userID, req.GetOrderId())
	if err != nil {
		return nil, s.fail("GetOrderTimeline", err)
	}
	return &pharmacyv1.GetOrderTimelineResponse{Events: pharmacyv1.FromTimeline(events)}, nil
}

// fail логирует внутренние ошибки и переводит ошибку в статус gRPC.
func (s *OrderService) fail(method string, err error) error {
	if domain.KindOf(err) == domain.KindInternal {
		s.logger.WithError(err).WithField("method", method).Error("order operation failed")
	}
	return s.errs.GRPCError(err)
}

func callerFromContext(ctx context.Context) (caller, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return caller{}, status.Error(codes.Unauthenticated, "x-user-id metadata is required")
	}
	who := caller{
		userID: firstValue(md, MetadataUserID),
		role:   strings.ToLower(firstValue(md, MetadataUserRole)),
	}
	if who.userID == "" {
		return caller{}, status.Error(codes.Unauthenticated, "x-user-id metadata is required")
	}
	return who, nil
}

func requireAdmin(ctx context.Context) (caller, error) {
	who, err := callerFromContext(ctx)
	if err != nil {
		return caller{}, err
	}
	if !who.admin() {
		return caller{}, status.Error(codes.PermissionDenied, "admin role is required")
	}
	return who, nil
}

func idempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	return firstValue(md, MetadataIdempotencyKey)
}

func firstValue(md metadata.MD, key string) string {
	values := md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
