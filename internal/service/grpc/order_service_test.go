package grpcsvc_test

import (
	"context"
	"net"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/boundary"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/idempotency"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/order"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/payment"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/shipping"
	grpcsvc "github.com/vladislavdragonenkov/pharmacy-oms/internal/service/grpc"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/storage/memory"
	pharmacyv1 "github.com/vladislavdragonenkov/pharmacy-oms/proto/pharmacy/v1"
)

const bufSize = 1024 * 1024

const (
	productOTC = "otc-ibuprofen"
	productRx  = "rx-amoxicillin"
)

type testEnv struct {
	client   pharmacyv1.OrderServiceClient
	carts    domain.CartStore
	products *memory.ProductRepository
	gateway  *payment.MockGateway
}

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.PanicLevel)
	return logger.WithField("component", "test")
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		carts: memory.NewCartRepository(),
		products: memory.NewProductRepository(
			domain.Product{ID: productOTC, Name: "Ibuprofen 200mg", Price: decimal.NewFromInt(10), StockQuantity: 5},
			domain.Product{ID: productRx, Name: "Amoxicillin 500mg", Price: decimal.NewFromInt(15), StockQuantity: 5, RequiresPrescription: true},
		),
		gateway: payment.NewMockGateway(),
	}

	logger := loggerForTests()
	engine, err := order.New(order.Deps{
		Orders:   memory.NewOrderRepository(),
		Catalog:  env.products,
		Ledger:   env.products,
		Carts:    env.carts,
		Shipping: shipping.NewCalculator(shipping.Config{BaseFee: decimal.NewFromInt(3)}),
		Payments: env.gateway,
		Outbox:   memory.NewOutboxRepository(),
		Timeline: memory.NewTimelineRepository(),
	}, order.WithLogger(logger))
	require.NoError(t, err)

	executor := idempotency.NewExecutor(memory.NewIdempotencyRepository(), idempotency.DefaultTTL, logger)
	service := grpcsvc.NewOrderService(engine, executor, boundary.NewTranslator(false), logger)

	listener := bufconn.Listen(bufSize)
	server := grpc.NewServer()
	pharmacyv1.RegisterOrderServiceServer(server, service)
	go func() {
		_ = server.Serve(listener)
	}()

	dialer := func(context.Context, string) (net.Conn, error) {
		return listener.Dial()
	}
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		server.Stop()
	})

	env.client = pharmacyv1.NewOrderServiceClient(conn)
	return env
}

func userCtx(userID string, kv ...string) context.Context {
	pairs := append([]string{grpcsvc.MetadataUserID, userID}, kv...)
	return metadata.AppendToOutgoingContext(context.Background(), pairs...)
}

func adminCtx() context.Context {
	return userCtx("pharmacist-1", grpcsvc.MetadataUserRole, grpcsvc.RoleAdmin)
}

func (e *testEnv) putCart(t *testing.T, userID string, items ...domain.CartItem) {
	t.Helper()
	require.NoError(t, e.carts.Save(context.Background(), domain.Cart{UserID: userID, Items: items}))
}

func createRequest() *pharmacyv1.CreateOrderRequest {
	return &pharmacyv1.CreateOrderRequest{
		ShippingAddress: &pharmacyv1.Address{
			FullName:   "Jane Doe",
			Line1:      "1 Main St",
			City:       "Springfield",
			PostalCode: "12345",
			Country:    "US",
		},
		PaymentMethod: "card",
	}
}

func TestOrderService_CreateAndGet(t *testing.T) {
	env := newTestServer(t)
	env.putCart(t, "u1", domain.CartItem{ProductID: productOTC, Quantity: 2})

	created, err := env.client.CreateOrder(userCtx("u1"), createRequest())
	require.NoError(t, err)
	require.NotNil(t, created.Order)
	assert.Equal(t, pharmacyv1.OrderStatus_ORDER_STATUS_PENDING, created.GetOrder().GetStatus())
	assert.Equal(t, "completed", created.GetPayment().GetStatus())
	assert.False(t, created.RequiresPrescription)
	assert.True(t, decimal.RequireFromString(created.GetOrder().GetTotalAmount()).Equal(decimal.NewFromInt(25)), "total %s", created.GetOrder().GetTotalAmount())

	got, err := env.client.GetOrder(userCtx("u1"), &pharmacyv1.GetOrderRequest{OrderId: created.GetOrder().GetId()})
	require.NoError(t, err)
	assert.Equal(t, created.GetOrder().GetId(), got.GetOrder().GetId())
	require.NotEmpty(t, got.GetTimeline())
	assert.Equal(t, domain.EventOrderCreated, got.GetTimeline()[0].GetType())

	_, err = env.client.GetOrder(userCtx("u2"), &pharmacyv1.GetOrderRequest{OrderId: created.GetOrder().GetId()})
	assert.Equal(t, codes.NotFound, status.Code(err))

	list, err := env.client.ListOrders(userCtx("u1"), &pharmacyv1.ListOrdersRequest{})
	require.NoError(t, err)
	require.Len(t, list.GetOrders(), 1)
}

func TestOrderService_RequiresIdentity(t *testing.T) {
	env := newTestServer(t)

	_, err := env.client.ListOrders(context.Background(), &pharmacyv1.ListOrdersRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = env.client.UpdateOrderStatus(userCtx("u1"), &pharmacyv1.UpdateOrderStatusRequest{OrderId: "o-1", Status: pharmacyv1.OrderStatus_ORDER_STATUS_CONFIRMED})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = env.client.ReviewPrescription(userCtx("u1"), &pharmacyv1.ReviewPrescriptionRequest{OrderId: "o-1", Decision: "approved"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestOrderService_CreateOrder_ErrorMapping(t *testing.T) {
	env := newTestServer(t)

	_, err := env.client.CreateOrder(userCtx("u1"), createRequest())
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "empty cart")

	env.putCart(t, "u1", domain.CartItem{ProductID: productOTC, Quantity: 1})
	env.gateway.Result = domain.PaymentResult{Status: domain.PaymentStatusFailed, Message: "card declined"}
	_, err = env.client.CreateOrder(userCtx("u1"), createRequest())
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestOrderService_CreateOrder_IdempotentReplay(t *testing.T) {
	env := newTestServer(t)
	env.putCart(t, "u1", domain.CartItem{ProductID: productOTC, Quantity: 1})

	ctx := userCtx("u1", grpcsvc.MetadataIdempotencyKey, "key-1")
	first, err := env.client.CreateOrder(ctx, createRequest())
	require.NoError(t, err)

	// Корзина уже удалена: без ключа повтор упал бы на пустой корзине.
	second, err := env.client.CreateOrder(ctx, createRequest())
	require.NoError(t, err)
	assert.Equal(t, first.GetOrder().GetId(), second.GetOrder().GetId())
	assert.True(t, proto.Equal(first, second), "replayed response must match the original")
	assert.Equal(t, 1, env.gateway.Calls)

	mismatched := createRequest()
	mismatched.PaymentMethod = "wallet"
	_, err = env.client.CreateOrder(ctx, mismatched)
	assert.Equal(t, codes.Aborted, status.Code(err))

	// Ключ другого пользователя не пересекается.
	_, err = env.client.CreateOrder(userCtx("u2", grpcsvc.MetadataIdempotencyKey, "key-1"), createRequest())
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestOrderService_CancelOrder(t *testing.T) {
	env := newTestServer(t)
	env.putCart(t, "u1", domain.CartItem{ProductID: productOTC, Quantity: 2})

	created, err := env.client.CreateOrder(userCtx("u1"), createRequest())
	require.NoError(t, err)

	resp, err := env.client.CancelOrder(userCtx("u1"), &pharmacyv1.CancelOrderRequest{OrderId: created.GetOrder().GetId()})
	require.NoError(t, err)
	assert.Equal(t, pharmacyv1.OrderStatus_ORDER_STATUS_CANCELLED, resp.GetOrder().GetStatus())

	p, err := env.products.Get(context.Background(), productOTC)
	require.NoError(t, err)
	assert.EqualValues(t, 5, p.StockQuantity)

	_, err = env.client.CancelOrder(userCtx("u1"), &pharmacyv1.CancelOrderRequest{OrderId: created.GetOrder().GetId()})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = env.client.CancelOrder(userCtx("u1"), &pharmacyv1.CancelOrderRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestOrderService_PrescriptionFlow(t *testing.T) {
	env := newTestServer(t)
	env.putCart(t, "u1", domain.CartItem{ProductID: productRx, Quantity: 1})

	created, err := env.client.CreateOrder(userCtx("u1"), createRequest())
	require.NoError(t, err)
	assert.True(t, created.RequiresPrescription)
	assert.Equal(t, pharmacyv1.OrderStatus_ORDER_STATUS_AWAITING_PRESCRIPTION, created.GetOrder().GetStatus())

	pending, err := env.client.ListOrders(userCtx("u1"), &pharmacyv1.ListOrdersRequest{PrescriptionRequired: true})
	require.NoError(t, err)
	require.Len(t, pending.GetOrders(), 1)

	_, err = env.client.UpdateOrderStatus(adminCtx(), &pharmacyv1.UpdateOrderStatusRequest{OrderId: created.GetOrder().GetId(), Status: pharmacyv1.OrderStatus_ORDER_STATUS_CONFIRMED})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	uploaded, err := env.client.UploadPrescription(userCtx("u1"), &pharmacyv1.UploadPrescriptionRequest{OrderId: created.GetOrder().GetId(), DocumentRef: "s3://rx/1.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "s3://rx/1.pdf", uploaded.GetOrder().GetPrescriptionRef())

	reviewed, err := env.client.ReviewPrescription(adminCtx(), &pharmacyv1.ReviewPrescriptionRequest{OrderId: created.GetOrder().GetId(), Decision: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, "approved", reviewed.GetOrder().GetPrescriptionStatus())

	confirmed, err := env.client.UpdateOrderStatus(adminCtx(), &pharmacyv1.UpdateOrderStatusRequest{OrderId: created.GetOrder().GetId(), Status: pharmacyv1.OrderStatus_ORDER_STATUS_CONFIRMED})
	require.NoError(t, err)
	assert.Equal(t, pharmacyv1.OrderStatus_ORDER_STATUS_CONFIRMED, confirmed.GetOrder().GetStatus())
	assert.True(t, confirmed.GetOrder().GetStockDeducted())

	timeline, err := env.client.GetOrderTimeline(userCtx("u1"), &pharmacyv1.GetOrderTimelineRequest{OrderId: created.GetOrder().GetId()})
	require.NoError(t, err)
	types := make([]string, 0, len(timeline.GetEvents()))
	for _, ev := range timeline.GetEvents() {
		types = append(types, ev.GetType())
	}
	assert.Contains(t, types, domain.EventPrescriptionReviewed)
	assert.Contains(t, types, domain.EventStockDeducted)
}

func TestOrderService_UpdateOrderStatus_InvalidStatus(t *testing.T) {
	env := newTestServer(t)

	_, err := env.client.UpdateOrderStatus(adminCtx(), &pharmacyv1.UpdateOrderStatusRequest{OrderId: "missing", Status: pharmacyv1.OrderStatus(42)})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = env.client.UpdateOrderStatus(adminCtx(), &pharmacyv1.UpdateOrderStatusRequest{OrderId: "missing"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Equal(t, "status is required", status.Convert(err).Message())

	_, err = env.client.UpdateOrderStatus(adminCtx(), &pharmacyv1.UpdateOrderStatusRequest{OrderId: "missing", Status: pharmacyv1.OrderStatus_ORDER_STATUS_SHIPPED})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

// Клиент с кодеком по умолчанию получает бинарный protobuf: сервер не требует content-subtype.
func TestOrderService_DefaultProtoCodec(t *testing.T) {
	env := newTestServer(t)
	env.putCart(t, "u1", domain.CartItem{ProductID: productOTC, Quantity: 1})

	created, err := env.client.CreateOrder(userCtx("u1"), createRequest(), grpc.CallContentSubtype("proto"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString(created.GetOrder().GetTotalAmount()).Equal(decimal.NewFromInt(14)), "total %s", created.GetOrder().GetTotalAmount())
	assert.NotNil(t, created.GetOrder().GetCreatedAt())
	assert.Equal(t, "Springfield", created.GetOrder().GetShippingAddress().GetCity())
}
