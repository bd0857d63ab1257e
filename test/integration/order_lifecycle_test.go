package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/IBM/sarama"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/boundary"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/httpapi"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/messaging/kafka"
	grpcsvc "github.com/vladislavdragonenkov/pharmacy-oms/internal/service/grpc"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/idempotency"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/order"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/outbox"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/payment"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/shipping"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/storage/memory"
	pharmacyv1 "github.com/vladislavdragonenkov/pharmacy-oms/proto/pharmacy/v1"
)

const (
	otcProduct = "otc-ibuprofen"
	rxProduct  = "rx-amoxicillin"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []domain.OutboxMessage
}

func (p *capturePublisher) Publish(_ context.Context, event domain.OutboxMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) types(orderID string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		if e.AggregateID == orderID {
			out = append(out, e.EventType)
		}
	}
	return out
}

// OrderLifecycleTestSuite прогоняет заказ через HTTP API, gRPC, Kafka-обработчик решений и outbox.
type OrderLifecycleTestSuite struct {
	suite.Suite
	products  *memory.ProductRepository
	grpc      *grpcsvc.OrderService
	api       *httptest.Server
	decisions kafka.MessageHandler
	worker    *outbox.Worker
	published *capturePublisher
}

func (suite *OrderLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel)
	logger := baseLogger.WithField("component", "integration-test")

	suite.products = memory.NewProductRepository(
		domain.Product{ID: otcProduct, Name: "Ibuprofen 200mg", Price: decimal.RequireFromString("5.50"), StockQuantity: 10},
		domain.Product{ID: rxProduct, Name: "Amoxicillin 500mg", Price: decimal.RequireFromString("12.00"), StockQuantity: 4, RequiresPrescription: true},
	)
	carts := memory.NewCartRepository()
	outboxRepo := memory.NewOutboxRepository()

	engine, err := order.New(order.Deps{
		Orders:   memory.NewOrderRepository(),
		Catalog:  suite.products,
		Ledger:   suite.products,
		Carts:    carts,
		Shipping: shipping.NewCalculator(shipping.DefaultConfig()),
		Payments: payment.NewSimulatedGateway(),
		Outbox:   outboxRepo,
		Timeline: memory.NewTimelineRepository(),
	}, order.WithLogger(logger))
	suite.Require().NoError(err)

	translator := boundary.NewTranslator(false)
	idem := idempotency.NewExecutor(memory.NewIdempotencyRepository(), idempotency.DefaultTTL, logger)

	suite.grpc = grpcsvc.NewOrderService(engine, idem, translator, logger)
	suite.api = httptest.NewServer(httpapi.NewHandler(httpapi.Config{
		Engine:      engine,
		Carts:       carts,
		Catalog:     suite.products,
		Idempotency: idem,
		Translator:  translator,
		Logger:      logger,
	}).Routes(nil))
	suite.decisions = kafka.NewPrescriptionDecisionHandler(engine, logger)

	suite.published = &capturePublisher{}
	suite.worker = outbox.NewWorker(outboxRepo, suite.published, outbox.WithLogger(logger))
}

func (suite *OrderLifecycleTestSuite) TearDownTest() {
	suite.api.Close()
}

func (suite *OrderLifecycleTestSuite) TestOTCOrderDeliveredAndEventsPublished() {
	suite.putCart("user-1", otcProduct, 2)

	created, err := suite.grpc.CreateOrder(userCtx("user-1"), &pharmacyv1.CreateOrderRequest{
		ShippingAddress: pharmacyv1.FromAddress(address()),
		PaymentMethod:   "wallet",
	})
	suite.Require().NoError(err)
	orderID := created.GetOrder().GetId()

	suite.Equal(pharmacyv1.OrderStatus_ORDER_STATUS_PENDING, created.GetOrder().GetStatus())
	suite.Equal(string(domain.PaymentStatusCompleted), created.GetPayment().GetStatus())
	suite.True(created.GetOrder().GetStockDeducted())
	suite.EqualValues(8, suite.stock(otcProduct))

	for _, next := range []domain.OrderStatus{
		domain.OrderStatusConfirmed,
		domain.OrderStatusProcessing,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
	} {
		code, _ := suite.call(http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status", "pharmacist-1", httpapi.RoleAdmin,
			httpapi.UpdateOrderStatusRequest{Status: string(next)})
		suite.Equal(http.StatusOK, code, next)
	}
	suite.EqualValues(8, suite.stock(otcProduct), "confirmation must not deduct twice")

	_, err = suite.grpc.CancelOrder(userCtx("user-1"), &pharmacyv1.CancelOrderRequest{OrderId: orderID})
	suite.Equal(codes.FailedPrecondition, status.Code(err))

	suite.Positive(suite.worker.ProcessOnce(context.Background()))
	suite.Equal([]string{
		domain.EventOrderCreated,
		domain.EventPaymentRecorded,
		domain.EventStockDeducted,
		domain.EventOrderStatusChanged,
		domain.EventOrderStatusChanged,
		domain.EventOrderStatusChanged,
		domain.EventOrderStatusChanged,
	}, suite.published.types(orderID))
}

func (suite *OrderLifecycleTestSuite) TestPrescriptionApprovedThroughKafka() {
	suite.putCart("user-2", rxProduct, 1)

	code, body := suite.call(http.MethodPost, "/api/v1/orders", "user-2", "", httpapi.CreateOrderRequest{
		ShippingAddress: httpapi.Address(address()),
		PaymentMethod:   "card",
		PaymentDetails:  map[string]string{"card_number": "4242424242424242"},
	})
	suite.Require().Equal(http.StatusCreated, code, string(body))

	var created struct {
		Data httpapi.CreateOrderResponse `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(body, &created))
	orderID := created.Data.Order.ID
	suite.True(created.Data.RequiresPrescription)
	suite.Equal(string(domain.OrderStatusAwaitingPrescription), created.Data.Order.Status)
	suite.EqualValues(4, suite.stock(rxProduct), "rx orders deduct at confirmation")

	code, _ = suite.call(http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status", "pharmacist-1", httpapi.RoleAdmin,
		httpapi.UpdateOrderStatusRequest{Status: string(domain.OrderStatusConfirmed)})
	suite.Equal(http.StatusBadRequest, code, "confirmation requires an approved prescription")

	code, _ = suite.call(http.MethodPost, "/api/v1/orders/"+orderID+"/prescription", "user-2", "",
		httpapi.UploadPrescriptionRequest{DocumentRef: "s3://rx/user-2/scan.pdf"})
	suite.Equal(http.StatusOK, code)

	suite.Require().NoError(suite.decide(orderID, "approved"))
	suite.Require().NoError(suite.decide(orderID, "approved"), "repeated decision is a no-op")

	confirmed, err := suite.grpc.UpdateOrderStatus(adminCtx(), &pharmacyv1.UpdateOrderStatusRequest{
		OrderId: orderID,
		Status:  pharmacyv1.OrderStatus_ORDER_STATUS_CONFIRMED,
	})
	suite.Require().NoError(err)
	suite.True(confirmed.GetOrder().GetStockDeducted())
	suite.EqualValues(3, suite.stock(rxProduct))

	timeline, err := suite.grpc.GetOrderTimeline(userCtx("user-2"), &pharmacyv1.GetOrderTimelineRequest{OrderId: orderID})
	suite.Require().NoError(err)
	var kinds []string
	for _, e := range timeline.GetEvents() {
		kinds = append(kinds, e.GetType())
	}
	suite.Contains(kinds, domain.EventPrescriptionUploaded)
	suite.Contains(kinds, domain.EventPrescriptionReviewed)
	suite.Contains(kinds, domain.EventStockDeducted)
}

func (suite *OrderLifecycleTestSuite) TestPrescriptionRejectedThenCancelled() {
	suite.putCart("user-3", rxProduct, 2)

	created, err := suite.grpc.CreateOrder(userCtx("user-3"), &pharmacyv1.CreateOrderRequest{
		ShippingAddress: pharmacyv1.FromAddress(address()),
		PaymentMethod:   "cod",
	})
	suite.Require().NoError(err)
	orderID := created.GetOrder().GetId()
	suite.Equal(string(domain.PaymentStatusPending), created.GetPayment().GetStatus())

	suite.Require().NoError(suite.decide(orderID, "rejected"))

	pending, err := suite.grpc.ListOrders(userCtx("user-3"), &pharmacyv1.ListOrdersRequest{PrescriptionRequired: true})
	suite.Require().NoError(err)
	suite.Require().Len(pending.GetOrders(), 1)
	suite.Equal(string(domain.PrescriptionStatusRejected), pending.GetOrders()[0].GetPrescriptionStatus())

	code, _ := suite.call(http.MethodPut, "/api/v1/orders/"+orderID+"/cancel", "user-3", "", nil)
	suite.Equal(http.StatusOK, code)
	suite.EqualValues(4, suite.stock(rxProduct))

	err = suite.decide(orderID, "approved")
	suite.ErrorIs(err, kafka.ErrPermanent, "cancelled orders can no longer be reviewed")
}

func (suite *OrderLifecycleTestSuite) TestAdminCancelRestoresStock() {
	suite.putCart("user-4", otcProduct, 3)

	created, err := suite.grpc.CreateOrder(userCtx("user-4"), &pharmacyv1.CreateOrderRequest{
		ShippingAddress: pharmacyv1.FromAddress(address()),
		PaymentMethod:   "wallet",
	})
	suite.Require().NoError(err)
	suite.EqualValues(7, suite.stock(otcProduct))

	_, err = suite.grpc.UpdateOrderStatus(adminCtx(), &pharmacyv1.UpdateOrderStatusRequest{
		OrderId: created.GetOrder().GetId(),
		Status:  pharmacyv1.OrderStatus_ORDER_STATUS_CONFIRMED,
	})
	suite.Require().NoError(err)

	_, err = suite.grpc.UpdateOrderStatus(adminCtx(), &pharmacyv1.UpdateOrderStatusRequest{
		OrderId: created.GetOrder().GetId(),
		Status:  pharmacyv1.OrderStatus_ORDER_STATUS_CANCELLED,
	})
	suite.Require().NoError(err)
	suite.EqualValues(10, suite.stock(otcProduct))
}

func (suite *OrderLifecycleTestSuite) TestDeclinedCardKeepsStockAndCart() {
	suite.putCart("user-5", otcProduct, 1)

	code, _ := suite.call(http.MethodPost, "/api/v1/orders", "user-5", "", httpapi.CreateOrderRequest{
		ShippingAddress: httpapi.Address(address()),
		PaymentMethod:   "card",
		PaymentDetails:  map[string]string{"card_number": "4000000000000002"},
	})
	suite.Equal(http.StatusPaymentRequired, code)
	suite.EqualValues(10, suite.stock(otcProduct))

	code, body := suite.call(http.MethodGet, "/api/v1/cart", "user-5", "", nil)
	suite.Equal(http.StatusOK, code)
	suite.Contains(string(body), otcProduct)
}

func (suite *OrderLifecycleTestSuite) TestUnknownOrderDecisionIsPermanent() {
	err := suite.decide("missing-order", "approved")
	suite.ErrorIs(err, kafka.ErrPermanent)

	err = suite.decisions(context.Background(), &sarama.ConsumerMessage{
		Topic: kafka.TopicPrescriptionDecisions,
		Value: []byte("{"),
	})
	suite.ErrorIs(err, kafka.ErrPermanent)
}

func (suite *OrderLifecycleTestSuite) putCart(userID, productID string, qty int32) {
	code, body := suite.call(http.MethodPut, "/api/v1/cart", userID, "", map[string]any{
		"items": []domain.CartItem{{ProductID: productID, Quantity: qty}},
	})
	suite.Require().Equal(http.StatusOK, code, string(body))
}

func (suite *OrderLifecycleTestSuite) call(method, path, userID, role string, payload any) (int, []byte) {
	var reader *bytes.Reader
	if payload == nil {
		reader = bytes.NewReader(nil)
	} else {
		data, err := json.Marshal(payload)
		suite.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, suite.api.URL+path, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(httpapi.HeaderUserID, userID)
	if role != "" {
		req.Header.Set(httpapi.HeaderUserRole, role)
	}

	resp, err := suite.api.Client().Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	suite.Require().NoError(err)
	return resp.StatusCode, buf.Bytes()
}

func (suite *OrderLifecycleTestSuite) decide(orderID, decision string) error {
	value, err := json.Marshal(kafka.PrescriptionDecision{OrderID: orderID, Decision: decision, Reviewer: "pharmacist-7"})
	suite.Require().NoError(err)
	return suite.decisions(context.Background(), &sarama.ConsumerMessage{
		Topic: kafka.TopicPrescriptionDecisions,
		Key:   []byte(orderID),
		Value: value,
	})
}

func (suite *OrderLifecycleTestSuite) stock(productID string) int32 {
	p, err := suite.products.Get(context.Background(), productID)
	suite.Require().NoError(err)
	return p.StockQuantity
}

func userCtx(userID string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(grpcsvc.MetadataUserID, userID))
}

func adminCtx() context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		grpcsvc.MetadataUserID, "pharmacist-1",
		grpcsvc.MetadataUserRole, grpcsvc.RoleAdmin,
	))
}

func address() domain.Address {
	return domain.Address{
		FullName:   "Jane Doe",
		Line1:      "221B Baker Street",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
	}
}

func TestOrderLifecycleSuite(t *testing.T) {
	suite.Run(t, new(OrderLifecycleTestSuite))
}
