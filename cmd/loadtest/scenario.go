package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/httpapi"
	grpcsvc "github.com/vladislavdragonenkov/pharmacy-oms/internal/service/grpc"
	pharmacyv1 "github.com/vladislavdragonenkov/pharmacy-oms/proto/pharmacy/v1"
)

const (
	outcomeOK = "OK"

	stepPutCart     = "http.PutCart"
	stepCreateOrder = "grpc.CreateOrder"
	stepGetOrder    = "grpc.GetOrder"
	stepCancelOrder = "grpc.CancelOrder"
)

// runner выполняет сценарий покупки: корзина через HTTP API, заказ через gRPC.
type runner struct {
	cfg     config
	http    *http.Client
	orders  pharmacyv1.OrderServiceClient
	metrics *collector
	runID   string
}

func (r *runner) scenario(ctx context.Context, n int) error {
	started := time.Now()
	err := r.checkout(ctx, fmt.Sprintf("%s-%s-%d", r.cfg.userPrefix, r.runID, n))
	outcome := outcomeOK
	if err != nil {
		outcome = "FAILED"
	}
	r.metrics.record(scenarioMethod, time.Since(started), outcome)
	return err
}

func (r *runner) checkout(ctx context.Context, userID string) error {
	if err := r.putCart(ctx, userID); err != nil {
		return err
	}

	callCtx := metadata.AppendToOutgoingContext(ctx,
		grpcsvc.MetadataUserID, userID,
		grpcsvc.MetadataIdempotencyKey, uuid.NewString(),
	)

	var created *pharmacyv1.CreateOrderResponse
	err := r.call(callCtx, stepCreateOrder, func(ctx context.Context) (err error) {
		created, err = r.orders.CreateOrder(ctx, &pharmacyv1.CreateOrderRequest{
			ShippingAddress: r.cfg.address(userID),
			PaymentMethod:   r.cfg.paymentMethod,
		})
		return err
	})
	if err != nil {
		return err
	}
	orderID := created.GetOrder().GetId()
	if orderID == "" {
		return errors.New("create order returned empty order id")
	}

	switch r.cfg.mode {
	case modeCheckoutRead:
		return r.call(callCtx, stepGetOrder, func(ctx context.Context) error {
			_, err := r.orders.GetOrder(ctx, &pharmacyv1.GetOrderRequest{OrderId: orderID})
			return err
		})
	case modeCheckoutCancel:
		return r.call(callCtx, stepCancelOrder, func(ctx context.Context) error {
			_, err := r.orders.CancelOrder(ctx, &pharmacyv1.CancelOrderRequest{OrderId: orderID})
			return err
		})
	default:
		return nil
	}
}

func (r *runner) putCart(ctx context.Context, userID string) error {
	body, err := json.Marshal(map[string]any{
		"items": []domain.CartItem{{ProductID: r.cfg.productID, Quantity: r.cfg.quantity}},
	})
	if err != nil {
		return err
	}

	return r.call(ctx, stepPutCart, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.cfg.httpAddr+"/api/v1/cart", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(httpapi.HeaderUserID, userID)

		resp, err := r.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode != http.StatusOK {
			return httpStatusError(resp.StatusCode)
		}
		return nil
	})
}

// call выполняет шаг с таймаутом и записывает исход: gRPC-код или HTTP-статус.
func (r *runner) call(ctx context.Context, step string, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, r.cfg.timeout)
	defer cancel()

	started := time.Now()
	err := fn(callCtx)
	r.metrics.record(step, time.Since(started), outcomeOf(err))
	if err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	return nil
}

type httpStatusError int

func (e httpStatusError) Error() string {
	return fmt.Sprintf("unexpected http status %d", int(e))
}

func outcomeOf(err error) string {
	if err == nil {
		return outcomeOK
	}
	var httpErr httpStatusError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("HTTP_%d", int(httpErr))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "DeadlineExceeded"
	}
	if st, ok := status.FromError(err); ok {
		return st.Code().String()
	}
	return "TRANSPORT"
}
