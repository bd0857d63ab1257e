package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/boundary"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/idempotency"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/order"
)

const defaultRequestTimeout = 15 * time.Second

// OrderEngine: операции движка заказов, которые использует API.
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

// Config: зависимости API. Catalog и Idempotency опциональны.
type Config struct {
	Engine      OrderEngine
	Carts       domain.CartStore
	Catalog     domain.ProductCatalog
	Idempotency *idempotency.Executor
	Translator  boundary.Translator
	Logger      *log.Entry
	Timeout     time.Duration
}

// Handler обслуживает /api/v1.
type Handler struct {
	engine  OrderEngine
	carts   domain.CartStore
	catalog domain.ProductCatalog
	idem    *idempotency.Executor
	errs    boundary.Translator
	logger  *log.Entry
	timeout time.Duration
}

func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New().WithField("component", "http-api")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Handler{
		engine:  cfg.Engine,
		carts:   cfg.Carts,
		catalog: cfg.Catalog,
		idem:    cfg.Idempotency,
		errs:    cfg.Translator,
		logger:  logger,
		timeout: timeout,
	}
}

// Routes собирает роутер API. extra монтируются вне /api/v1 (health, метрики).
func (h *Handler) Routes(extra func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Timeout(h.timeout))

	if extra != nil {
		extra(r)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(requireUser)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.createOrder)
			r.Get("/", h.listOrders)
			r.Get("/prescription-required", h.prescriptionRequiredOrders)
			r.Get("/{id}", h.getOrder)
			r.Get("/{id}/timeline", h.getOrderTimeline)
			r.Put("/{id}/cancel", h.cancelOrder)
			r.Post("/{id}/prescription", h.uploadPrescription)
		})

		r.Route("/admin/orders", func(r chi.Router) {
			r.Use(requireAdmin)
			r.Patch("/{id}/status", h.updateOrderStatus)
			r.Patch("/{id}/prescription", h.reviewPrescription)
		})

		r.Get("/cart", h.getCart)
		r.Put("/cart", h.replaceCart)
	})

	return r
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	c := callerFrom(r.Context())

	resp, err := idempotency.Execute(r.Context(), h.idem, idempotency.OperationCreateOrder, c.UserID,
		r.Header.Get(HeaderIdempotencyKey), &req,
		func(ctx context.Context) (*CreateOrderResponse, error) {
			res, err := h.engine.CreateOrder(ctx, order.CreateOrderInput{
				UserID:          c.UserID,
				ShippingAddress: domain.Address(req.ShippingAddress),
				PaymentMethod:   domain.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
				PaymentDetails:  req.PaymentDetails,
			})
			if err != nil {
				return nil, err
			}
			return &CreateOrderResponse{
				Order:                newOrder(res.Order),
				Payment:              newPayment(res.Payment),
				RequiresPrescription: res.RequiresPrescription,
			}, nil
		})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	message := "Order created successfully"
	if resp.RequiresPrescription {
		message = "Order created. Please upload prescription"
	}
	writeData(w, http.StatusCreated, message, resp)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.engine.ListOrders(r.Context(), callerFrom(r.Context()).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", newOrders(orders))
}

func (h *Handler) prescriptionRequiredOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.engine.GetPrescriptionRequiredOrders(r.Context(), callerFrom(r.Context()).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", newOrders(orders))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	userID := callerFrom(r.Context()).UserID
	orderID := chi.URLParam(r, "id")

	o, err := h.engine.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	events, err := h.engine.GetOrderTimeline(r.Context(), userID, orderID)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", orderID).Warn("failed to list timeline events")
	}
	writeData(w, http.StatusOK, "", OrderDetail{
		Order:    newOrder(o),
		Timeline: newTimeline(events),
	})
}

func (h *Handler) getOrderTimeline(w http.ResponseWriter, r *http.Request) {
	events, err := h.engine.GetOrderTimeline(r.Context(), callerFrom(r.Context()).UserID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", newTimeline(events))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r.Context())
	req := cancelRequest{OrderID: chi.URLParam(r, "id")}

	resp, err := idempotency.Execute(r.Context(), h.idem, idempotency.OperationCancelOrder, c.UserID,
		r.Header.Get(HeaderIdempotencyKey), &req,
		func(ctx context.Context) (*Order, error) {
			o, err := h.engine.CancelOrder(ctx, c.UserID, req.OrderID)
			if err != nil {
				return nil, err
			}
			resp := newOrder(o)
			return &resp, nil
		})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Order cancelled successfully", resp)
}

func (h *Handler) uploadPrescription(w http.ResponseWriter, r *http.Request) {
	var req UploadPrescriptionRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	o, err := h.engine.UploadPrescription(r.Context(), callerFrom(r.Context()).UserID, chi.URLParam(r, "id"), req.DocumentRef)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Prescription uploaded, awaiting review", newOrder(o))
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderStatusRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	status := domain.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	o, err := h.engine.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Order status updated successfully", newOrder(o))
}

func (h *Handler) reviewPrescription(w http.ResponseWriter, r *http.Request) {
	var req ReviewPrescriptionRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	decision := domain.PrescriptionStatus(strings.ToLower(strings.TrimSpace(req.Decision)))
	o, err := h.engine.ReviewPrescription(r.Context(), chi.URLParam(r, "id"), decision, callerFrom(r.Context()).UserID, req.Note)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Prescription reviewed", newOrder(o))
}

// fail переводит ошибку движка в ответ и логирует внутренние ошибки.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	p := h.errs.Translate(err)
	if p.Kind == domain.KindInternal {
		h.logger.WithError(err).WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": middleware.GetReqID(r.Context()),
		}).Error("request failed")
	}
	writeProblem(w, p)
}
