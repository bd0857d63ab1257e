// Package app собирает сервис заказов аптеки из конфигурации и запускает его.
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/boundary"
	healthcheck "github.com/vladislavdragonenkov/pharmacy-oms/internal/health"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/httpapi"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/metrics"
	grpcsvc "github.com/vladislavdragonenkov/pharmacy-oms/internal/service/grpc"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/idempotency"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/order"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/outbox"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/payment"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/service/shipping"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/version"
	pharmacyv1 "github.com/vladislavdragonenkov/pharmacy-oms/proto/pharmacy/v1"
)

const shutdownTimeout = 5 * time.Second

// Run поднимает HTTP API, gRPC, сервер метрик и фоновые воркеры и блокируется до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithFields(version.Fields()).WithField("component", "app")
	if err := cfg.Validate(); err != nil {
		return err
	}

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := deps.close(); closeErr != nil {
			logger.WithError(closeErr).Warn("failed to release resources")
		}
	}()

	orderMetrics := metrics.NewOrderMetrics()
	paymentLogger := logger.WithField("component", "payment")
	gateway := payment.NewResilientGateway(
		payment.NewSimulatedGateway(),
		cfg.PaymentTimeout,
		payment.NewCircuitBreaker(cfg.PaymentBreakerFailures, cfg.PaymentBreakerReset, paymentLogger),
		paymentLogger,
	)
	shippingCfg := shipping.DefaultConfig()
	shippingCfg.Countries = cfg.Countries()

	engine, err := order.New(order.Deps{
		Orders:   deps.repo,
		Catalog:  deps.products,
		Ledger:   deps.products,
		Carts:    deps.carts,
		Shipping: shipping.NewCalculator(shippingCfg),
		Payments: gateway,
		Outbox:   deps.outboxRepo,
		Timeline: deps.timelineRepo,
	},
		order.WithLogger(logger.WithField("component", "order-engine")),
		order.WithMetrics(orderMetrics),
	)
	if err != nil {
		return err
	}

	translator := boundary.NewTranslator(cfg.Development())
	idem := idempotency.NewExecutor(deps.idempotencyRepo, cfg.IdempotencyTTL, logger.WithField("component", "idempotency"))

	publishers := initOutboxPublishers(ctx, cfg, deps, logger)
	outboxWorker := outbox.NewWorker(deps.outboxRepo, publishers.publisher,
		outbox.WithLogger(logger.WithField("component", "outbox-worker")),
		outbox.WithMetrics(orderMetrics),
		outbox.WithDLQPublisher(publishers.dlq),
		outbox.WithPollInterval(cfg.OutboxPollInterval),
		outbox.WithBatchSize(cfg.OutboxBatchSize),
		outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
		outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
	)
	cleanupWorker := idempotency.NewCleanupWorker(deps.idempotencyRepo,
		idempotency.WithLogger(logger.WithField("component", "idempotency-cleanup")),
		idempotency.WithInterval(cfg.IdempotencyCleanupInterval),
		idempotency.WithBatchSize(cfg.IdempotencyCleanupBatchSize),
		idempotency.WithRegisterer(prometheus.DefaultRegisterer),
	)

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	for name, checker := range deps.checkers {
		healthHandler.RegisterChecker(name, checker)
	}

	orderService := grpcsvc.NewOrderService(engine, idem, translator, logger.WithField("layer", "grpc"))
	grpcServer, healthServer := newGRPCServer(orderService)

	api := httpapi.NewHandler(httpapi.Config{
		Engine:      engine,
		Carts:       deps.carts,
		Catalog:     deps.products,
		Idempotency: idem,
		Translator:  translator,
		Logger:      logger.WithField("layer", "http"),
		Timeout:     cfg.RequestTimeout,
	})
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Routes(func(r chi.Router) { mountHealth(r, healthHandler) }),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}
	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		_ = grpcLis.Close()
		return err
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	metricsSrv := startMetricsServer(runCtx, cfg.MetricsAddr, logger, healthHandler)
	consumer := startPrescriptionConsumer(runCtx, cfg, publishers.producer, engine, logger)

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		logger.Infof("gRPC сервер слушает %s", grpcLis.Addr())
		return grpcServer.Serve(grpcLis)
	})
	g.Go(func() error {
		logger.Infof("HTTP API слушает %s", httpLis.Addr())
		if err := httpSrv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return outboxWorker.Run(gctx) })
	g.Go(func() error { return cleanupWorker.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("получен сигнал остановки, останавливаем серверы")
		healthServer.Shutdown()
		stopGRPC(grpcServer, logger)
		shutdownHTTP(httpSrv, logger)
		stopConsumer(consumer, logger)
		return nil
	})

	err = g.Wait()
	shutdownHTTP(metricsSrv, logger)
	if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return ctx.Err()
}

// newGRPCServer регистрирует сервис заказов, gRPC health и метрики.
func newGRPCServer(svc pharmacyv1.OrderServiceServer) (*grpc.Server, *health.Server) {
	// DefaultServerMetrics уже зарегистрированы в prometheus.DefaultRegisterer при загрузке пакета.
	grpcMetrics := promgrpc.DefaultServerMetrics

	server := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcMetrics.UnaryServerInterceptor()))
	pharmacyv1.RegisterOrderServiceServer(server, svc)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(pharmacyv1.ServiceName, healthpb.HealthCheckResponse_SERVING)

	// Reflection: grpcurl и подобные клиенты получают схему без .proto файлов.
	reflection.Register(server)

	grpcMetrics.InitializeMetrics(server)
	return server, healthServer
}

// stopGRPC ждёт завершения активных вызовов, но не дольше shutdownTimeout.
func stopGRPC(server *grpc.Server, logger *log.Entry) {
	stopped := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(shutdownTimeout):
		logger.Warn("graceful stop превысил таймаут, принудительно останавливаем")
		server.Stop()
	}
}

func mountHealth(r chi.Router, healthHandler *healthcheck.Handler) {
	r.Method(http.MethodGet, "/healthz", healthHandler)
	r.Get("/livez", healthcheck.LivenessHandler)
	r.Get("/readyz", healthHandler.ReadinessHandler)
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus и health-пробы.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
