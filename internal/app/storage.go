package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/pharmacy-oms/internal/health"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/seed"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/storage/memory"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/storage/postgres"
	redisstore "github.com/vladislavdragonenkov/pharmacy-oms/internal/storage/redis"
)

// catalogLedger: каталог товаров, который одновременно ведёт складские остатки.
type catalogLedger interface {
	domain.ProductCatalog
	domain.InventoryLedger
}

type runtimeDependencies struct {
	repo            domain.OrderRepository
	products        catalogLedger
	carts           domain.CartStore
	outboxRepo      domain.OutboxRepository
	timelineRepo    domain.TimelineRepository
	idempotencyRepo domain.IdempotencyRepository

	checkers map[string]healthcheck.Checker
	closers  []func() error
}

func (d *runtimeDependencies) addCloser(fn func() error) {
	d.closers = append(d.closers, fn)
}

// close освобождает ресурсы в обратном порядке создания.
func (d *runtimeDependencies) close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	deps := &runtimeDependencies{checkers: make(map[string]healthcheck.Checker)}

	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	switch driver {
	case "", StorageDriverMemory:
		products := memory.NewProductRepository()
		deps.repo = memory.NewOrderRepository()
		deps.products = products
		deps.outboxRepo = memory.NewOutboxRepository()
		deps.timelineRepo = memory.NewTimelineRepository()
		deps.idempotencyRepo = memory.NewIdempotencyRepository()
		deps.checkers["storage"] = healthcheck.NewSimpleChecker("storage", func(context.Context) error { return nil })
		logger.WithField("storage_driver", StorageDriverMemory).Info("storage initialized")
	case StorageDriverPostgres:
		if err := initPostgres(ctx, cfg, deps, logger); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if err := initCarts(ctx, cfg, deps, logger); err != nil {
		_ = deps.close()
		return nil, err
	}
	deps.checkers["outbox"] = healthcheck.NewOutboxChecker(deps.outboxRepo, cfg.OutboxMaxLag)

	if cfg.CatalogSeedDir != "" {
		if err := seedCatalog(ctx, cfg.CatalogSeedDir, deps.products, logger); err != nil {
			_ = deps.close()
			return nil, err
		}
	}

	return deps, nil
}

func initPostgres(ctx context.Context, cfg Config, deps *runtimeDependencies, logger *log.Entry) error {
	dsn := strings.TrimSpace(cfg.PostgresDSN)
	if dsn == "" {
		return errors.New("postgres dsn is required for postgres storage driver")
	}

	store, err := postgres.Open(ctx, dsn, postgres.DefaultPoolConfig())
	if err != nil {
		return err
	}
	deps.addCloser(store.Close)

	if cfg.PostgresAutoMigrate {
		applied, err := store.MigrateUp(ctx, 0)
		if err != nil {
			_ = deps.close()
			return fmt.Errorf("apply postgres migrations: %w", err)
		}
		logger.WithField("applied", applied).Info("postgres migrations applied")
	}

	deps.repo = postgres.NewOrderRepository(store)
	deps.products = postgres.NewProductRepository(store)
	deps.outboxRepo = postgres.NewOutboxRepository(store)
	deps.timelineRepo = postgres.NewTimelineRepository(store)
	deps.idempotencyRepo = postgres.NewIdempotencyRepository(store)
	deps.checkers["storage"] = healthcheck.NewPingChecker("storage", store)

	logger.WithField("storage_driver", StorageDriverPostgres).Info("storage initialized")
	return nil
}

// initCarts подключает Redis для корзин, если задан адрес; иначе корзины живут в памяти.
func initCarts(ctx context.Context, cfg Config, deps *runtimeDependencies, logger *log.Entry) error {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		deps.carts = memory.NewCartRepository()
		return nil
	}

	client := redisstore.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	carts := redisstore.NewCartStore(client, cfg.CartTTL)
	if err := carts.Ping(ctx); err != nil {
		_ = client.Close()
		return fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
	}
	deps.addCloser(client.Close)
	deps.carts = carts
	deps.checkers["redis"] = healthcheck.NewPingChecker("redis", carts)

	logger.WithField("redis_addr", cfg.RedisAddr).Info("redis cart store initialized")
	return nil
}

func seedCatalog(ctx context.Context, dir string, catalog domain.ProductCatalog, logger *log.Entry) error {
	products, err := seed.LoadDir(dir)
	if err != nil {
		return fmt.Errorf("load catalog seed: %w", err)
	}
	res, err := seed.Apply(ctx, catalog, products, logger.WithField("component", "seed"))
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logger.WithFields(log.Fields{
		"dir":    dir,
		"loaded": res.Loaded,
		"failed": len(res.Failed),
	}).Info("catalog seeded")
	return nil
}
