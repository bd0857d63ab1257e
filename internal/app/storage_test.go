package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	healthcheck "github.com/vladislavdragonenkov/pharmacy-oms/internal/health"
)

func TestInitRuntimeDependencies_Memory(t *testing.T) {
	t.Parallel()

	deps, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver: StorageDriverMemory,
	}, log.WithField("test", "memory-storage"))
	require.NoError(t, err)
	defer func() { require.NoError(t, deps.close()) }()

	require.NotNil(t, deps.repo)
	require.NotNil(t, deps.products)
	require.NotNil(t, deps.carts)
	require.NotNil(t, deps.outboxRepo)
	require.NotNil(t, deps.timelineRepo)
	require.NotNil(t, deps.idempotencyRepo)

	require.Contains(t, deps.checkers, "storage")
	require.Contains(t, deps.checkers, "outbox")
	require.NotContains(t, deps.checkers, "redis")
	for name, checker := range deps.checkers {
		require.Equal(t, healthcheck.StatusHealthy, checker.Check(context.Background()).Status, name)
	}
}

func TestInitRuntimeDependencies_SeedsCatalog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "otc-medicines.json"),
		[]byte(`[{"id":"otc-ibuprofen","name":"Ibuprofen","price":"5.50","stock_quantity":7}]`), 0o600))

	deps, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver:  StorageDriverMemory,
		CatalogSeedDir: dir,
	}, log.WithField("test", "seed"))
	require.NoError(t, err)

	product, err := deps.products.Get(context.Background(), "otc-ibuprofen")
	require.NoError(t, err)
	require.EqualValues(t, 7, product.StockQuantity)
	require.Equal(t, "otc medicines", product.Category)
}

func TestInitRuntimeDependencies_BrokenSeedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{`), 0o600))

	_, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver:  StorageDriverMemory,
		CatalogSeedDir: dir,
	}, log.WithField("test", "seed-broken"))
	require.Error(t, err)
}

func TestInitRuntimeDependencies_PostgresRequiresDSN(t *testing.T) {
	t.Parallel()

	_, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver: StorageDriverPostgres,
	}, log.WithField("test", "postgres-missing-dsn"))
	if err == nil {
		t.Fatal("expected error when postgres driver is selected without DSN")
	}
}

func TestInitRuntimeDependencies_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver: "sqlite",
	}, log.WithField("test", "unsupported-driver"))
	if err == nil {
		t.Fatal("expected error for unsupported storage driver")
	}
}

func TestInitRuntimeDependencies_RedisUnavailable(t *testing.T) {
	t.Parallel()

	_, err := initRuntimeDependencies(context.Background(), Config{
		StorageDriver: StorageDriverMemory,
		RedisAddr:     "127.0.0.1:1",
	}, log.WithField("test", "redis-down"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "redis")
}

func TestInitRuntimeDependencies_PostgresSuccess(t *testing.T) {
	dsn := strings.TrimSpace(os.Getenv("OMS_POSTGRES_TEST_DSN"))
	if dsn == "" {
		t.Skip("postgres dsn is not available")
	}

	cfg := DefaultConfig()
	cfg.StorageDriver = StorageDriverPostgres
	cfg.PostgresDSN = dsn
	cfg.PostgresAutoMigrate = true

	deps, err := initRuntimeDependencies(context.Background(), cfg, log.WithField("test", "postgres-init"))
	if err != nil {
		t.Skipf("postgres is not available for app integration test: %v", err)
	}
	defer func() { _ = deps.close() }()

	require.NotNil(t, deps.repo)
	require.NotNil(t, deps.products)
	require.NotNil(t, deps.idempotencyRepo)
	check := deps.checkers["storage"].Check(context.Background())
	require.Equal(t, healthcheck.StatusHealthy, check.Status, check.Message)
}

func TestRuntimeDependencies_CloseOrder(t *testing.T) {
	var order []string
	deps := &runtimeDependencies{}
	deps.addCloser(func() error { order = append(order, "first"); return nil })
	deps.addCloser(func() error { order = append(order, "second"); return errors.New("boom") })

	err := deps.close()
	require.EqualError(t, err, "boom")
	require.Equal(t, []string{"second", "first"}, order)

	require.NoError(t, deps.close())
}
