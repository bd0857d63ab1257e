package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/storage/memory"
)

type memoryCatalog struct {
	*memory.ProductRepository
	closed bool
}

func (m *memoryCatalog) Close() error {
	m.closed = true
	return nil
}

func withMemoryCatalog(t *testing.T) *memoryCatalog {
	t.Helper()
	catalog := &memoryCatalog{ProductRepository: memory.NewProductRepository()}
	original := openCatalog
	openCatalog = func(context.Context, string, bool) (catalogStore, error) { return catalog, nil }
	t.Cleanup(func() { openCatalog = original })
	return catalog
}

func writeCatalog(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRun_SeedsDirectory(t *testing.T) {
	catalog := withMemoryCatalog(t)
	dir := t.TempDir()
	writeCatalog(t, dir, "otc-medicines.json", `[{"id":"otc-1","name":"Aspirin","price":"2.10","stock_quantity":3}]`)
	writeCatalog(t, dir, "prescribed-medicines.json", `[{"id":"rx-1","name":"Amoxicillin","price":"9","stock_quantity":4,"requires_prescription":true}]`)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-dir", dir, "-dsn", "x"}, &out))
	require.Contains(t, out.String(), "seeded: loaded=2 failed=0")
	require.True(t, catalog.closed)

	rx, err := catalog.Get(context.Background(), "rx-1")
	require.NoError(t, err)
	require.True(t, rx.RequiresPrescription)
	require.Equal(t, "prescribed medicines", rx.Category)
}

func TestRun_ReportsInvalidProducts(t *testing.T) {
	withMemoryCatalog(t)
	path := writeCatalog(t, t.TempDir(), "supplies.json", `[{"id":"ok","name":"Bandage","price":"1"},{"id":"bad","name":"","price":"1"}]`)

	var out bytes.Buffer
	err := run(context.Background(), []string{"-files", path, "-dsn", "x"}, &out)
	require.Error(t, err)
	require.Contains(t, out.String(), "failed bad")
	require.Contains(t, out.String(), "loaded=1 failed=1")
}

func TestRun_DryRunDoesNotOpenDatabase(t *testing.T) {
	original := openCatalog
	openCatalog = func(context.Context, string, bool) (catalogStore, error) {
		return nil, errors.New("must not be called")
	}
	t.Cleanup(func() { openCatalog = original })

	t.Setenv("OMS_POSTGRES_DSN", "")
	require.NoError(t, os.Unsetenv("OMS_POSTGRES_DSN"))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-dir", filepath.Join("..", "..", "data", "catalog"), "-dry-run"}, &out))
	require.Contains(t, out.String(), "invalid=0")
}

func TestRun_Errors(t *testing.T) {
	t.Setenv("OMS_POSTGRES_DSN", "")
	require.NoError(t, os.Unsetenv("OMS_POSTGRES_DSN"))

	err := run(context.Background(), []string{"-dir", t.TempDir()}, &bytes.Buffer{})
	require.ErrorContains(t, err, "OMS_POSTGRES_DSN")

	err = run(context.Background(), []string{"-dir", t.TempDir(), "-dry-run"}, &bytes.Buffer{})
	require.ErrorContains(t, err, "no products")

	err = run(context.Background(), []string{"-files", filepath.Join(t.TempDir(), "missing.json"), "-dry-run"}, &bytes.Buffer{})
	require.Error(t, err)
}
