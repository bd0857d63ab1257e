package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/storage/postgres"
)

type fakeMigrator struct {
	upSteps   int
	downSteps int
	upErr     error
	status    postgres.MigrationStatus
	closed    bool
}

func (f *fakeMigrator) MigrateUp(_ context.Context, steps int) (int, error) {
	f.upSteps = steps
	if f.upErr != nil {
		return 0, f.upErr
	}
	return 2, nil
}

func (f *fakeMigrator) MigrateDown(_ context.Context, steps int) (int, error) {
	f.downSteps = steps
	return 1, nil
}

func (f *fakeMigrator) Status(context.Context) (postgres.MigrationStatus, error) {
	return f.status, nil
}

func (f *fakeMigrator) Close() error {
	f.closed = true
	return nil
}

func withFakeMigrator(t *testing.T, fake *fakeMigrator) {
	t.Helper()
	original := openMigrator
	openMigrator = func(context.Context, string) (migrator, error) { return fake, nil }
	t.Cleanup(func() { openMigrator = original })
}

func TestParseOptions(t *testing.T) {
	t.Setenv("OMS_POSTGRES_DSN", "postgres://env")

	opts, err := parseOptions(nil)
	require.NoError(t, err)
	require.Equal(t, "up", opts.direction)
	require.Equal(t, "postgres://env", opts.dsn)

	opts, err = parseOptions([]string{"-direction", " DOWN ", "-steps", "2", "-dsn", "postgres://flag"})
	require.NoError(t, err)
	require.Equal(t, "down", opts.direction)
	require.Equal(t, 2, opts.steps)
	require.Equal(t, "postgres://flag", opts.dsn)
}

func TestParseOptions_Errors(t *testing.T) {
	t.Setenv("OMS_POSTGRES_DSN", "")
	require.NoError(t, os.Unsetenv("OMS_POSTGRES_DSN"))

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing dsn", args: nil, want: "OMS_POSTGRES_DSN"},
		{name: "bad direction", args: []string{"-dsn", "x", "-direction", "sideways"}, want: "unsupported direction"},
		{name: "negative steps", args: []string{"-dsn", "x", "-steps", "-1"}, want: "steps"},
		{name: "unknown flag", args: []string{"-force"}, want: "force"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseOptions(tc.args)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRun_Up(t *testing.T) {
	fake := &fakeMigrator{status: postgres.MigrationStatus{Current: 3, Applied: 3}}
	withFakeMigrator(t, fake)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-dsn", "x"}, &out))

	require.Zero(t, fake.upSteps)
	require.True(t, fake.closed)
	require.Contains(t, out.String(), "migrate up ok: applied=2")
	require.Contains(t, out.String(), "version=3 applied=3 pending=0")
}

func TestRun_DownAndStatus(t *testing.T) {
	fake := &fakeMigrator{status: postgres.MigrationStatus{
		Current: 1,
		Applied: 1,
		Pending: []postgres.Migration{{Version: 2, Name: "orders"}},
	}}
	withFakeMigrator(t, fake)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-dsn", "x", "-direction", "down"}, &out))
	require.Zero(t, fake.downSteps)
	require.Contains(t, out.String(), "migrate down ok: reverted=1")
	require.Contains(t, out.String(), "pending 2_orders")

	out.Reset()
	require.NoError(t, run(context.Background(), []string{"-dsn", "x", "-direction", "status"}, &out))
	require.False(t, strings.Contains(out.String(), "migrate"), out.String())
}

func TestRun_UpFailure(t *testing.T) {
	withFakeMigrator(t, &fakeMigrator{upErr: errors.New("syntax error")})

	err := run(context.Background(), []string{"-dsn", "x"}, &bytes.Buffer{})
	require.ErrorContains(t, err, "migrate up failed")
}

func TestRun_OpenFailure(t *testing.T) {
	original := openMigrator
	openMigrator = func(context.Context, string) (migrator, error) { return nil, errors.New("refused") }
	t.Cleanup(func() { openMigrator = original })

	err := run(context.Background(), []string{"-dsn", "x"}, &bytes.Buffer{})
	require.ErrorContains(t, err, "open postgres store")
}

func TestRun_Postgres(t *testing.T) {
	dsn := strings.TrimSpace(os.Getenv("OMS_POSTGRES_TEST_DSN"))
	if dsn == "" {
		t.Skip("postgres dsn is not available")
	}

	var out bytes.Buffer
	if err := run(context.Background(), []string{"-dsn", dsn, "-direction", "up"}, &out); err != nil {
		t.Skipf("postgres is not available: %v", err)
	}
	require.Contains(t, out.String(), "pending=0")
}
