package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/storage/postgres"
)

const defaultTimeout = 30 * time.Second

type migrator interface {
	MigrateUp(ctx context.Context, steps int) (int, error)
	MigrateDown(ctx context.Context, steps int) (int, error)
	Status(ctx context.Context) (postgres.MigrationStatus, error)
	Close() error
}

var openMigrator = func(ctx context.Context, dsn string) (migrator, error) {
	return postgres.Open(ctx, dsn, postgres.PoolConfig{MaxOpenConns: 2, MaxIdleConns: 1})
}

type options struct {
	direction string
	steps     int
	dsn       string
	timeout   time.Duration
}

func main() {
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseOptions(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.direction, "direction", "up", "migration direction: up|down|status")
	fs.IntVar(&opts.steps, "steps", 0, "number of migrations to apply/rollback (0=all for up, 1 for down)")
	fs.StringVar(&opts.dsn, "dsn", "", "PostgreSQL DSN (fallback: OMS_POSTGRES_DSN)")
	fs.DurationVar(&opts.timeout, "timeout", defaultTimeout, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.direction = strings.ToLower(strings.TrimSpace(opts.direction))
	switch opts.direction {
	case "up", "down", "status":
	default:
		return options{}, fmt.Errorf("unsupported direction: %s (use up|down|status)", opts.direction)
	}
	if opts.steps < 0 {
		return options{}, errors.New("steps must be >= 0")
	}

	opts.dsn = strings.TrimSpace(opts.dsn)
	if opts.dsn == "" {
		opts.dsn = strings.TrimSpace(os.Getenv("OMS_POSTGRES_DSN"))
	}
	if opts.dsn == "" {
		return options{}, errors.New("OMS_POSTGRES_DSN (or -dsn) is required")
	}
	if opts.timeout <= 0 {
		opts.timeout = defaultTimeout
	}
	return opts, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	store, err := openMigrator(ctx, opts.dsn)
	if err != nil {
		return fmt.Errorf("open postgres store: %w", err)
	}
	defer store.Close()

	switch opts.direction {
	case "up":
		applied, err := store.MigrateUp(ctx, opts.steps)
		if err != nil {
			return fmt.Errorf("migrate up failed: %w", err)
		}
		_, _ = fmt.Fprintf(out, "migrate up ok: applied=%d\n", applied)
	case "down":
		reverted, err := store.MigrateDown(ctx, opts.steps)
		if err != nil {
			return fmt.Errorf("migrate down failed: %w", err)
		}
		_, _ = fmt.Fprintf(out, "migrate down ok: reverted=%d\n", reverted)
	}

	status, err := store.Status(ctx)
	if err != nil {
		return fmt.Errorf("migration status failed: %w", err)
	}
	printStatus(out, status)
	return nil
}

func printStatus(out io.Writer, status postgres.MigrationStatus) {
	_, _ = fmt.Fprintf(out, "migration status: version=%d applied=%d pending=%d\n",
		status.Current, status.Applied, len(status.Pending))
	for _, m := range status.Pending {
		_, _ = fmt.Fprintf(out, "  pending %d_%s\n", m.Version, m.Name)
	}
}
