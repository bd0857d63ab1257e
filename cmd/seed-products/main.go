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
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/seed"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/storage/postgres"
)

const defaultTimeout = 2 * time.Minute

type options struct {
	dir     string
	files   []string
	dsn     string
	migrate bool
	dryRun  bool
	timeout time.Duration
}

type catalogStore interface {
	domain.ProductCatalog
	Close() error
}

var openCatalog = func(ctx context.Context, dsn string, migrate bool) (catalogStore, error) {
	store, err := postgres.Open(ctx, dsn, postgres.PoolConfig{MaxOpenConns: 4, MaxIdleConns: 2})
	if err != nil {
		return nil, err
	}
	if migrate {
		if _, err := store.MigrateUp(ctx, 0); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
	}
	return postgresCatalog{ProductRepository: postgres.NewProductRepository(store), store: store}, nil
}

type postgresCatalog struct {
	*postgres.ProductRepository
	store *postgres.Store
}

func (c postgresCatalog) Close() error { return c.store.Close() }

func main() {
	_ = godotenv.Load()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseOptions(args []string) (options, error) {
	var (
		opts  options
		files string
	)
	fs := flag.NewFlagSet("seed-products", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.dir, "dir", "data/catalog", "directory with *.json catalog files")
	fs.StringVar(&files, "files", "", "comma-separated catalog files (overrides -dir)")
	fs.StringVar(&opts.dsn, "dsn", "", "PostgreSQL DSN (fallback: OMS_POSTGRES_DSN)")
	fs.BoolVar(&opts.migrate, "migrate", false, "apply pending migrations before seeding")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "validate files without writing to the database")
	fs.DurationVar(&opts.timeout, "timeout", defaultTimeout, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	for _, f := range strings.Split(files, ",") {
		if f = strings.TrimSpace(f); f != "" {
			opts.files = append(opts.files, f)
		}
	}
	if len(opts.files) == 0 && strings.TrimSpace(opts.dir) == "" {
		return options{}, errors.New("-dir or -files is required")
	}

	opts.dsn = strings.TrimSpace(opts.dsn)
	if opts.dsn == "" {
		opts.dsn = strings.TrimSpace(os.Getenv("OMS_POSTGRES_DSN"))
	}
	if opts.dsn == "" && !opts.dryRun {
		return options{}, errors.New("OMS_POSTGRES_DSN (or -dsn) is required")
	}
	if opts.timeout <= 0 {
		opts.timeout = defaultTimeout
	}
	return opts, nil
}

func loadProducts(opts options) ([]domain.Product, error) {
	if len(opts.files) == 0 {
		return seed.LoadDir(opts.dir)
	}
	var products []domain.Product
	for _, path := range opts.files {
		loaded, err := seed.LoadFile(path)
		if err != nil {
			return nil, err
		}
		products = append(products, loaded...)
	}
	return products, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	products, err := loadProducts(opts)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return errors.New("no products found")
	}

	if opts.dryRun {
		invalid := 0
		for _, p := range products {
			if errs := p.Validate(); len(errs) > 0 {
				invalid++
				_, _ = fmt.Fprintf(out, "invalid %s: %v\n", p.ID, errors.Join(errs...))
			}
		}
		_, _ = fmt.Fprintf(out, "dry-run: products=%d invalid=%d\n", len(products), invalid)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	catalog, err := openCatalog(ctx, opts.dsn, opts.migrate)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer catalog.Close()

	res, err := seed.Apply(ctx, catalog, products, log.WithField("component", "seed-products"))
	if err != nil {
		return err
	}
	for _, f := range res.Failed {
		_, _ = fmt.Fprintf(out, "failed %s (%s): %v\n", f.ProductID, f.Name, f.Err)
	}
	_, _ = fmt.Fprintf(out, "seeded: loaded=%d failed=%d\n", res.Loaded, len(res.Failed))
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d products were not seeded", len(res.Failed))
	}
	return nil
}
