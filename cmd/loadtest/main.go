// loadtest гоняет сценарии оформления заказа против запущенного сервиса
// и печатает JSON-отчёт с латентностями по шагам.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pharmacyv1 "github.com/vladislavdragonenkov/pharmacy-oms/proto/pharmacy/v1"
)

type loadMode string

const (
	modeCheckout       loadMode = "checkout"
	modeCheckoutRead   loadMode = "checkout-read"
	modeCheckoutCancel loadMode = "checkout-cancel"
)

type config struct {
	httpAddr      string
	grpcAddr      string
	total         int
	duration      time.Duration
	concurrency   int
	timeout       time.Duration
	mode          loadMode
	productID     string
	quantity      int32
	paymentMethod string
	country       string
	userPrefix    string
	outputPath    string
}

func (c config) address(userID string) *pharmacyv1.Address {
	return &pharmacyv1.Address{
		FullName:   "Load " + userID,
		Line1:      "1 Benchmark Way",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    c.country,
	}
}

func parseConfig(args []string) (config, error) {
	var (
		cfg      config
		mode     string
		quantity int
	)

	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.httpAddr, "http", "http://localhost:8080", "HTTP API base URL")
	fs.StringVar(&cfg.grpcAddr, "grpc", "localhost:50051", "gRPC target address")
	fs.IntVar(&cfg.total, "total", 200, "scenarios to run when -duration is not set")
	fs.DurationVar(&cfg.duration, "duration", 0, "run for a fixed time instead of -total scenarios")
	fs.IntVar(&cfg.concurrency, "concurrency", 20, "concurrent scenarios")
	fs.DurationVar(&cfg.timeout, "timeout", 5*time.Second, "per-call timeout")
	fs.StringVar(&mode, "mode", string(modeCheckout), "checkout | checkout-read | checkout-cancel")
	fs.StringVar(&cfg.productID, "product", "otc-ibuprofen", "OTC product id placed in every cart")
	fs.IntVar(&quantity, "qty", 1, "quantity per cart")
	fs.StringVar(&cfg.paymentMethod, "payment", "wallet", "payment method: card | wallet | cod")
	fs.StringVar(&cfg.country, "country", "US", "shipping country")
	fs.StringVar(&cfg.userPrefix, "user-prefix", "load", "user id prefix")
	fs.StringVar(&cfg.outputPath, "output", "", "write the JSON report to this file")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	cfg.httpAddr = strings.TrimRight(strings.TrimSpace(cfg.httpAddr), "/")
	cfg.mode = loadMode(strings.TrimSpace(mode))
	cfg.quantity = int32(quantity)

	switch cfg.mode {
	case modeCheckout, modeCheckoutRead, modeCheckoutCancel:
	default:
		return config{}, fmt.Errorf("unsupported mode: %s", mode)
	}
	switch {
	case cfg.httpAddr == "" || strings.TrimSpace(cfg.grpcAddr) == "":
		return config{}, errors.New("http and grpc addresses are required")
	case cfg.duration < 0:
		return config{}, errors.New("duration must be >= 0")
	case cfg.duration == 0 && cfg.total <= 0:
		return config{}, errors.New("total must be > 0 when duration is not set")
	case cfg.concurrency <= 0:
		return config{}, errors.New("concurrency must be > 0")
	case cfg.timeout <= 0:
		return config{}, errors.New("timeout must be > 0")
	case quantity <= 0:
		return config{}, errors.New("qty must be > 0")
	case strings.TrimSpace(cfg.productID) == "":
		return config{}, errors.New("product is required")
	case strings.TrimSpace(cfg.userPrefix) == "":
		return config{}, errors.New("user-prefix is required")
	}
	return cfg, nil
}

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(cfg.grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "grpc client: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	r := &runner{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.timeout},
		orders:  pharmacyv1.NewOrderServiceClient(conn),
		metrics: newCollector(),
		runID:   fmt.Sprintf("%d", time.Now().UnixNano()),
	}
	rep := execute(ctx, r)

	if err := writeReport(os.Stdout, cfg.outputPath, rep); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write report: %v\n", err)
		os.Exit(1)
	}
	if rep.FailedScenarios > 0 {
		os.Exit(1)
	}
}

// execute запускает сценарии с ограничением конкурентности. Ошибки отдельных
// сценариев не прерывают прогон и попадают в отчёт.
func execute(ctx context.Context, r *runner) report {
	started := time.Now()
	runCtx := ctx
	if r.cfg.duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.cfg.duration)
		defer cancel()
	}

	var g errgroup.Group
	g.SetLimit(r.cfg.concurrency)
	for n := 0; r.cfg.duration > 0 || n < r.cfg.total; n++ {
		if runCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			_ = r.scenario(ctx, n)
			return nil
		})
	}
	_ = g.Wait()

	return r.metrics.report(r.cfg.mode, started, time.Since(started))
}

func writeReport(stdout io.Writer, path string, rep report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(stdout, string(data)); err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	return os.WriteFile(path, data, 0o644)
}
