package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

const (
	defaultCleanupInterval  = 10 * time.Minute
	defaultCleanupBatchSize = 500
)

type cleanupMetrics struct {
	runs        *prometheus.CounterVec
	deleted     prometheus.Counter
	lastDeleted prometheus.Gauge
}

func newCleanupMetrics(reg prometheus.Registerer) *cleanupMetrics {
	m := &cleanupMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pharmacy_idempotency_cleanup_runs_total",
			Help: "Idempotency cleanup runs by result.",
		}, []string{"result"}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pharmacy_idempotency_cleanup_deleted_total",
			Help: "Expired idempotency keys deleted.",
		}),
		lastDeleted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pharmacy_idempotency_cleanup_last_deleted",
			Help: "Keys deleted by the last cleanup run.",
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.runs, m.deleted, m.lastDeleted} {
			if err := reg.Register(c); err != nil {
				var already prometheus.AlreadyRegisteredError
				if !errors.As(err, &already) {
					panic(err)
				}
			}
		}
	}
	return m
}

// CleanupOptions задаёт параметры воркера очистки ключей.
type CleanupOptions struct {
	Logger     *log.Entry
	Interval   time.Duration
	BatchSize  int
	Registerer prometheus.Registerer
}

// CleanupOption настраивает CleanupWorker.
type CleanupOption func(*CleanupOptions)

func WithLogger(logger *log.Entry) CleanupOption {
	return func(opts *CleanupOptions) { opts.Logger = logger }
}

func WithInterval(interval time.Duration) CleanupOption {
	return func(opts *CleanupOptions) { opts.Interval = interval }
}

func WithBatchSize(batchSize int) CleanupOption {
	return func(opts *CleanupOptions) { opts.BatchSize = batchSize }
}

// WithRegisterer регистрирует метрики воркера. Без него метрики считаются, но не экспортируются.
func WithRegisterer(reg prometheus.Registerer) CleanupOption {
	return func(opts *CleanupOptions) { opts.Registerer = reg }
}

// CleanupWorker периодически удаляет просроченные ключи идемпотентности.
type CleanupWorker struct {
	repo      domain.IdempotencyRepository
	logger    *log.Entry
	interval  time.Duration
	batchSize int
	metrics   *cleanupMetrics
}

// NewCleanupWorker создаёт воркер очистки.
func NewCleanupWorker(repo domain.IdempotencyRepository, options ...CleanupOption) *CleanupWorker {
	opts := CleanupOptions{
		Interval:  defaultCleanupInterval,
		BatchSize: defaultCleanupBatchSize,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "idempotency-cleanup")
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultCleanupInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultCleanupBatchSize
	}

	return &CleanupWorker{
		repo:      repo,
		logger:    logger,
		interval:  opts.Interval,
		batchSize: opts.BatchSize,
		metrics:   newCleanupMetrics(opts.Registerer),
	}
}

// Run чистит ключи сразу и затем по таймеру до отмены ctx.
func (w *CleanupWorker) Run(ctx context.Context) error {
	if w.repo == nil {
		w.logger.Warn("idempotency cleanup disabled: repository is nil")
		return nil
	}

	w.cleanup(ctx, time.Now().UTC())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.cleanup(ctx, time.Now().UTC())
		}
	}
}

func (w *CleanupWorker) cleanup(ctx context.Context, before time.Time) {
	deleted, err := w.DeleteExpired(ctx, before)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		w.metrics.runs.WithLabelValues("error").Inc()
		w.logger.WithError(err).Warn("idempotency cleanup failed")
		return
	}

	w.metrics.runs.WithLabelValues("ok").Inc()
	w.metrics.lastDeleted.Set(float64(deleted))
	if deleted > 0 {
		w.logger.WithField("deleted", deleted).Info("expired idempotency keys removed")
	}
}

// DeleteExpired удаляет ключи с ttl <= before порциями по batchSize.
func (w *CleanupWorker) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	if before.IsZero() {
		before = time.Now().UTC()
	}

	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		deleted, err := w.repo.DeleteExpired(ctx, before, w.batchSize)
		if err != nil {
			return total, err
		}
		total += deleted
		if deleted > 0 {
			w.metrics.deleted.Add(float64(deleted))
		}
		if deleted < w.batchSize {
			return total, nil
		}
	}
}
