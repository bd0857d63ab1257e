package health

import (
	"context"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

// OutboxStatsSource отдаёт состояние backlog outbox.
type OutboxStatsSource interface {
	Stats(ctx context.Context) (domain.OutboxStats, error)
}

// OutboxChecker помечает сервис degraded, когда самое старое неотправленное событие
// ждёт дольше maxLag. Заказы при этом продолжают приниматься.
type OutboxChecker struct {
	source OutboxStatsSource
	maxLag time.Duration
	now    func() time.Time
}

func NewOutboxChecker(source OutboxStatsSource, maxLag time.Duration) *OutboxChecker {
	if maxLag <= 0 {
		maxLag = 5 * time.Minute
	}
	return &OutboxChecker{source: source, maxLag: maxLag, now: time.Now}
}

func (c *OutboxChecker) Check(ctx context.Context) Check {
	start := time.Now()
	stats, err := c.source.Stats(ctx)
	check := Check{Name: "outbox", Status: StatusHealthy}
	switch {
	case err != nil:
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	case stats.PendingCount > 0 && c.now().Sub(stats.OldestPendingAt) > c.maxLag:
		check.Status = StatusDegraded
		check.Message = fmt.Sprintf("%d pending events, oldest since %s", stats.PendingCount, stats.OldestPendingAt.UTC().Format(time.RFC3339))
	}
	check.DurationMs = time.Since(start).Milliseconds()
	return check
}
