package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/storage/memory"
)

func TestTimelineRepository_ChronologicalOrder(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTimelineRepository()
	now := time.Now().UTC()

	events := []domain.TimelineEvent{
		{OrderID: "o1", Type: domain.EventPaymentRecorded, Occurred: now.Add(time.Second)},
		{OrderID: "o1", Type: domain.EventOrderCreated, Occurred: now},
		{OrderID: "o2", Type: domain.EventOrderCreated, Occurred: now},
	}
	for _, ev := range events {
		if err := repo.Append(ctx, ev); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	list, err := repo.List(ctx, "o1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 events, got %d", len(list))
	}
	if list[0].Type != domain.EventOrderCreated || list[1].Type != domain.EventPaymentRecorded {
		t.Fatalf("unexpected order: %+v", list)
	}
}
