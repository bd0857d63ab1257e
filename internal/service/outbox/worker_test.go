package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/metrics"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/storage/memory"
)

func enqueue(t *testing.T, repo *memory.OutboxRepository, eventType, orderID string) domain.OutboxMessage {
	t.Helper()
	msg, err := repo.Enqueue(context.Background(), domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   orderID,
		EventType:     eventType,
		Payload:       []byte(`{"order_id":"` + orderID + `"}`),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	return msg
}

func TestWorker_ProcessOnce_PublishesInOrder(t *testing.T) {
	t.Parallel()

	repo := memory.NewOutboxRepository()
	first := enqueue(t, repo, domain.EventOrderCreated, "order-1")
	second := enqueue(t, repo, domain.EventPaymentRecorded, "order-1")
	publisher := &stubPublisher{}

	worker := NewWorker(repo, publisher, WithRetryBaseDelay(0), WithMaxAttempts(3))

	if sent := worker.ProcessOnce(context.Background()); sent != 2 {
		t.Fatalf("expected 2 sent events, got %d", sent)
	}
	published := publisher.published()
	if len(published) != 2 || published[0].ID != first.ID || published[1].ID != second.ID {
		t.Fatalf("unexpected publish order: %+v", published)
	}
	if pending := repo.AllPending(); len(pending) != 0 {
		t.Fatalf("expected empty backlog, got %d", len(pending))
	}
}

func TestWorker_ProcessOnce_MarkFailedAndDLQAfterRetries(t *testing.T) {
	t.Parallel()

	repo := memory.NewOutboxRepository()
	enqueue(t, repo, domain.EventOrderCancelled, "order-2")
	next := enqueue(t, repo, domain.EventOrderCreated, "order-3")

	publisher := &stubPublisher{failFor: map[string]bool{"order-2": true}, err: errors.New("broker down")}
	dlq := &stubPublisher{}

	reg := prometheus.NewRegistry()
	m := metrics.NewOrderMetricsWithRegisterer(reg)
	worker := NewWorker(repo, publisher,
		WithDLQPublisher(dlq),
		WithMetrics(m),
		WithRetryBaseDelay(0),
		WithMaxAttempts(3),
	)

	if sent := worker.ProcessOnce(context.Background()); sent != 1 {
		t.Fatalf("expected 1 sent event, got %d", sent)
	}
	if got := publisher.calls(); got != 4 {
		t.Fatalf("expected 3 failed attempts plus 1 success, got %d", got)
	}

	dead := dlq.published()
	if len(dead) != 1 {
		t.Fatalf("expected 1 DLQ publish, got %d", len(dead))
	}
	var envelope map[string]any
	if err := json.Unmarshal(dead[0].Payload, &envelope); err != nil {
		t.Fatalf("decode dlq payload: %v", err)
	}
	if envelope["aggregate_id"] != "order-2" || envelope["publish_error"] == "" {
		t.Fatalf("unexpected dlq envelope: %v", envelope)
	}
	if published := publisher.published(); published[len(published)-1].ID != next.ID {
		t.Fatalf("failed event must not block the next one")
	}
	if pending := repo.AllPending(); len(pending) != 0 {
		t.Fatalf("expected empty backlog, got %d", len(pending))
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got := counterValue(families, "pharmacy_outbox_published_total", "failed"); got != 1 {
		t.Fatalf("expected 1 failed publish in metrics, got %v", got)
	}
}

func TestWorker_ProcessOnce_SuccessAfterRetry(t *testing.T) {
	t.Parallel()

	repo := memory.NewOutboxRepository()
	enqueue(t, repo, domain.EventOrderStatusChanged, "order-3")
	publisher := &stubPublisher{
		sequenceErrors: []error{errors.New("attempt 1"), errors.New("attempt 2"), nil},
	}

	worker := NewWorker(repo, publisher, WithRetryBaseDelay(time.Millisecond), WithMaxAttempts(3))

	if sent := worker.ProcessOnce(context.Background()); sent != 1 {
		t.Fatalf("expected 1 sent event, got %d", sent)
	}
	if got := publisher.calls(); got != 3 {
		t.Fatalf("expected 3 publish attempts, got %d", got)
	}
}

func TestWorker_Run_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	worker := NewWorker(memory.NewOutboxRepository(), &stubPublisher{},
		WithPollInterval(5*time.Millisecond),
		WithRetryBaseDelay(0),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	time.Sleep(15 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}

func TestWorker_Backoff(t *testing.T) {
	t.Parallel()

	w := NewWorker(nil, nil, WithRetryBaseDelay(10*time.Millisecond))
	if got := w.backoff(1); got != 10*time.Millisecond {
		t.Fatalf("attempt 1: got %s", got)
	}
	if got := w.backoff(3); got != 40*time.Millisecond {
		t.Fatalf("attempt 3: got %s", got)
	}
	if got := w.backoff(40); got != 30*time.Second {
		t.Fatalf("expected cap, got %s", got)
	}
}

func counterValue(families []*dto.MetricFamily, name, result string) float64 {
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "result" && label.GetValue() == result {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

type stubPublisher struct {
	mu             sync.Mutex
	err            error
	failFor        map[string]bool
	sequenceErrors []error
	callCount      int
	sent           []domain.OutboxMessage
}

func (s *stubPublisher) Publish(_ context.Context, msg domain.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.callCount++
	if len(s.sequenceErrors) > 0 {
		err := s.sequenceErrors[0]
		s.sequenceErrors = s.sequenceErrors[1:]
		if err == nil {
			s.sent = append(s.sent, msg)
		}
		return err
	}
	if s.err != nil && (s.failFor == nil || s.failFor[msg.AggregateID]) {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *stubPublisher) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callCount
}

func (s *stubPublisher) published() []domain.OutboxMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.OutboxMessage(nil), s.sent...)
}

var _ domain.OutboxPublisher = (*stubPublisher)(nil)
