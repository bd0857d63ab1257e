package kafka

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

// Topics для Kafka
const (
	TopicOrderEvents            = "pharmacy.order.events"
	TopicPrescriptionDecisions  = "pharmacy.prescription.decisions"
	TopicDeadLetterQueue        = "pharmacy.dlq"
	DefaultPrescriptionConsumer = "pharmacy-oms-prescriptions"
)

// Kafka headers
const (
	HeaderEventType     = "x-event-type"
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// OutboxEnvelope: сообщение, в котором событие outbox уходит в топик заказов.
type OutboxEnvelope struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
	PublishedAt   time.Time       `json:"published_at"`
}

// PrescriptionDecision: решение фармацевта, пришедшее из внешней системы проверки рецептов.
type PrescriptionDecision struct {
	OrderID   string    `json:"order_id"`
	Decision  string    `json:"decision"`
	Reviewer  string    `json:"reviewer"`
	Note      string    `json:"note,omitempty"`
	DecidedAt time.Time `json:"decided_at"`
}

// Status возвращает решение в виде статуса рецепта.
func (d PrescriptionDecision) Status() domain.PrescriptionStatus {
	return domain.PrescriptionStatus(strings.ToLower(strings.TrimSpace(d.Decision)))
}

// ParsePrescriptionDecision разбирает решение по рецепту из сообщения.
func ParsePrescriptionDecision(message *sarama.ConsumerMessage) (*PrescriptionDecision, error) {
	var decision PrescriptionDecision
	if err := json.Unmarshal(message.Value, &decision); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prescription decision: %w", err)
	}
	if decision.OrderID == "" {
		return nil, fmt.Errorf("prescription decision without order_id")
	}
	return &decision, nil
}

// ParseOutboxEnvelope разбирает событие заказа из топика заказов.
func ParseOutboxEnvelope(message *sarama.ConsumerMessage) (*OutboxEnvelope, error) {
	var envelope OutboxEnvelope
	if err := json.Unmarshal(message.Value, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outbox envelope: %w", err)
	}
	return &envelope, nil
}
