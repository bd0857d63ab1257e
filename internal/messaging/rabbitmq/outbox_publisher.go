package rabbitmq

import (
	"context"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

// Channel: часть *amqp.Channel, нужная паблишеру.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// OutboxPublisher реализует domain.OutboxPublisher поверх RabbitMQ.
type OutboxPublisher struct {
	ch       Channel
	exchange string
}

// NewOutboxPublisher создаёт паблишер; пустой exchange означает ExchangeName.
func NewOutboxPublisher(ch Channel, exchange string) *OutboxPublisher {
	if exchange == "" {
		exchange = ExchangeName
	}
	return &OutboxPublisher{ch: ch, exchange: exchange}
}

// RoutingKey: <aggregate_type>.<event_type>, например order.orderstatuschanged.
func RoutingKey(event domain.OutboxMessage) string {
	aggregate := event.AggregateType
	if aggregate == "" {
		aggregate = "order"
	}
	return strings.ToLower(aggregate + "." + event.EventType)
}

func (p *OutboxPublisher) Publish(ctx context.Context, event domain.OutboxMessage) error {
	if p == nil || p.ch == nil {
		return fmt.Errorf("rabbitmq outbox publisher is not initialized")
	}

	timestamp := event.CreatedAt
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	if err := p.ch.PublishWithContext(ctx,
		p.exchange,
		RoutingKey(event),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     event.ID,
			CorrelationId: event.AggregateID,
			Type:          event.EventType,
			Timestamp:     timestamp,
			Body:          event.Payload,
		},
	); err != nil {
		return fmt.Errorf("publish outbox message %s: %w", event.ID, err)
	}
	return nil
}

var _ domain.OutboxPublisher = (*OutboxPublisher)(nil)
