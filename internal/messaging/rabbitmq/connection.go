// Package rabbitmq публикует события outbox в topic exchange RabbitMQ.
package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

const (
	ExchangeName = "pharmacy.orders"
	ExchangeType = "topic"
)

// Connect подключается к брокеру и объявляет exchange событий заказов.
// Подключение повторяется attempts раз с паузой delay.
func Connect(ctx context.Context, url string, attempts int, delay time.Duration, logger *log.Entry) (*amqp.Connection, *amqp.Channel, error) {
	if logger == nil {
		logger = log.WithField("component", "rabbitmq")
	}
	if attempts < 1 {
		attempts = 1
	}

	var (
		conn *amqp.Connection
		err  error
	)
	for i := 0; i < attempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		logger.WithError(err).WithField("attempt", i+1).Warn("failed to connect to rabbitmq")
		if i+1 < attempts {
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		ExchangeName,
		ExchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return conn, ch, nil
}
