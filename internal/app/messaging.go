package app

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/pharmacy-oms/internal/messaging/rabbitmq"
)

const (
	rabbitConnectAttempts = 5
	rabbitConnectDelay    = 2 * time.Second
)

// outboxPublishers: куда outbox worker отправляет события.
// publisher == nil отключает worker: события копятся в outbox.
type outboxPublishers struct {
	publisher domain.OutboxPublisher
	dlq       domain.OutboxPublisher
	producer  *kafka.Producer
}

// initKafkaProducer инициализирует Kafka producer если brokers не пустой.
// Возвращает nil, nil если brokers пустой.
func initKafkaProducer(brokers string, logger *log.Entry) (*kafka.Producer, error) {
	brokerList := splitList(brokers)
	if len(brokerList) == 0 {
		return nil, nil
	}

	producer, err := kafka.NewProducer(brokerList)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil, err
	}

	logger.WithField("brokers", brokerList).Info("kafka producer initialized")
	return producer, nil
}

// closeKafka закрывает Kafka producer если он не nil.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}

// initOutboxPublishers выбирает транспорт outbox: Kafka, затем RabbitMQ.
// Недоступный брокер не мешает старту: заказы принимаются, события ждут в outbox.
func initOutboxPublishers(ctx context.Context, cfg Config, deps *runtimeDependencies, logger *log.Entry) outboxPublishers {
	if strings.TrimSpace(cfg.KafkaBrokers) != "" {
		producer, err := initKafkaProducer(cfg.KafkaBrokers, logger)
		if err == nil && producer != nil {
			deps.addCloser(func() error {
				closeKafka(producer, logger)
				return nil
			})
			return outboxPublishers{
				publisher: kafka.NewOutboxPublisher(producer, kafka.TopicOrderEvents),
				dlq:       kafka.NewOutboxPublisher(producer, kafka.TopicDeadLetterQueue),
				producer:  producer,
			}
		}
	}

	if url := strings.TrimSpace(cfg.RabbitMQURL); url != "" {
		conn, ch, err := rabbitmq.Connect(ctx, url, rabbitConnectAttempts, rabbitConnectDelay, logger.WithField("component", "rabbitmq"))
		if err != nil {
			logger.WithError(err).Warn("rabbitmq is unavailable, outbox events stay pending")
			return outboxPublishers{}
		}
		deps.addCloser(conn.Close)
		deps.addCloser(ch.Close)
		logger.WithField("exchange", rabbitmq.ExchangeName).Info("rabbitmq outbox publisher initialized")
		return outboxPublishers{publisher: rabbitmq.NewOutboxPublisher(ch, rabbitmq.ExchangeName)}
	}

	logger.Info("no message broker configured, outbox worker disabled")
	return outboxPublishers{}
}

// startPrescriptionConsumer подписывается на решения фармацевтов из Kafka.
// Без producer consumer не запускается: ему некуда отправлять DLQ.
func startPrescriptionConsumer(ctx context.Context, cfg Config, producer *kafka.Producer, reviewer kafka.PrescriptionReviewer, logger *log.Entry) *kafka.Consumer {
	if producer == nil {
		return nil
	}

	consumerLogger := logger.WithField("component", "prescription-consumer")
	consumer, err := kafka.NewConsumer(
		cfg.Brokers(),
		cfg.PrescriptionConsumerGroup,
		[]string{cfg.PrescriptionTopic},
		kafka.NewPrescriptionDecisionHandler(reviewer, consumerLogger),
		kafka.WithDLQProducer(producer),
		kafka.WithConsumerLogger(consumerLogger),
	)
	if err != nil {
		consumerLogger.WithError(err).Warn("failed to create prescription consumer, decisions accepted via API only")
		return nil
	}
	if err := consumer.Start(ctx); err != nil {
		consumerLogger.WithError(err).Warn("failed to start prescription consumer")
		_ = consumer.Stop()
		return nil
	}
	return consumer
}

// stopConsumer останавливает consumer если он не nil.
func stopConsumer(consumer *kafka.Consumer, logger *log.Entry) {
	if consumer == nil {
		return
	}
	if err := consumer.Stop(); err != nil {
		logger.WithError(err).Warn("failed to stop kafka consumer")
	}
}
