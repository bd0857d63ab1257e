package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/messaging/kafka"
)

const headerReplayedFrom = "x-replayed-from"

var errSkipMessage = errors.New("message is not replayable")

// consumerDeadLetter пишет Consumer, когда обработка входящего сообщения исчерпала попытки.
type consumerDeadLetter struct {
	OriginalTopic string `json:"original_topic"`
	OriginalKey   string `json:"original_key"`
	OriginalValue string `json:"original_value"`
	ErrorMessage  string `json:"error_message"`
}

// outboxDeadLetter лежит в payload конверта, который outbox-воркер отправил в DLQ.
type outboxDeadLetter struct {
	OutboxID      string          `json:"outbox_id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	PublishError  string          `json:"publish_error"`
}

type replayMessage struct {
	topic     string
	key       string
	value     []byte
	eventType string
	reason    string
}

type replayStats struct {
	scanned   int
	replayed  int
	skipped   int
	malformed int
}

type replayer struct {
	cfg      config
	client   offsetClient
	consumer partitionConsumerSource
	producer replayProducer
	logger   *log.Entry
}

func (r *replayer) run(ctx context.Context) (replayStats, error) {
	var stats replayStats
	if r.cfg.execute && r.producer == nil {
		return stats, errors.New("replay producer is required in execute mode")
	}

	partitions, err := r.client.Partitions(r.cfg.sourceTopic)
	if err != nil {
		return stats, fmt.Errorf("list partitions for %s: %w", r.cfg.sourceTopic, err)
	}

	remaining := r.cfg.limit
	for _, partition := range partitions {
		if remaining <= 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		consumed, err := r.drainPartition(ctx, partition, remaining, &stats)
		if err != nil {
			return stats, err
		}
		remaining -= consumed
	}

	r.logger.WithFields(log.Fields{
		"scanned":   stats.scanned,
		"replayed":  stats.replayed,
		"skipped":   stats.skipped,
		"malformed": stats.malformed,
		"execute":   r.cfg.execute,
	}).Info("dlq replay finished")
	return stats, nil
}

// drainPartition читает не больше budget сообщений и возвращает сколько прочитано.
func (r *replayer) drainPartition(ctx context.Context, partition int32, budget int, stats *replayStats) (int, error) {
	oldest, err := r.client.GetOffset(r.cfg.sourceTopic, partition, sarama.OffsetOldest)
	if err != nil {
		return 0, fmt.Errorf("oldest offset for partition %d: %w", partition, err)
	}
	newest, err := r.client.GetOffset(r.cfg.sourceTopic, partition, sarama.OffsetNewest)
	if err != nil {
		return 0, fmt.Errorf("newest offset for partition %d: %w", partition, err)
	}
	if newest <= oldest {
		return 0, nil
	}

	start := oldest
	if r.cfg.fromNewest {
		start = max(oldest, newest-int64(budget))
	}

	pc, err := r.consumer.ConsumePartition(r.cfg.sourceTopic, partition, start)
	if err != nil {
		return 0, fmt.Errorf("consume partition %d: %w", partition, err)
	}
	defer func() { _ = pc.Close() }()

	consumed := 0
	idle := time.NewTimer(r.cfg.idleTimeout)
	defer idle.Stop()

	for consumed < budget {
		select {
		case <-ctx.Done():
			return consumed, ctx.Err()
		case <-idle.C:
			return consumed, nil
		case consumerErr, ok := <-pc.Errors():
			if !ok {
				return consumed, nil
			}
			if consumerErr != nil {
				r.logger.WithError(consumerErr.Err).WithField("partition", partition).Warn("dlq consumer error")
			}
		case msg, ok := <-pc.Messages():
			if !ok || msg == nil {
				return consumed, nil
			}
			consumed++
			stats.scanned++
			if err := r.handle(ctx, msg, stats); err != nil {
				return consumed, err
			}
			if msg.Offset+1 >= newest {
				return consumed, nil
			}
		}
		if !idle.Stop() {
			select {
			case <-idle.C:
			default:
			}
		}
		idle.Reset(r.cfg.idleTimeout)
	}
	return consumed, nil
}

func (r *replayer) handle(ctx context.Context, msg *sarama.ConsumerMessage, stats *replayStats) error {
	entry := r.logger.WithFields(log.Fields{"partition": msg.Partition, "offset": msg.Offset})

	replay, err := decodeDeadLetter(msg, r.cfg.orderTopic)
	if err != nil {
		stats.malformed++
		entry.WithError(err).Warn("skip malformed dlq message")
		return nil
	}
	if !r.accepts(replay) {
		stats.skipped++
		return nil
	}

	entry = entry.WithFields(log.Fields{"target_topic": replay.topic, "key": replay.key, "event_type": replay.eventType})
	if !r.cfg.execute {
		stats.replayed++
		entry.WithField("reason", replay.reason).Info("dry-run: would replay")
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	out := &sarama.ProducerMessage{
		Topic: replay.topic,
		Key:   sarama.StringEncoder(replay.key),
		Value: sarama.ByteEncoder(replay.value),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerReplayedFrom), Value: []byte(fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset))},
		},
	}
	if replay.eventType != "" {
		out.Headers = append(out.Headers, sarama.RecordHeader{Key: []byte(kafka.HeaderEventType), Value: []byte(replay.eventType)})
	}
	if _, _, err := r.producer.SendMessage(out); err != nil {
		return fmt.Errorf("replay offset %d to %s: %w", msg.Offset, replay.topic, err)
	}
	stats.replayed++
	entry.Info("message replayed")
	return nil
}

func (r *replayer) accepts(m replayMessage) bool {
	if len(r.cfg.eventTypes) == 0 {
		return true
	}
	_, ok := r.cfg.eventTypes[m.eventType]
	return ok
}

// decodeDeadLetter распознаёт оба формата DLQ: входящее сообщение consumer-а
// и outbox-событие, которое не удалось опубликовать.
func decodeDeadLetter(msg *sarama.ConsumerMessage, orderTopic string) (replayMessage, error) {
	if msg == nil || len(msg.Value) == 0 {
		return replayMessage{}, fmt.Errorf("%w: empty value", errSkipMessage)
	}

	var consumed consumerDeadLetter
	if err := json.Unmarshal(msg.Value, &consumed); err == nil && consumed.OriginalValue != "" {
		topic := firstNonEmpty(consumed.OriginalTopic, headerValue(msg, kafka.HeaderOriginalTopic))
		if topic == "" {
			return replayMessage{}, fmt.Errorf("%w: original topic is unknown", errSkipMessage)
		}
		return replayMessage{
			topic:  topic,
			key:    consumed.OriginalKey,
			value:  []byte(consumed.OriginalValue),
			reason: firstNonEmpty(consumed.ErrorMessage, headerValue(msg, kafka.HeaderErrorMessage)),
		}, nil
	}

	var envelope kafka.OutboxEnvelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		return replayMessage{}, fmt.Errorf("%w: %v", errSkipMessage, err)
	}
	var dead outboxDeadLetter
	if err := json.Unmarshal(envelope.Payload, &dead); err != nil || len(dead.Payload) == 0 {
		return replayMessage{}, fmt.Errorf("%w: outbox payload is missing", errSkipMessage)
	}

	restored := kafka.OutboxEnvelope{
		ID:            firstNonEmpty(dead.OutboxID, envelope.ID),
		AggregateType: firstNonEmpty(dead.AggregateType, envelope.AggregateType),
		AggregateID:   firstNonEmpty(dead.AggregateID, envelope.AggregateID),
		EventType:     firstNonEmpty(dead.EventType, envelope.EventType),
		Payload:       dead.Payload,
		OccurredAt:    envelope.OccurredAt,
		PublishedAt:   time.Now().UTC(),
	}
	value, err := json.Marshal(restored)
	if err != nil {
		return replayMessage{}, fmt.Errorf("marshal replay envelope: %w", err)
	}
	return replayMessage{
		topic:     orderTopic,
		key:       firstNonEmpty(restored.AggregateID, restored.ID, string(msg.Key)),
		value:     value,
		eventType: restored.EventType,
		reason:    dead.PublishError,
	}, nil
}

func headerValue(msg *sarama.ConsumerMessage, key string) string {
	for _, h := range msg.Headers {
		if h != nil && string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
