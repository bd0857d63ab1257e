package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/messaging/kafka"
)

type stubOffsetClient struct {
	partitions []int32
	offsets    map[int32][2]int64
	err        error
	closed     bool
}

func (s *stubOffsetClient) GetOffset(_ string, partition int32, at int64) (int64, error) {
	bounds := s.offsets[partition]
	if at == sarama.OffsetOldest {
		return bounds[0], nil
	}
	return bounds[1], nil
}

func (s *stubOffsetClient) Partitions(string) ([]int32, error) {
	return s.partitions, s.err
}

func (s *stubOffsetClient) Close() error {
	s.closed = true
	return nil
}

type stubPartitionConsumer struct {
	messages chan *sarama.ConsumerMessage
	errors   chan *sarama.ConsumerError
}

func newStubPartitionConsumer(msgs ...*sarama.ConsumerMessage) *stubPartitionConsumer {
	pc := &stubPartitionConsumer{
		messages: make(chan *sarama.ConsumerMessage, len(msgs)),
		errors:   make(chan *sarama.ConsumerError),
	}
	for _, m := range msgs {
		pc.messages <- m
	}
	return pc
}

func (s *stubPartitionConsumer) Messages() <-chan *sarama.ConsumerMessage { return s.messages }
func (s *stubPartitionConsumer) Errors() <-chan *sarama.ConsumerError     { return s.errors }
func (s *stubPartitionConsumer) Close() error                            { return nil }

type stubConsumerSource struct {
	byPartition map[int32]*stubPartitionConsumer
	starts      map[int32]int64
}

func (s *stubConsumerSource) ConsumePartition(_ string, partition int32, offset int64) (partitionConsumer, error) {
	if s.starts == nil {
		s.starts = make(map[int32]int64)
	}
	s.starts[partition] = offset
	pc, ok := s.byPartition[partition]
	if !ok {
		return nil, errors.New("unknown partition")
	}
	return pc, nil
}

func (s *stubConsumerSource) Close() error { return nil }

type stubReplayProducer struct {
	sent []*sarama.ProducerMessage
	err  error
}

func (s *stubReplayProducer) SendMessage(msg *sarama.ProducerMessage) (int32, int64, error) {
	if s.err != nil {
		return 0, 0, s.err
	}
	s.sent = append(s.sent, msg)
	return 0, int64(len(s.sent)), nil
}

func (s *stubReplayProducer) Close() error { return nil }

func testLogger() *log.Entry {
	return log.WithField("test", "dlq-replay")
}

func baseConfig() config {
	return config{
		brokers:     []string{"localhost:9092"},
		sourceTopic: kafka.TopicDeadLetterQueue,
		orderTopic:  kafka.TopicOrderEvents,
		limit:       10,
		idleTimeout: 200 * time.Millisecond,
	}
}

func outboxDLQMessage(t *testing.T, offset int64, eventType string) *sarama.ConsumerMessage {
	t.Helper()
	inner, err := json.Marshal(map[string]any{
		"outbox_id":      "evt-1",
		"aggregate_type": "order",
		"aggregate_id":   "order-1",
		"event_type":     eventType,
		"payload":        json.RawMessage(`{"order_id":"order-1","status":"paid"}`),
		"publish_error":  "broker unavailable",
	})
	require.NoError(t, err)
	value, err := json.Marshal(kafka.OutboxEnvelope{
		ID:            "evt-1",
		AggregateType: "order",
		AggregateID:   "order-1",
		EventType:     eventType,
		Payload:       inner,
		OccurredAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Topic: kafka.TopicDeadLetterQueue, Offset: offset, Key: []byte("order-1"), Value: value}
}

func consumerDLQMessage(t *testing.T, offset int64) *sarama.ConsumerMessage {
	t.Helper()
	value, err := json.Marshal(map[string]any{
		"original_topic":     kafka.TopicPrescriptionDecisions,
		"original_partition": 0,
		"original_offset":    17,
		"original_key":       "order-7",
		"original_value":     `{"order_id":"order-7","approved":true}`,
		"error_message":      "order not found",
		"retry_count":        3,
	})
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Topic: kafka.TopicDeadLetterQueue, Offset: offset, Value: value}
}

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig([]string{"-brokers", "b1:9092, b2:9092", "-limit", "5", "-execute", "-event-types", "OrderPaid,OrderCancelled"})
	require.NoError(t, err)
	require.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.brokers)
	require.Equal(t, kafka.TopicDeadLetterQueue, cfg.sourceTopic)
	require.Equal(t, kafka.TopicOrderEvents, cfg.orderTopic)
	require.Equal(t, 5, cfg.limit)
	require.True(t, cfg.execute)
	require.Len(t, cfg.eventTypes, 2)
}

func TestParseConfig_BrokersFromEnv(t *testing.T) {
	t.Setenv("OMS_KAFKA_BROKERS", "env-broker:9092")

	cfg, err := parseConfig(nil)
	require.NoError(t, err)
	require.Equal(t, []string{"env-broker:9092"}, cfg.brokers)
	require.False(t, cfg.execute)
}

func TestParseConfig_Errors(t *testing.T) {
	t.Setenv("OMS_KAFKA_BROKERS", "")

	testCases := map[string][]string{
		"no brokers":   {},
		"zero limit":   {"-brokers", "b:9092", "-limit", "0"},
		"empty source": {"-brokers", "b:9092", "-source-topic", " "},
		"zero idle":    {"-brokers", "b:9092", "-idle-timeout", "0s"},
		"unknown flag": {"-brokers", "b:9092", "-nope"},
		"empty target": {"-brokers", "b:9092", "-order-topic", ""},
	}
	for name, args := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := parseConfig(args)
			require.Error(t, err)
		})
	}
}

func TestDecodeDeadLetter_OutboxEvent(t *testing.T) {
	msg := outboxDLQMessage(t, 0, "OrderPaid")

	replay, err := decodeDeadLetter(msg, kafka.TopicOrderEvents)
	require.NoError(t, err)
	require.Equal(t, kafka.TopicOrderEvents, replay.topic)
	require.Equal(t, "order-1", replay.key)
	require.Equal(t, "OrderPaid", replay.eventType)
	require.Equal(t, "broker unavailable", replay.reason)

	var envelope kafka.OutboxEnvelope
	require.NoError(t, json.Unmarshal(replay.value, &envelope))
	require.Equal(t, "evt-1", envelope.ID)
	require.JSONEq(t, `{"order_id":"order-1","status":"paid"}`, string(envelope.Payload))
	require.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), envelope.OccurredAt)
}

func TestDecodeDeadLetter_ConsumerMessage(t *testing.T) {
	replay, err := decodeDeadLetter(consumerDLQMessage(t, 0), kafka.TopicOrderEvents)
	require.NoError(t, err)
	require.Equal(t, kafka.TopicPrescriptionDecisions, replay.topic)
	require.Equal(t, "order-7", replay.key)
	require.JSONEq(t, `{"order_id":"order-7","approved":true}`, string(replay.value))
	require.Equal(t, "order not found", replay.reason)
}

func TestDecodeDeadLetter_TopicFromHeader(t *testing.T) {
	msg := &sarama.ConsumerMessage{
		Value:   []byte(`{"original_value":"{}"}`),
		Headers: []*sarama.RecordHeader{{Key: []byte(kafka.HeaderOriginalTopic), Value: []byte("custom.topic")}},
	}
	replay, err := decodeDeadLetter(msg, kafka.TopicOrderEvents)
	require.NoError(t, err)
	require.Equal(t, "custom.topic", replay.topic)
}

func TestDecodeDeadLetter_Malformed(t *testing.T) {
	for name, value := range map[string]string{
		"empty":          "",
		"not json":       "garbage",
		"no payload":     `{"id":"evt-1","payload":{}}`,
		"no topic known": `{"original_value":"{}"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decodeDeadLetter(&sarama.ConsumerMessage{Value: []byte(value)}, kafka.TopicOrderEvents)
			require.ErrorIs(t, err, errSkipMessage)
		})
	}
}

func TestReplayer_DryRunDoesNotPublish(t *testing.T) {
	client := &stubOffsetClient{partitions: []int32{0}, offsets: map[int32][2]int64{0: {0, 2}}}
	source := &stubConsumerSource{byPartition: map[int32]*stubPartitionConsumer{
		0: newStubPartitionConsumer(outboxDLQMessage(t, 0, "OrderPaid"), consumerDLQMessage(t, 1)),
	}}

	r := &replayer{cfg: baseConfig(), client: client, consumer: source, logger: testLogger()}
	stats, err := r.run(context.Background())
	require.NoError(t, err)
	require.Equal(t, replayStats{scanned: 2, replayed: 2}, stats)
}

func TestReplayer_ExecuteRepublishes(t *testing.T) {
	client := &stubOffsetClient{partitions: []int32{0}, offsets: map[int32][2]int64{0: {0, 3}}}
	source := &stubConsumerSource{byPartition: map[int32]*stubPartitionConsumer{
		0: newStubPartitionConsumer(
			outboxDLQMessage(t, 0, "OrderPaid"),
			&sarama.ConsumerMessage{Offset: 1, Value: []byte("garbage")},
			consumerDLQMessage(t, 2),
		),
	}}
	producer := &stubReplayProducer{}
	cfg := baseConfig()
	cfg.execute = true

	r := &replayer{cfg: cfg, client: client, consumer: source, producer: producer, logger: testLogger()}
	stats, err := r.run(context.Background())
	require.NoError(t, err)
	require.Equal(t, replayStats{scanned: 3, replayed: 2, malformed: 1}, stats)

	require.Len(t, producer.sent, 2)
	require.Equal(t, kafka.TopicOrderEvents, producer.sent[0].Topic)
	require.Equal(t, kafka.TopicPrescriptionDecisions, producer.sent[1].Topic)

	key, err := producer.sent[1].Key.Encode()
	require.NoError(t, err)
	require.Equal(t, "order-7", string(key))

	var replayedFrom string
	for _, h := range producer.sent[0].Headers {
		if string(h.Key) == headerReplayedFrom {
			replayedFrom = string(h.Value)
		}
	}
	require.Equal(t, kafka.TopicDeadLetterQueue+"/0/0", replayedFrom)
}

func TestReplayer_FiltersEventTypes(t *testing.T) {
	client := &stubOffsetClient{partitions: []int32{0}, offsets: map[int32][2]int64{0: {0, 2}}}
	source := &stubConsumerSource{byPartition: map[int32]*stubPartitionConsumer{
		0: newStubPartitionConsumer(outboxDLQMessage(t, 0, "OrderPaid"), outboxDLQMessage(t, 1, "OrderShipped")),
	}}
	producer := &stubReplayProducer{}
	cfg := baseConfig()
	cfg.execute = true
	cfg.eventTypes = map[string]struct{}{"OrderShipped": {}}

	r := &replayer{cfg: cfg, client: client, consumer: source, producer: producer, logger: testLogger()}
	stats, err := r.run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.skipped)
	require.Len(t, producer.sent, 1)
}

func TestReplayer_RespectsLimitAcrossPartitions(t *testing.T) {
	client := &stubOffsetClient{partitions: []int32{0, 1}, offsets: map[int32][2]int64{0: {0, 5}, 1: {0, 5}}}
	source := &stubConsumerSource{byPartition: map[int32]*stubPartitionConsumer{
		0: newStubPartitionConsumer(outboxDLQMessage(t, 0, "OrderPaid"), outboxDLQMessage(t, 1, "OrderPaid")),
		1: newStubPartitionConsumer(outboxDLQMessage(t, 0, "OrderPaid")),
	}}
	cfg := baseConfig()
	cfg.limit = 2

	r := &replayer{cfg: cfg, client: client, consumer: source, logger: testLogger()}
	stats, err := r.run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.scanned)
	require.NotContains(t, source.starts, int32(1))
}

func TestReplayer_FromNewestStartsNearEnd(t *testing.T) {
	client := &stubOffsetClient{partitions: []int32{0}, offsets: map[int32][2]int64{0: {10, 50}}}
	source := &stubConsumerSource{byPartition: map[int32]*stubPartitionConsumer{
		0: newStubPartitionConsumer(),
	}}
	cfg := baseConfig()
	cfg.limit = 5
	cfg.fromNewest = true
	cfg.idleTimeout = 20 * time.Millisecond

	r := &replayer{cfg: cfg, client: client, consumer: source, logger: testLogger()}
	_, err := r.run(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(45), source.starts[0])
}

func TestReplayer_EmptyPartitionIsSkipped(t *testing.T) {
	client := &stubOffsetClient{partitions: []int32{0}, offsets: map[int32][2]int64{0: {7, 7}}}
	source := &stubConsumerSource{}

	r := &replayer{cfg: baseConfig(), client: client, consumer: source, logger: testLogger()}
	stats, err := r.run(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.scanned)
	require.Empty(t, source.starts)
}

func TestReplayer_Errors(t *testing.T) {
	t.Run("execute without producer", func(t *testing.T) {
		cfg := baseConfig()
		cfg.execute = true
		r := &replayer{cfg: cfg, client: &stubOffsetClient{}, consumer: &stubConsumerSource{}, logger: testLogger()}
		_, err := r.run(context.Background())
		require.Error(t, err)
	})

	t.Run("partitions failure", func(t *testing.T) {
		r := &replayer{cfg: baseConfig(), client: &stubOffsetClient{err: errors.New("metadata")}, consumer: &stubConsumerSource{}, logger: testLogger()}
		_, err := r.run(context.Background())
		require.ErrorContains(t, err, "metadata")
	})

	t.Run("producer failure", func(t *testing.T) {
		client := &stubOffsetClient{partitions: []int32{0}, offsets: map[int32][2]int64{0: {0, 1}}}
		source := &stubConsumerSource{byPartition: map[int32]*stubPartitionConsumer{
			0: newStubPartitionConsumer(outboxDLQMessage(t, 0, "OrderPaid")),
		}}
		cfg := baseConfig()
		cfg.execute = true
		r := &replayer{cfg: cfg, client: client, consumer: source, producer: &stubReplayProducer{err: errors.New("not leader")}, logger: testLogger()}
		_, err := r.run(context.Background())
		require.ErrorContains(t, err, "not leader")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		client := &stubOffsetClient{partitions: []int32{0}, offsets: map[int32][2]int64{0: {0, 1}}}
		r := &replayer{cfg: baseConfig(), client: client, consumer: &stubConsumerSource{}, logger: testLogger()}
		_, err := r.run(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRun_ClosesDependencies(t *testing.T) {
	client := &stubOffsetClient{partitions: []int32{}}
	original := newReplayDependencies
	t.Cleanup(func() { newReplayDependencies = original })
	newReplayDependencies = func(config) (offsetClient, partitionConsumerSource, replayProducer, error) {
		return client, &stubConsumerSource{}, nil, nil
	}

	require.NoError(t, run(context.Background(), baseConfig(), testLogger()))
	require.True(t, client.closed)
}

func TestRun_DependencyFailure(t *testing.T) {
	original := newReplayDependencies
	t.Cleanup(func() { newReplayDependencies = original })
	newReplayDependencies = func(config) (offsetClient, partitionConsumerSource, replayProducer, error) {
		return nil, nil, nil, errors.New("dial tcp: connection refused")
	}

	require.ErrorContains(t, run(context.Background(), baseConfig(), testLogger()), "connection refused")
}
