package order

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

// AggregateType: тип агрегата в outbox.
const AggregateType = "order"

// emitEvent кладёт событие в outbox и timeline. Ошибки логируются и не прерывают операцию.
func (s *Service) emitEvent(ctx context.Context, order *domain.Order, eventType string, payload map[string]any) {
	if payload == nil {
		payload = make(map[string]any)
	}
	occurred := order.UpdatedAt
	if occurred.IsZero() {
		occurred = s.now()
	}
	payload["order_id"] = order.ID
	payload["version"] = order.Version
	payload["ts"] = occurred.Format(time.RFC3339Nano)

	if s.outbox != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			s.logger.WithError(err).WithFields(log.Fields{
				"order_id": order.ID,
				"event":    eventType,
			}).Error("marshal event failed")
		} else if _, err := s.outbox.Enqueue(ctx, domain.OutboxMessage{
			AggregateType: AggregateType,
			AggregateID:   order.ID,
			EventType:     eventType,
			Payload:       data,
			CreatedAt:     occurred,
		}); err != nil {
			s.logger.WithError(err).WithFields(log.Fields{
				"order_id": order.ID,
				"event":    eventType,
			}).Error("enqueue event failed")
		} else {
			s.metrics.RecordOutboxEvent()
		}
	}

	if s.timeline != nil {
		reason, _ := payload["reason"].(string)
		if err := s.timeline.Append(ctx, domain.TimelineEvent{
			OrderID:  order.ID,
			Type:     eventType,
			Reason:   reason,
			Occurred: occurred,
		}); err != nil {
			s.logger.WithError(err).WithFields(log.Fields{
				"order_id": order.ID,
				"event":    eventType,
			}).Warn("append timeline event failed")
		} else {
			s.metrics.RecordTimelineEvent()
		}
	}
}
