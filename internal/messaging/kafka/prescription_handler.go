package kafka

import (
	"context"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

// PrescriptionReviewer применяет решение по рецепту к заказу.
type PrescriptionReviewer interface {
	ReviewPrescription(ctx context.Context, orderID string, decision domain.PrescriptionStatus, reviewer, note string) (domain.Order, error)
}

// NewPrescriptionDecisionHandler возвращает обработчик топика TopicPrescriptionDecisions.
// Бизнес-отказы (нет заказа, неверное решение, заказ уже не ждёт рецепт) не повторяются.
func NewPrescriptionDecisionHandler(reviewer PrescriptionReviewer, logger *log.Entry) MessageHandler {
	if logger == nil {
		logger = log.WithField("component", "prescription-decisions")
	}

	return func(ctx context.Context, message *sarama.ConsumerMessage) error {
		decision, err := ParsePrescriptionDecision(message)
		if err != nil {
			return Permanent(err)
		}

		entry := logger.WithFields(log.Fields{
			"order_id": decision.OrderID,
			"decision": decision.Decision,
			"reviewer": decision.Reviewer,
		})

		order, err := reviewer.ReviewPrescription(ctx, decision.OrderID, decision.Status(), decision.Reviewer, decision.Note)
		if err != nil {
			switch domain.KindOf(err) {
			case domain.KindValidation, domain.KindNotFound, domain.KindState:
				entry.WithError(err).Warn("prescription decision rejected")
				return Permanent(err)
			default:
				entry.WithError(err).Error("prescription decision failed")
				return err
			}
		}

		entry.WithField("prescription_status", order.PrescriptionStatus).Info("prescription decision applied")
		return nil
	}
}
