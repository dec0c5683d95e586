package handler

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/pkg/kafka"
)

type saveEvent func(ctx context.Context, event kafka.LendingEvent) error

// Consumer stores lending events that feed the stats endpoint.
type Consumer struct {
	saveEventHandler saveEvent
	log              *zap.Logger
}

func NewConsumer(save saveEvent, log *zap.Logger) *Consumer {
	return &Consumer{
		saveEventHandler: save,
		log:              log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event kafka.LendingEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				consumer.log.Error("json.Unmarshal", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.saveEventHandler(session.Context(), event); err != nil {
				// ending the session before any later offset is marked makes the group
				// resume from this message on the next Consume
				consumer.log.Error("consumer.saveEventHandler", zap.Error(err))
				return errors.Wrap(err, "save event")
			}

			consumer.log.Debug("Message claimed:",
				zap.String("value", string(message.Value)),
				zap.Time("timestamp", message.Timestamp),
				zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
