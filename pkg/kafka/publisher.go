package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/pkg/circuit_breaker"
)

type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	cb       circuit_breaker.CircuitBreaker
	log      *zap.Logger
}

func NewPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		cb:       circuit_breaker.New(10, 30*time.Second, 0.5, 3),
		log:      log.Named("publisher"),
	}
}

// Publish is best effort: failures and an open breaker are logged and dropped.
func (p *Publisher) Publish(_ context.Context, event LendingEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		p.log.Error("json.Marshal", zap.Error(err))
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.BookID),
		Value: sarama.ByteEncoder(data),
	}
	if err := p.cb.Call(func() error {
		_, _, err := p.producer.SendMessage(msg)
		return err
	}); err != nil {
		p.log.Warn("lending event dropped",
			zap.Error(err),
			zap.String("type", string(event.EventType)),
			zap.String("borrowId", event.BorrowID),
			zap.Stringer("breaker", p.cb.State()))
	}
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, LendingEvent) {}

func (NopPublisher) Close() error { return nil }
