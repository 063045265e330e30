package repository

import (
	"context"
	"fmt"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	pkgkafka "StockPulse/pkg/kafka"
)

// KafkaPublisher pushes completed runs to a Kafka topic, keyed by run
// date so downstream consumers see one partition per trading day.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a publisher on the given topic.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// PublishRun publishes the full run result as one message.
func (p *KafkaPublisher) PublishRun(ctx context.Context, result *models.RunResult) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(result.RunDate), result); err != nil {
		return fmt.Errorf("publish run %s: %w", result.RunDate, err)
	}
	return nil
}

// Close closes the underlying producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

var _ domrepo.Publisher = (*KafkaPublisher)(nil)
