// Package notify publishes ingest notifications to Kafka so downstream
// consumers can react to newly stored records.
package notify

import (
	"context"

	"github.com/Adithya-Monish-Kumar-K/historical-events-service/internal/events"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/kafka"
)

// Kafka adapts the shared producer to the service's Notifier interface.
type Kafka struct {
	producer *kafka.Producer
}

func NewKafka(producer *kafka.Producer) *Kafka {
	return &Kafka{producer: producer}
}

// Notify publishes one notification keyed by the record id.
func (k *Kafka) Notify(ctx context.Context, n events.IngestNotification) error {
	return k.producer.Publish(ctx, kafka.Event{
		Key:   n.EventID,
		Value: n,
	})
}
