// Package stream publishes audit change events to Kafka so downstream
// consumers (inbox badges, reporting) can follow the trail without polling.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"formdesk/internal/audit"
)

// KafkaStream is a best-effort audit.Stream backed by franz-go. Delivery
// failures are logged, never surfaced: the history store is the source of
// truth and the stream is a projection of it.
type KafkaStream struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafka connects to the brokers and ensures the topic exists. Topic
// creation conflicts are fine; another instance won the race.
func NewKafka(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*KafkaStream, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	if _, err := admin.CreateTopic(ctx, 1, 1, nil, topic); err != nil {
		// Existing topic or racing creator; the producer path will fail
		// loudly if the cluster is actually unreachable.
		logger.DebugContext(ctx, "kafka topic creation skipped", "topic", topic, "error", err)
	}

	return &KafkaStream{client: client, topic: topic, logger: logger}, nil
}

// Publish produces one change event asynchronously.
func (s *KafkaStream) Publish(ctx context.Context, event audit.ChangeEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		s.logger.ErrorContext(ctx, "marshal change event", "error", err)
		return
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.MessageID),
		Value: value,
	}
	s.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			s.logger.Warn("publish change event failed",
				"message_id", event.MessageID,
				"change_type", event.ChangeType,
				"error", err,
			)
		}
	})
}

// Close flushes pending records and releases the client.
func (s *KafkaStream) Close(ctx context.Context) error {
	if err := s.client.Flush(ctx); err != nil {
		s.client.Close()
		return fmt.Errorf("flush kafka client: %w", err)
	}
	s.client.Close()
	return nil
}
