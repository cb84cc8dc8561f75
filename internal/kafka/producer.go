// Package kafka publishes notice lifecycle events. Downstream services
// (search indexers, audit, portals) consume the topic; this service only
// produces.
package kafka

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kgo"

	"vn.io.arda/notice/internal/domain"
)

// Producer wraps the franz-go Kafka client.
type Producer struct {
	client *kgo.Client
	topic  string
}

// New creates a Producer publishing to the given topic.
func New(brokers []string, topic string) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, err
	}
	return &Producer{client: client, topic: topic}, nil
}

// EventEnvelope is the common wrapper used by arda services for Kafka messages.
type EventEnvelope struct {
	EventType string          `json:"eventType"`
	EventID   string          `json:"eventId"`
	Payload   json.RawMessage `json:"payload"`
}

// Publish sends one lifecycle event, keyed by notice UID so events for one
// notice stay ordered within a partition. Delivery is asynchronous;
// failures are logged, never surfaced to the request path.
func (p *Producer) Publish(ctx context.Context, eventType string, n *domain.Notice) {
	payload, err := json.Marshal(n)
	if err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("marshal event payload")
		return
	}
	value, _ := json.Marshal(EventEnvelope{
		EventType: eventType,
		EventID:   uuid.NewString(),
		Payload:   payload,
	})

	record := &kgo.Record{
		Key:   []byte(strconv.FormatInt(n.UID, 10)),
		Value: value,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			log.Error().Err(err).
				Str("event", eventType).
				Int64("notice", n.UID).
				Msg("kafka produce failed")
		}
	})
}

// Close flushes buffered records and closes the client.
func (p *Producer) Close() {
	p.client.Close()
}
