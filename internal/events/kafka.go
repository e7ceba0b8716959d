// Package events publishes message events to an external broker.
package events

import (
	"context"
	"encoding/json"

	"github.com/sbilibin2017/messagely/internal/logger"
	"github.com/sbilibin2017/messagely/internal/models"
	"github.com/segmentio/kafka-go"
)

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// KafkaPublisher writes message events to a Kafka topic, keyed by recipient
// so that one user's events stay ordered within a partition.
type KafkaPublisher struct {
	writer KafkaWriter
}

// NewKafkaPublisher creates a publisher over writer.
func NewKafkaPublisher(writer KafkaWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish encodes event as JSON and writes it.
func (p *KafkaPublisher) Publish(ctx context.Context, event models.MessageEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.ToUsername),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}

	err = p.writer.WriteMessages(ctx, msg)
	logger.Log.Infow("kafka publish",
		"type", event.Type,
		"message_id", event.MessageID,
		"error", err,
	)
	return err
}

// Close closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
