package producer

import (
	"context"

	"go-empms/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

func publishMessage(ctx context.Context, writer *kafkago.Writer, msg kafka.OutboxMessage) error {
	out := kafkago.Message{
		Topic: msg.Topic,
		Key:   []byte(msg.AggregateID),
		Value: msg.Payload,
		Headers: []kafkago.Header{
			{Key: "message_type", Value: []byte(msg.Type)},
			{Key: "aggregate", Value: []byte(msg.Aggregate)},
		},
	}

	return writer.WriteMessages(ctx, out)
}
