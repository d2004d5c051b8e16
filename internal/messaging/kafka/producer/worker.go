package producer

import (
	"context"
	"time"

	"go-empms/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RelayOutbox polls the outbox table and publishes due messages to kafka.
// Failed publishes are marked for retry; the backoff lives in the due-rows
// query, not here.
func RelayOutbox(
	ctx context.Context,
	repo kafka.Outbox,
	writer *kafkago.Writer,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := relayDue(ctx, repo, writer, log); err != nil {
				log.Error("relay outbox messages failed", zap.Error(err))
			}
		}
	}
}

func relayDue(
	ctx context.Context,
	repo kafka.Outbox,
	writer *kafkago.Writer,
	logger *zap.Logger,
) error {
	msgs, err := repo.Due(ctx, 50)
	if err != nil {
		return err
	}

	if len(msgs) == 0 {
		return nil
	}

	logger.Info("processing due outbox messages", zap.Int("count", len(msgs)))

	for _, msg := range msgs {
		if err := publishMessage(ctx, writer, msg); err != nil {
			logger.Error("publish outbox message failed",
				zap.String("outbox_id", msg.ID),
				zap.String("message_type", msg.Type),
				zap.String("topic", msg.Topic),
				zap.Error(err),
			)
			_ = repo.MarkFailed(ctx, msg.ID, err.Error())
			continue
		}

		if err := repo.MarkSent(ctx, msg.ID); err != nil {
			logger.Error("mark outbox sent failed",
				zap.String("outbox_id", msg.ID),
				zap.Error(err),
			)
			continue
		}

		logger.Info("outbox message sent",
			zap.String("outbox_id", msg.ID),
			zap.String("message_type", msg.Type),
			zap.String("topic", msg.Topic),
		)
	}

	return nil
}
