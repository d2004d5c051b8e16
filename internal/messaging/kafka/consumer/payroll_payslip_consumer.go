package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"go-empms/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PayslipGenerator renders and stores the payslip document for a payroll
// record. Implemented by the payroll service.
type PayslipGenerator interface {
	GeneratePayslip(ctx context.Context, payrollID string, requestedBy string) error
}

// ConsumePayrollPayslipRequested reads payslip request events and triggers
// document generation. Messages are committed only after the handler
// succeeds, so a crashed consumer re-delivers.
func ConsumePayrollPayslipRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	generator PayslipGenerator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip")
	log.Info("payslip consumer started", zap.String("topic", events.PayrollPayslipRequestedTopic))

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				log.Info("payslip consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		var event events.PayrollPayslipRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payslip event failed",
				zap.ByteString("payload", msg.Value),
				zap.Error(err),
			)
			// Poison message, skip it.
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := generator.GeneratePayslip(ctx, event.PayrollID, event.RequestedBy); err != nil {
			log.Error("generate payslip failed",
				zap.String("payroll_id", event.PayrollID),
				zap.Error(err),
			)
			// Leave uncommitted for redelivery.
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Error(err))
			continue
		}

		log.Info("payslip generated",
			zap.String("payroll_id", event.PayrollID),
			zap.String("requested_by", event.RequestedBy),
		)
	}
}
