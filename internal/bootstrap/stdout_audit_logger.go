package bootstrap

import (
	"context"
	"time"

	"go-empms/internal/shared/contextutil"

	"go.uber.org/zap"
)

// StdoutAuditLogger writes audit records to the process log. A durable
// audit sink can replace it behind the same method set.
type StdoutAuditLogger struct{}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

func (l *StdoutAuditLogger) Record(ctx context.Context, action, actorID, subject string, fields map[string]any) {
	md := contextutil.ExtractMetadata(ctx)
	zap.L().Named("audit").Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("request_id", md.RequestID),
		zap.String("action", action),
		zap.String("actor_id", actorID),
		zap.String("subject", subject),
		zap.Any("fields", fields),
	)
}
