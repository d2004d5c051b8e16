package kafka

import (
	"context"
	"database/sql"
	"time"
)

// Relay statuses. Rows are written pending inside the domain transaction
// that produced them; the relay worker owns the pending -> sent/failed
// transitions.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// OutboxMessage is one row of the outbox table. NotBefore delays redelivery
// of failed publishes; Attempts counts how often the relay has tried.
type OutboxMessage struct {
	ID          string
	RequestID   string
	Aggregate   string
	AggregateID string
	Type        string
	Topic       string
	Payload     []byte
	Status      string
	Attempts    int
	NotBefore   time.Time
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_mock.go -package=mock

// Outbox persists messages alongside domain writes and feeds the relay
// worker. Enqueue takes the caller's transaction so the message and the
// state change it announces commit or roll back together.
type Outbox interface {
	Enqueue(ctx context.Context, tx *sql.Tx, msg OutboxMessage) error
	Due(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, cause string) error
}

type outbox struct {
	db *sql.DB
}

func NewOutbox(db *sql.DB) Outbox {
	return &outbox{db: db}
}

func (o *outbox) Enqueue(ctx context.Context, tx *sql.Tx, msg OutboxMessage) error {
	if msg.Status == "" {
		msg.Status = StatusPending
	}

	const q = `
INSERT INTO outbox_messages
	(id, request_id, aggregate, aggregate_id, message_type, topic, payload, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.ExecContext(ctx, q,
		msg.ID, msg.RequestID, msg.Aggregate, msg.AggregateID,
		msg.Type, msg.Topic, msg.Payload, msg.Status,
	)
	return err
}

// Due returns pending and retryable failed rows whose backoff has elapsed,
// oldest first.
func (o *outbox) Due(ctx context.Context, limit int) ([]OutboxMessage, error) {
	const q = `
SELECT id::text, aggregate, aggregate_id::text, message_type, topic,
	payload, status, attempts, COALESCE(not_before, created_at)
FROM outbox_messages
WHERE status IN ($1, $2)
	AND (not_before IS NULL OR not_before <= NOW())
ORDER BY created_at
LIMIT $3`

	rows, err := o.db.QueryContext(ctx, q, StatusPending, StatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]OutboxMessage, 0, limit)
	for rows.Next() {
		var m OutboxMessage
		if err := rows.Scan(
			&m.ID, &m.Aggregate, &m.AggregateID, &m.Type, &m.Topic,
			&m.Payload, &m.Status, &m.Attempts, &m.NotBefore,
		); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}

	return msgs, rows.Err()
}

func (o *outbox) MarkSent(ctx context.Context, id string) error {
	const q = `
UPDATE outbox_messages
SET status = $2, sent_at = NOW(), last_error = NULL, updated_at = NOW()
WHERE id = $1`

	_, err := o.db.ExecContext(ctx, q, id, StatusSent)
	return err
}

// MarkFailed records the cause and pushes not_before out linearly with the
// attempt count, capped at ten steps of fifteen seconds.
func (o *outbox) MarkFailed(ctx context.Context, id, cause string) error {
	const q = `
UPDATE outbox_messages
SET status = $2,
	attempts = attempts + 1,
	last_error = LEFT($3, 500),
	not_before = NOW() + (LEAST(attempts + 1, 10) * INTERVAL '15 seconds'),
	updated_at = NOW()
WHERE id = $1`

	_, err := o.db.ExecContext(ctx, q, id, StatusFailed, cause)
	return err
}
