package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOutboxEnqueue_RunsOnCallerTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	o := NewOutbox(db)

	msg := OutboxMessage{
		ID:          uuid.NewString(),
		RequestID:   "req-1",
		Aggregate:   "payroll",
		AggregateID: uuid.NewString(),
		Type:        "payroll.payslip.requested",
		Topic:       "hr.payroll.payslip.requested.v1",
		Payload:     []byte(`{}`),
	}

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	mock.ExpectExec("INSERT INTO outbox_messages").
		WithArgs(msg.ID, msg.RequestID, msg.Aggregate, msg.AggregateID,
			msg.Type, msg.Topic, msg.Payload, StatusPending).
		WillReturnResult(sqlmock.NewResult(1, 1))

	// Status defaults to pending when the caller leaves it empty.
	assert.NoError(t, o.Enqueue(context.Background(), tx, msg))

	mock.ExpectRollback()
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxDue_ReturnsPendingAndRetryableRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	o := NewOutbox(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "aggregate", "aggregate_id", "message_type", "topic",
		"payload", "status", "attempts", "not_before",
	}).
		AddRow("m-1", "payroll", "p-1", "payroll.payslip.requested",
			"hr.payroll.payslip.requested.v1", []byte(`{}`), StatusPending, 0, now).
		AddRow("m-2", "payroll", "p-2", "payroll.payslip.requested",
			"hr.payroll.payslip.requested.v1", []byte(`{}`), StatusFailed, 2, now)

	mock.ExpectQuery("SELECT id::text").
		WithArgs(StatusPending, StatusFailed, 10).
		WillReturnRows(rows)

	msgs, err := o.Due(context.Background(), 10)

	assert.NoError(t, err)
	assert.Len(t, msgs, 2)
	assert.Equal(t, "m-1", msgs[0].ID)
	assert.Equal(t, StatusFailed, msgs[1].Status)
	assert.Equal(t, 2, msgs[1].Attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxMarkFailed_RecordsCause(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	o := NewOutbox(db)

	mock.ExpectExec("UPDATE outbox_messages").
		WithArgs("m-1", StatusFailed, "broker unreachable").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, o.MarkFailed(context.Background(), "m-1", "broker unreachable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
