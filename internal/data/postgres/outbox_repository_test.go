package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/domain/outbox"
	"github.com/sitebooks-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	message, err := outbox.NewMessage(notification.NewEvent("Location Created", "Yard 7 was added", notification.CategoryLocation))
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(q("INSERT INTO notification_outbox")).
			WithArgs(message.EventID, []byte(message.Payload), shared.OutboxStatusPending, 0, message.CreatedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

		require.NoError(t, repo.Create(ctx, message))
		assert.Equal(t, int64(42), message.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		mock.ExpectQuery(q("INSERT INTO notification_outbox")).
			WithArgs(message.EventID, []byte(message.Payload), shared.OutboxStatusPending, 0, message.CreatedAt).
			WillReturnError(errors.New("insert failed"))

		err := repo.Create(ctx, message)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create outbox message")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_GetPending(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	event := notification.NewEvent("Supervisor Added", "SUP-01 joined", notification.CategorySupervisor)
	message, err := outbox.NewMessage(event)
	require.NoError(t, err)
	lastAttempt := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "event_id", "payload", "status", "attempts", "created_at", "last_attempt_at"}).
		AddRow(int64(1), event.EventID, []byte(message.Payload), shared.OutboxStatusPending, 0, message.CreatedAt, (*time.Time)(nil)).
		AddRow(int64(2), event.EventID, []byte(message.Payload), shared.OutboxStatusPending, 2, message.CreatedAt, &lastAttempt)
	mock.ExpectQuery(q("FROM notification_outbox")).
		WithArgs(shared.OutboxStatusPending, 10).
		WillReturnRows(rows)

	messages, err := repo.GetPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Nil(t, messages[0].LastAttemptAt)
	assert.Equal(t, 2, messages[1].Attempts)

	decoded, err := messages[0].Event()
	require.NoError(t, err)
	assert.Equal(t, event.Title, decoded.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_StatusUpdates(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}

	t.Run("UpdateStatus", func(t *testing.T) {
		mock.ExpectExec(q("SET status = $1")).
			WithArgs(shared.OutboxStatusProcessed, pgxmock.AnyArg(), int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.UpdateStatus(ctx, 7, shared.OutboxStatusProcessed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateStatus missing", func(t *testing.T) {
		mock.ExpectExec(q("SET status = $1")).
			WithArgs(shared.OutboxStatusFailedToPublish, pgxmock.AnyArg(), int64(8)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateStatus(ctx, 8, shared.OutboxStatusFailedToPublish)
		assert.Equal(t, outbox.ErrMessageNotFound{ID: 8}, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("IncrementAttempts", func(t *testing.T) {
		mock.ExpectExec(q("SET attempts = attempts + 1")).
			WithArgs(pgxmock.AnyArg(), int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.IncrementAttempts(ctx, 7))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
