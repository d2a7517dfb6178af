package postgres

import (
	"context"
	"fmt"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// MessageRepo stores job threads. Rows are never updated or deleted.
type MessageRepo struct {
	db  Querier
	log logrus.FieldLogger
}

// NewMessageRepo creates a new MessageRepo.
func NewMessageRepo(db *pgxpool.Pool, log logrus.FieldLogger) *MessageRepo {
	return &MessageRepo{db: db, log: log}
}

// WithTx creates a new MessageRepo bound to the transaction.
func (r *MessageRepo) WithTx(tx pgx.Tx) *MessageRepo {
	return &MessageRepo{db: tx, log: r.log}
}

var _ storage.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) ListByJob(ctx context.Context, jobID int64) ([]models.Message, error) {
	query, args := selectFrom(messagesTable, messageColumns).
		Where(entsql.EQ("service_id", jobID)).
		OrderBy(entsql.Asc("sent_at"), entsql.Asc("id")).
		Query()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages for job %d: %w", jobID, err)
	}
	msgs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Message])
	if err != nil {
		return nil, fmt.Errorf("failed to scan messages for job %d: %w", jobID, err)
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}

func (r *MessageRepo) MarkRead(ctx context.Context, jobID, userID int64) (int64, error) {
	query := `
		INSERT INTO message_reads (message_id, user_id)
		SELECT id, $2 FROM messages
		WHERE service_id = $1 AND sender_id <> $2
		ON CONFLICT (message_id, user_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query, jobID, userID)
	if err != nil {
		return 0, mapWriteError(err, fmt.Sprintf("mark messages of job %d read", jobID))
	}
	return tag.RowsAffected(), nil
}

// append inserts a message; sent_at comes from the database clock.
func (r *MessageRepo) append(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query := `
		INSERT INTO messages (service_id, sender_id, message_type, content, attachment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + columnList(messageColumns)

	rows, err := r.db.Query(ctx, query, msg.JobID, msg.SenderID, msg.MessageType, msg.Content, msg.Attachment)
	if err != nil {
		return nil, mapWriteError(err, "append message")
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Message])
	if err != nil {
		return nil, mapWriteError(err, "append message")
	}
	return created, nil
}
