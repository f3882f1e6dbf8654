package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lionswap/messaging-api/internal/data/pgxutil"
	"github.com/lionswap/messaging-api/internal/domain/model"
)

// MessageRepo provides database operations for messages.
type MessageRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMessageRepo creates a new MessageRepo with real time provider.
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewMessageRepoWithTimeProvider creates a repo with a custom time provider (useful for tests).
func NewMessageRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *MessageRepo {
	return &MessageRepo{DB: db, timeProvider: tp}
}

// Create inserts a message and bumps the parent conversation's
// last_message_at in the same transaction.
func (r *MessageRepo) Create(ctx context.Context, req *model.CreateMessageRequest) (*model.Message, error) {
	if req == nil {
		return nil, errors.New("create message request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Message
	if err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			INSERT INTO messages (id, conversation_id, sender_id, message_type, body, attachment_url, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, conversation_id, sender_id, message_type, body, attachment_url, created_at
		`,
			uuid.NewString(),
			req.ConversationID,
			req.SenderID,
			req.Type,
			strings.TrimSpace(req.Body),
			req.AttachmentURL,
			createdAt,
		)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Message])
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE conversations SET last_message_at = $1 WHERE id = $2
		`, createdAt, req.ConversationID)
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("create message: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a message by id.
func (r *MessageRepo) GetByID(ctx context.Context, id string) (*model.Message, error) {
	var out model.Message
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, conversation_id, sender_id, message_type, body, attachment_url, created_at
			FROM messages
			WHERE id = $1
		`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Message])
		return err
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return &out, nil
}

// ListByConversation retrieves messages in a conversation in chronological order.
func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.Message
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, conversation_id, sender_id, message_type, body, attachment_url, created_at
			FROM messages
			WHERE conversation_id = $1
			ORDER BY created_at ASC, id ASC
			LIMIT $2 OFFSET $3
		`, conversationID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Message])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	out := make([]*model.Message, len(rowsOut))
	for i := range rowsOut {
		out[i] = &rowsOut[i]
	}
	return out, nil
}

// Delete removes a message by id.
func (r *MessageRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var execErr error
		tag, execErr = conn.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
		return execErr
	}); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}
