// Package data contains the PostgreSQL repositories backing the messaging
// service's persistence ports.
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lionswap/messaging-api/internal/data/pgxutil"
	"github.com/lionswap/messaging-api/internal/domain/model"
)

// ConversationRepo provides database operations for conversations.
type ConversationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewConversationRepo creates a new ConversationRepo with real time provider.
func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewConversationRepoWithTimeProvider creates a repo with a custom time provider (useful for tests).
func NewConversationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ConversationRepo {
	return &ConversationRepo{DB: db, timeProvider: tp}
}

// Create inserts a new conversation for a normalized user pair.
func (r *ConversationRepo) Create(ctx context.Context, req *model.CreateConversationRequest) (*model.Conversation, error) {
	if req == nil {
		return nil, errors.New("create conversation request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Conversation
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO conversations (id, user_a_id, user_b_id, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id, user_a_id, user_b_id, created_at, last_message_at
		`,
			uuid.NewString(),
			req.UserAID,
			req.UserBID,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Conversation])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrConversationExists
		}
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a conversation by id.
func (r *ConversationRepo) GetByID(ctx context.Context, id string) (*model.Conversation, error) {
	var out model.Conversation
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, user_a_id, user_b_id, created_at, last_message_at
			FROM conversations
			WHERE id = $1
		`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Conversation])
		return err
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return &out, nil
}

// ListByUser retrieves conversations a user participates in, most recently
// active first.
func (r *ConversationRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*model.Conversation, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.Conversation
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, user_a_id, user_b_id, created_at, last_message_at
			FROM conversations
			WHERE user_a_id = $1 OR user_b_id = $1
			ORDER BY COALESCE(last_message_at, created_at) DESC
			LIMIT $2 OFFSET $3
		`, userID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Conversation])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	out := make([]*model.Conversation, len(rowsOut))
	for i := range rowsOut {
		out[i] = &rowsOut[i]
	}
	return out, nil
}

// Delete removes a conversation and, via cascade, its messages.
func (r *ConversationRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var execErr error
		tag, execErr = conn.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
		return execErr
	}); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConversationNotFound
	}
	return nil
}
