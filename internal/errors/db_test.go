package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapDBError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, MapDBError(nil))
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		err := MapDBError(fmt.Errorf("query: %w", context.DeadlineExceeded))
		assert.True(t, IsTimeout(err))
	})

	t.Run("canceled", func(t *testing.T) {
		err := MapDBError(context.Canceled)
		assert.Equal(t, ErrCodeCanceled, GetCode(err))
	})

	t.Run("no rows", func(t *testing.T) {
		err := MapDBError(pgx.ErrNoRows)
		assert.True(t, IsNotFound(err))
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("unique violation extracts field from detail", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:   pgerrcode.UniqueViolation,
			Detail: "Key (user_a_id, user_b_id)=(101, 202) already exists.",
		}
		err := MapDBError(pgErr)
		assert.True(t, IsConflict(err))
		assert.Equal(t, "user_a_id, user_b_id", GetField(err))
	})

	t.Run("foreign key violation names conversation", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           pgerrcode.ForeignKeyViolation,
			ConstraintName: "messages_conversation_id_fkey",
		}
		err := MapDBError(pgErr)
		assert.True(t, IsForeignKey(err))
		assert.Contains(t, err.Error(), "conversation")
	})

	t.Run("check violation is validation", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: pgerrcode.CheckViolation, ColumnName: "body"}
		err := MapDBError(pgErr)
		assert.True(t, IsValidation(err))
		assert.Equal(t, "body", GetField(err))
	})

	t.Run("other pg errors become internal", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: pgerrcode.SerializationFailure}
		err := MapDBError(pgErr)
		assert.True(t, IsInternal(err))
	})

	t.Run("unrecognized errors pass through", func(t *testing.T) {
		plain := errors.New("disk on fire")
		assert.Equal(t, plain, MapDBError(plain))
	})
}
