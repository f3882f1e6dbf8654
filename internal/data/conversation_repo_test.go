package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lionswap/messaging-api/internal/testutil"
)

func TestConversationRepoCreate(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewConversationRepoWithTimeProvider(db, NewFixedTimeProvider(testutil.TestTime()))

		t.Run("creates conversation", func(t *testing.T) {
			conv, err := repo.Create(ctx, testutil.NewConversationRequest().WithUsers(1, 2).Build())
			require.NoError(t, err)
			assert.NotEmpty(t, conv.ID)
			assert.Equal(t, int64(1), conv.UserAID)
			assert.Equal(t, int64(2), conv.UserBID)
			assert.Equal(t, testutil.TestTime(), conv.CreatedAt.UTC())
			assert.Nil(t, conv.LastMessageAt)
		})

		t.Run("normalizes the pair before insert", func(t *testing.T) {
			conv, err := repo.Create(ctx, testutil.NewConversationRequest().WithUsers(20, 10).Build())
			require.NoError(t, err)
			assert.Equal(t, int64(10), conv.UserAID)
			assert.Equal(t, int64(20), conv.UserBID)
		})

		t.Run("duplicate pair", func(t *testing.T) {
			_, err := repo.Create(ctx, testutil.NewConversationRequest().WithUsers(30, 40).Build())
			require.NoError(t, err)

			_, err = repo.Create(ctx, testutil.NewConversationRequest().WithUsers(30, 40).Build())
			assert.ErrorIs(t, err, ErrConversationExists)

			// The reversed pair is the same conversation.
			_, err = repo.Create(ctx, testutil.NewConversationRequest().WithUsers(40, 30).Build())
			assert.ErrorIs(t, err, ErrConversationExists)
		})

		t.Run("rejects invalid request", func(t *testing.T) {
			_, err := repo.Create(ctx, testutil.NewConversationRequest().WithUsers(5, 5).Build())
			assert.Error(t, err)

			_, err = repo.Create(ctx, nil)
			assert.Error(t, err)
		})
	})
}

func TestConversationRepoGetByID(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewConversationRepo(db)

		created, err := repo.Create(ctx, testutil.NewConversationRequest().Build())
		require.NoError(t, err)

		t.Run("found", func(t *testing.T) {
			conv, err := repo.GetByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, created.ID, conv.ID)
		})

		t.Run("not found", func(t *testing.T) {
			_, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
			assert.ErrorIs(t, err, ErrConversationNotFound)
		})
	})
}

func TestConversationRepoListByUser(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		tp := NewFixedTimeProvider(testutil.TestTime())
		repo := NewConversationRepoWithTimeProvider(db, tp)
		messages := NewMessageRepoWithTimeProvider(db, tp)

		first, err := repo.Create(ctx, testutil.NewConversationRequest().WithUsers(1, 2).Build())
		require.NoError(t, err)
		tp.AddTime(time.Minute)
		second, err := repo.Create(ctx, testutil.NewConversationRequest().WithUsers(1, 3).Build())
		require.NoError(t, err)
		tp.AddTime(time.Minute)
		_, err = repo.Create(ctx, testutil.NewConversationRequest().WithUsers(4, 5).Build())
		require.NoError(t, err)

		t.Run("only the user's conversations, most recent first", func(t *testing.T) {
			convs, err := repo.ListByUser(ctx, 1, 50, 0)
			require.NoError(t, err)
			require.Len(t, convs, 2)
			assert.Equal(t, second.ID, convs[0].ID)
			assert.Equal(t, first.ID, convs[1].ID)
		})

		t.Run("activity reorders", func(t *testing.T) {
			tp.AddTime(time.Minute)
			_, err := messages.Create(ctx, testutil.NewMessageRequest(first.ID).WithSender(1).Build())
			require.NoError(t, err)

			convs, err := repo.ListByUser(ctx, 1, 50, 0)
			require.NoError(t, err)
			require.Len(t, convs, 2)
			assert.Equal(t, first.ID, convs[0].ID)
		})

		t.Run("pagination", func(t *testing.T) {
			convs, err := repo.ListByUser(ctx, 1, 1, 1)
			require.NoError(t, err)
			assert.Len(t, convs, 1)
		})

		t.Run("no conversations", func(t *testing.T) {
			convs, err := repo.ListByUser(ctx, 999, 50, 0)
			require.NoError(t, err)
			assert.Empty(t, convs)
		})
	})
}

func TestConversationRepoDelete(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewConversationRepo(db)
		messages := NewMessageRepo(db)

		conv, err := repo.Create(ctx, testutil.NewConversationRequest().Build())
		require.NoError(t, err)
		msg, err := messages.Create(ctx, testutil.NewMessageRequest(conv.ID).Build())
		require.NoError(t, err)

		t.Run("cascades to messages", func(t *testing.T) {
			require.NoError(t, repo.Delete(ctx, conv.ID))

			_, err := repo.GetByID(ctx, conv.ID)
			assert.ErrorIs(t, err, ErrConversationNotFound)
			_, err = messages.GetByID(ctx, msg.ID)
			assert.ErrorIs(t, err, ErrMessageNotFound)
		})

		t.Run("not found", func(t *testing.T) {
			assert.ErrorIs(t, repo.Delete(ctx, conv.ID), ErrConversationNotFound)
		})
	})
}
