package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lionswap/messaging-api/internal/data"
	"github.com/lionswap/messaging-api/internal/domain/model"
	"github.com/lionswap/messaging-api/internal/mocks"
)

func summarizerFixtures(t *testing.T) (*mocks.MockConversationRepository, *mocks.MockMessageRepository, *mocks.MockSummaryCache) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return mocks.NewMockConversationRepository(ctrl),
		mocks.NewMockMessageRepository(ctrl),
		mocks.NewMockSummaryCache(ctrl)
}

func testMessage(id string, msgType model.MessageType, body string, at time.Time) *model.Message {
	return &model.Message{
		ID:             id,
		ConversationID: "conv-1",
		SenderID:       101,
		Type:           msgType,
		Body:           body,
		CreatedAt:      at,
	}
}

func TestSummarizerSummarize(t *testing.T) {
	ctx := context.Background()
	conv := &model.Conversation{ID: "conv-1", UserAID: 101, UserBID: 202}
	job := model.SummaryJob{ID: "job-1", ConversationID: "conv-1"}
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("aggregates counts, bounds, and preview", func(t *testing.T) {
		conversations, messages, _ := summarizerFixtures(t)
		conversations.EXPECT().GetByID(gomock.Any(), "conv-1").Return(conv, nil)
		messages.EXPECT().ListByConversation(gomock.Any(), "conv-1", 500, 0).
			Return([]*model.Message{
				testMessage("m1", model.MessageTypeText, "first words", base),
				testMessage("m2", model.MessageTypeImage, "https://img.example/1.png", base.Add(time.Minute)),
				testMessage("m3", model.MessageTypeText, "closing words", base.Add(2*time.Minute)),
				testMessage("m4", model.MessageTypeSystem, "user joined", base.Add(3*time.Minute)),
			}, nil)

		s := MustNewSummarizer(SummarizerOptions{Conversations: conversations, Messages: messages})

		result, err := s.Summarize(ctx, job)
		require.NoError(t, err)
		assert.Equal(t, "conv-1", result.ConversationID)
		assert.Equal(t, []int64{101, 202}, result.Participants)
		assert.Equal(t, 4, result.MessageCount)
		assert.Equal(t, map[string]int{"TEXT": 2, "IMAGE": 1, "SYSTEM": 1}, result.CountsByType)
		require.NotNil(t, result.FirstMessageAt)
		require.NotNil(t, result.LastMessageAt)
		assert.Equal(t, base, *result.FirstMessageAt)
		assert.Equal(t, base.Add(3*time.Minute), *result.LastMessageAt)
		// Preview tracks the last TEXT message even when later non-text
		// messages exist.
		assert.Equal(t, "closing words", result.LastTextPreview)
		assert.False(t, result.GeneratedAt.IsZero())
	})

	t.Run("empty conversation", func(t *testing.T) {
		conversations, messages, _ := summarizerFixtures(t)
		conversations.EXPECT().GetByID(gomock.Any(), "conv-1").Return(conv, nil)
		messages.EXPECT().ListByConversation(gomock.Any(), "conv-1", 500, 0).
			Return(nil, nil)

		s := MustNewSummarizer(SummarizerOptions{Conversations: conversations, Messages: messages})

		result, err := s.Summarize(ctx, job)
		require.NoError(t, err)
		assert.Equal(t, 0, result.MessageCount)
		assert.Empty(t, result.CountsByType)
		assert.Nil(t, result.FirstMessageAt)
		assert.Nil(t, result.LastMessageAt)
		assert.Empty(t, result.LastTextPreview)
	})

	t.Run("pages until a short page", func(t *testing.T) {
		conversations, messages, _ := summarizerFixtures(t)
		conversations.EXPECT().GetByID(gomock.Any(), "conv-1").Return(conv, nil)
		messages.EXPECT().ListByConversation(gomock.Any(), "conv-1", 2, 0).
			Return([]*model.Message{
				testMessage("m1", model.MessageTypeText, "one", base),
				testMessage("m2", model.MessageTypeText, "two", base.Add(time.Minute)),
			}, nil)
		messages.EXPECT().ListByConversation(gomock.Any(), "conv-1", 2, 2).
			Return([]*model.Message{
				testMessage("m3", model.MessageTypeText, "three", base.Add(2*time.Minute)),
			}, nil)

		s := MustNewSummarizer(SummarizerOptions{
			Conversations: conversations,
			Messages:      messages,
			PageSize:      2,
		})

		result, err := s.Summarize(ctx, job)
		require.NoError(t, err)
		assert.Equal(t, 3, result.MessageCount)
		assert.Equal(t, "three", result.LastTextPreview)
	})

	t.Run("truncates long previews", func(t *testing.T) {
		conversations, messages, _ := summarizerFixtures(t)
		conversations.EXPECT().GetByID(gomock.Any(), "conv-1").Return(conv, nil)
		long := strings.Repeat("é", 200)
		messages.EXPECT().ListByConversation(gomock.Any(), "conv-1", 500, 0).
			Return([]*model.Message{testMessage("m1", model.MessageTypeText, long, base)}, nil)

		s := MustNewSummarizer(SummarizerOptions{Conversations: conversations, Messages: messages})

		result, err := s.Summarize(ctx, job)
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("é", previewMaxRunes), result.LastTextPreview)
	})

	t.Run("vanished conversation fails the job", func(t *testing.T) {
		conversations, messages, _ := summarizerFixtures(t)
		conversations.EXPECT().GetByID(gomock.Any(), "conv-1").
			Return(nil, data.ErrConversationNotFound)

		s := MustNewSummarizer(SummarizerOptions{Conversations: conversations, Messages: messages})

		_, err := s.Summarize(ctx, job)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no longer exists")
	})

	t.Run("caches completed results", func(t *testing.T) {
		conversations, messages, cache := summarizerFixtures(t)
		conversations.EXPECT().GetByID(gomock.Any(), "conv-1").Return(conv, nil)
		messages.EXPECT().ListByConversation(gomock.Any(), "conv-1", 500, 0).
			Return([]*model.Message{testMessage("m1", model.MessageTypeText, "hi", base)}, nil)
		cache.EXPECT().Set(gomock.Any(), "conv-1", gomock.Any(), 30*time.Minute).Return(nil)

		s := MustNewSummarizer(SummarizerOptions{
			Conversations: conversations,
			Messages:      messages,
			Cache:         cache,
			CacheTTL:      30 * time.Minute,
		})

		_, err := s.Summarize(ctx, job)
		require.NoError(t, err)
	})

	t.Run("cache failures do not fail the job", func(t *testing.T) {
		conversations, messages, cache := summarizerFixtures(t)
		conversations.EXPECT().GetByID(gomock.Any(), "conv-1").Return(conv, nil)
		messages.EXPECT().ListByConversation(gomock.Any(), "conv-1", 500, 0).
			Return([]*model.Message{testMessage("m1", model.MessageTypeText, "hi", base)}, nil)
		cache.EXPECT().Set(gomock.Any(), "conv-1", gomock.Any(), time.Minute).
			Return(errors.New("redis down"))

		s := MustNewSummarizer(SummarizerOptions{
			Conversations: conversations,
			Messages:      messages,
			Cache:         cache,
			CacheTTL:      time.Minute,
		})

		result, err := s.Summarize(ctx, job)
		require.NoError(t, err)
		assert.Equal(t, 1, result.MessageCount)
	})
}
