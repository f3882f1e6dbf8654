package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lionswap/messaging-api/internal/domain/model"
	"github.com/lionswap/messaging-api/internal/testutil"
)

func testSummaryResult(conversationID string) *model.SummaryResult {
	generated := testutil.TestTime()
	first := generated.Add(-time.Hour)
	return &model.SummaryResult{
		ConversationID:  conversationID,
		Participants:    []int64{101, 202},
		MessageCount:    5,
		CountsByType:    map[string]int{"TEXT": 4, "IMAGE": 1},
		FirstMessageAt:  &first,
		LastMessageAt:   &generated,
		LastTextPreview: "see you tomorrow",
		GeneratedAt:     generated,
	}
}

func TestSummaryCacheRepoRoundTrip(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	repo := NewSummaryCacheRepo(client)

	stored := testSummaryResult("conv-1")
	require.NoError(t, repo.Set(ctx, "conv-1", stored, time.Minute))

	got, err := repo.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestSummaryCacheRepoMiss(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	repo := NewSummaryCacheRepo(client)

	_, err := repo.Get(context.Background(), "never-cached")
	assert.ErrorIs(t, err, ErrSummaryNotCached)
}

func TestSummaryCacheRepoOverwrite(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	repo := NewSummaryCacheRepo(client)

	first := testSummaryResult("conv-1")
	require.NoError(t, repo.Set(ctx, "conv-1", first, time.Minute))

	second := testSummaryResult("conv-1")
	second.MessageCount = 6
	require.NoError(t, repo.Set(ctx, "conv-1", second, time.Minute))

	got, err := repo.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, 6, got.MessageCount)
}

func TestSummaryCacheRepoTTL(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	repo := NewSummaryCacheRepo(client)

	require.NoError(t, repo.Set(ctx, "conv-1", testSummaryResult("conv-1"), time.Minute))

	ttl, err := client.TTL(ctx, "messaging:summary:conv-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestSummaryCacheRepoValidation(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	repo := NewSummaryCacheRepo(client)

	assert.Error(t, repo.Set(ctx, "", testSummaryResult("conv-1"), time.Minute))
	assert.Error(t, repo.Set(ctx, "conv-1", nil, time.Minute))
}
