package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lionswap/messaging-api/internal/domain/model"
)

const summaryCacheKeyPrefix = "messaging:summary:"

// SummaryCacheRepo stores completed conversation summaries in Redis with a
// TTL so polls after in-memory eviction and sibling services can read them.
type SummaryCacheRepo struct {
	client redis.UniversalClient
}

// NewSummaryCacheRepo creates a new SummaryCacheRepo.
func NewSummaryCacheRepo(client redis.UniversalClient) *SummaryCacheRepo {
	return &SummaryCacheRepo{client: client}
}

// Set stores a summary result under the conversation key.
func (r *SummaryCacheRepo) Set(ctx context.Context, conversationID string, result *model.SummaryResult, ttl time.Duration) error {
	if conversationID == "" {
		return errors.New("conversation id is required")
	}
	if result == nil {
		return errors.New("summary result is required")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	if err := r.client.Set(ctx, summaryCacheKeyPrefix+conversationID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache summary: %w", err)
	}
	return nil
}

// Get retrieves the cached summary for a conversation, or ErrSummaryNotCached.
func (r *SummaryCacheRepo) Get(ctx context.Context, conversationID string) (*model.SummaryResult, error) {
	payload, err := r.client.Get(ctx, summaryCacheKeyPrefix+conversationID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSummaryNotCached
		}
		return nil, fmt.Errorf("read cached summary: %w", err)
	}

	var result model.SummaryResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshal cached summary: %w", err)
	}
	return &result, nil
}
