package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/lionswap/messaging-api/internal/core"
	"github.com/lionswap/messaging-api/internal/data"
	"github.com/lionswap/messaging-api/internal/domain/model"
)

const (
	defaultSummarizerPageSize = 500
	previewMaxRunes           = 120
)

// SummarizerOptions groups dependencies for Summarizer.
type SummarizerOptions struct {
	Conversations core.ConversationRepository // Required
	Messages      core.MessageRepository      // Required
	Cache         core.SummaryCache           // Optional: completed results are cached best-effort
	CacheTTL      time.Duration               // TTL for cached results; zero skips caching
	PageSize      int                         // messages fetched per page; defaults to 500
	Logger        *slog.Logger                // Optional
}

// Summarizer computes conversation summaries. Its Summarize method satisfies
// the worker pool's compute contract: it is pure with respect to job state and
// reports failure only through its error return.
type Summarizer struct {
	conversations core.ConversationRepository
	messages      core.MessageRepository
	cache         core.SummaryCache
	cacheTTL      time.Duration
	pageSize      int
	logger        *slog.Logger
}

// NewSummarizer constructs a new Summarizer.
func NewSummarizer(opts SummarizerOptions) (*Summarizer, error) {
	if opts.Conversations == nil {
		return nil, errors.New("ConversationRepository is required")
	}
	if opts.Messages == nil {
		return nil, errors.New("MessageRepository is required")
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultSummarizerPageSize
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Summarizer{
		conversations: opts.Conversations,
		messages:      opts.Messages,
		cache:         opts.Cache,
		cacheTTL:      opts.CacheTTL,
		pageSize:      pageSize,
		logger:        logger.With("component", "summarizer"),
	}, nil
}

// MustNewSummarizer constructs a Summarizer and panics on error.
func MustNewSummarizer(opts SummarizerOptions) *Summarizer {
	s, err := NewSummarizer(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create Summarizer: %v", err))
	}
	return s
}

// Summarize loads the conversation and all of its messages and aggregates
// them into a SummaryResult. A conversation deleted since submission fails
// the job rather than producing an empty summary.
func (s *Summarizer) Summarize(ctx context.Context, job model.SummaryJob) (*model.SummaryResult, error) {
	conv, err := s.conversations.GetByID(ctx, job.ConversationID)
	if err != nil {
		if errors.Is(err, data.ErrConversationNotFound) {
			return nil, fmt.Errorf("conversation %s no longer exists", job.ConversationID)
		}
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	result := &model.SummaryResult{
		ConversationID: conv.ID,
		Participants:   conv.Participants(),
		CountsByType:   make(map[string]int),
		GeneratedAt:    time.Now().UTC(),
	}

	// Page through messages oldest first so first/last timestamps and the
	// last text preview fall out of iteration order.
	offset := 0
	for {
		page, err := s.messages.ListByConversation(ctx, conv.ID, s.pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("list messages at offset %d: %w", offset, err)
		}
		for _, msg := range page {
			s.fold(result, msg)
		}
		if len(page) < s.pageSize {
			break
		}
		offset += len(page)
	}

	s.cacheResult(ctx, result)
	return result, nil
}

func (s *Summarizer) fold(result *model.SummaryResult, msg *model.Message) {
	result.MessageCount++
	result.CountsByType[string(msg.Type)]++

	created := msg.CreatedAt
	if result.FirstMessageAt == nil {
		result.FirstMessageAt = &created
	}
	result.LastMessageAt = &created

	if msg.Type == model.MessageTypeText {
		result.LastTextPreview = truncateRunes(msg.Body, previewMaxRunes)
	}
}

// cacheResult writes the summary to the shared cache. Cache failures are
// logged and swallowed; the job still completes with its result.
func (s *Summarizer) cacheResult(ctx context.Context, result *model.SummaryResult) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, result.ConversationID, result, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "cache summary result",
			"conversation_id", result.ConversationID,
			"error", err,
		)
	}
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
