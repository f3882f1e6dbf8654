package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lionswap/messaging-api/internal/core"
	"github.com/lionswap/messaging-api/internal/data"
	"github.com/lionswap/messaging-api/internal/domain/model"
	apperrors "github.com/lionswap/messaging-api/internal/errors"
	"github.com/lionswap/messaging-api/internal/summary"
)

// PollPathPrefix is prepended to a job id to form the poll URL returned on
// submission. It must match the route the status handler is mounted on.
const PollPathPrefix = "/summaries/"

// JobQueue admits created jobs for execution. The worker pool implements it;
// tests substitute fakes to exercise rejection paths.
type JobQueue interface {
	Enqueue(id string) error
}

// SummaryServiceOptions groups dependencies for SummaryService.
type SummaryServiceOptions struct {
	Store         *summary.Store              // Required: job status store
	Queue         JobQueue                    // Required: worker pool admission
	Conversations core.ConversationRepository // Required: submission validates the target exists
	Cache         core.SummaryCache           // Optional: cached-summary reads
	Logger        *slog.Logger                // Optional
}

// SummaryService is the submission gateway and polling surface for
// asynchronous conversation summaries.
type SummaryService struct {
	store         *summary.Store
	queue         JobQueue
	conversations core.ConversationRepository
	cache         core.SummaryCache
	logger        *slog.Logger
}

// NewSummaryService constructs a new SummaryService.
func NewSummaryService(opts SummaryServiceOptions) (*SummaryService, error) {
	if opts.Store == nil {
		return nil, errors.New("summary store is required")
	}
	if opts.Queue == nil {
		return nil, errors.New("job queue is required")
	}
	if opts.Conversations == nil {
		return nil, errors.New("ConversationRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "summary_service")
	}

	return &SummaryService{
		store:         opts.Store,
		queue:         opts.Queue,
		conversations: opts.Conversations,
		cache:         opts.Cache,
		logger:        logger,
	}, nil
}

// MustNewSummaryService constructs a SummaryService and panics on error.
func MustNewSummaryService(opts SummaryServiceOptions) *SummaryService {
	svc, err := NewSummaryService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create SummaryService: %v", err))
	}
	return svc
}

// Submit creates a queued job record for the conversation and hands it to the
// pool. The returned handle carries the job id and the URL to poll. Every
// submission mints a fresh job; concurrent submissions for the same
// conversation each get their own record.
//
// When the queue is full the just-created record is discarded and a busy
// error is returned, so no orphaned queued record survives a rejection.
func (s *SummaryService) Submit(ctx context.Context, conversationID string, requestedBy *model.Identity) (*model.SummaryAccepted, error) {
	if _, err := s.conversations.GetByID(ctx, conversationID); err != nil {
		if errors.Is(err, data.ErrConversationNotFound) {
			return nil, apperrors.NotFoundf("conversation %s not found", conversationID)
		}
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	id := uuid.NewString()
	if _, err := s.store.Create(id, conversationID, requestedBy); err != nil {
		return nil, fmt.Errorf("create summary job: %w", err)
	}

	if err := s.queue.Enqueue(id); err != nil {
		s.store.Discard(id)
		if errors.Is(err, summary.ErrQueueFull) {
			if s.logger != nil {
				s.logger.WarnContext(ctx, "summary submission rejected, queue full",
					"conversation_id", conversationID,
				)
			}
			return nil, apperrors.Busy("summary queue is full, retry later")
		}
		return nil, fmt.Errorf("enqueue summary job: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "summary job accepted",
			"job_id", id,
			"conversation_id", conversationID,
		)
	}

	return &model.SummaryAccepted{
		JobID:   id,
		PollURL: PollPathPrefix + id,
	}, nil
}

// GetStatus returns the poll-facing view of a job. Ids that were never issued
// and ids whose terminal records have been evicted are indistinguishable;
// both report an unknown task.
func (s *SummaryService) GetStatus(jobID string) (model.SummaryStatusResponse, error) {
	job, err := s.store.Get(jobID)
	if err != nil {
		if errors.Is(err, summary.ErrUnknownJob) {
			return model.SummaryStatusResponse{}, apperrors.NotFound("unknown task")
		}
		return model.SummaryStatusResponse{}, fmt.Errorf("get summary job: %w", err)
	}
	return job.StatusResponse(), nil
}

// GetCachedSummary returns the most recent completed summary for a
// conversation from the shared cache, regardless of which job produced it.
func (s *SummaryService) GetCachedSummary(ctx context.Context, conversationID string) (*model.SummaryResult, error) {
	if s.cache == nil {
		return nil, apperrors.NotFoundf("no cached summary for conversation %s", conversationID)
	}
	result, err := s.cache.Get(ctx, conversationID)
	if err != nil {
		if errors.Is(err, data.ErrSummaryNotCached) {
			return nil, apperrors.NotFoundf("no cached summary for conversation %s", conversationID)
		}
		return nil, fmt.Errorf("read cached summary: %w", err)
	}
	return result, nil
}
