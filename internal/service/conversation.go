// Package service contains the business logic for the messaging service.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lionswap/messaging-api/internal/core"
	"github.com/lionswap/messaging-api/internal/data"
	"github.com/lionswap/messaging-api/internal/domain/model"
	apperrors "github.com/lionswap/messaging-api/internal/errors"
)

// ConversationServiceOptions groups dependencies for ConversationService.
type ConversationServiceOptions struct {
	Repo   core.ConversationRepository // Required
	Logger *slog.Logger                // Optional
}

// ConversationService provides business logic for conversation operations.
type ConversationService struct {
	repo   core.ConversationRepository
	logger *slog.Logger
}

// NewConversationService constructs a new ConversationService.
func NewConversationService(opts ConversationServiceOptions) (*ConversationService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ConversationRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "conversation_service")
	}

	return &ConversationService{repo: opts.Repo, logger: logger}, nil
}

// MustNewConversationService constructs a ConversationService and panics on error.
func MustNewConversationService(opts ConversationServiceOptions) *ConversationService {
	svc, err := NewConversationService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create ConversationService: %v", err))
	}
	return svc
}

// Create creates a new conversation for a user pair.
func (s *ConversationService) Create(ctx context.Context, req *model.CreateConversationRequest) (*model.Conversation, error) {
	conv, err := s.repo.Create(ctx, req)
	if err != nil {
		if errors.Is(err, data.ErrConversationExists) {
			return nil, apperrors.Conflict("a conversation already exists for this user pair")
		}
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	if s.logger != nil {
		s.logger.DebugContext(ctx, "conversation created",
			"id", conv.ID,
			"user_a_id", conv.UserAID,
			"user_b_id", conv.UserBID,
		)
	}

	return conv, nil
}

// GetByID retrieves a conversation by id.
func (s *ConversationService) GetByID(ctx context.Context, id string) (*model.Conversation, error) {
	conv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrConversationNotFound) {
			return nil, apperrors.NotFoundf("conversation %s not found", id)
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

// ListByUser lists conversations a user participates in.
func (s *ConversationService) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*model.Conversation, error) {
	if userID <= 0 {
		return nil, apperrors.ValidationField("user_id", "user_id must be positive")
	}

	convs, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convs, nil
}

// Delete removes a conversation and its messages.
func (s *ConversationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, data.ErrConversationNotFound) {
			return apperrors.NotFoundf("conversation %s not found", id)
		}
		return fmt.Errorf("delete conversation: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "conversation deleted", "id", id)
	}
	return nil
}
