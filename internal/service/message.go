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

// MessageServiceOptions groups dependencies for MessageService.
type MessageServiceOptions struct {
	Repo          core.MessageRepository      // Required
	Conversations core.ConversationRepository // Required: participant checks
	Logger        *slog.Logger                // Optional
}

// MessageService provides business logic for message operations.
type MessageService struct {
	repo          core.MessageRepository
	conversations core.ConversationRepository
	logger        *slog.Logger
}

// NewMessageService constructs a new MessageService.
func NewMessageService(opts MessageServiceOptions) (*MessageService, error) {
	if opts.Repo == nil {
		return nil, errors.New("MessageRepository is required")
	}
	if opts.Conversations == nil {
		return nil, errors.New("ConversationRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "message_service")
	}

	return &MessageService{
		repo:          opts.Repo,
		conversations: opts.Conversations,
		logger:        logger,
	}, nil
}

// MustNewMessageService constructs a MessageService and panics on error.
func MustNewMessageService(opts MessageServiceOptions) *MessageService {
	svc, err := NewMessageService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create MessageService: %v", err))
	}
	return svc
}

// Create appends a message to a conversation. The sender must be one of the
// conversation's two participants.
func (s *MessageService) Create(ctx context.Context, req *model.CreateMessageRequest) (*model.Message, error) {
	conv, err := s.conversations.GetByID(ctx, req.ConversationID)
	if err != nil {
		if errors.Is(err, data.ErrConversationNotFound) {
			return nil, apperrors.NotFoundf("conversation %s not found", req.ConversationID)
		}
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if !conv.HasParticipant(req.SenderID) {
		return nil, apperrors.ValidationField("sender_id", "sender is not a participant in this conversation")
	}

	msg, err := s.repo.Create(ctx, req)
	if err != nil {
		if errors.Is(err, data.ErrConversationNotFound) {
			// Conversation deleted between the participant check and the insert.
			return nil, apperrors.NotFoundf("conversation %s not found", req.ConversationID)
		}
		return nil, fmt.Errorf("create message: %w", err)
	}

	if s.logger != nil {
		s.logger.DebugContext(ctx, "message created",
			"id", msg.ID,
			"conversation_id", msg.ConversationID,
			"message_type", msg.Type,
		)
	}

	return msg, nil
}

// GetByID retrieves a message by id.
func (s *MessageService) GetByID(ctx context.Context, id string) (*model.Message, error) {
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrMessageNotFound) {
			return nil, apperrors.NotFoundf("message %s not found", id)
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

// ListByConversation lists a conversation's messages oldest first.
func (s *MessageService) ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*model.Message, error) {
	if _, err := s.conversations.GetByID(ctx, conversationID); err != nil {
		if errors.Is(err, data.ErrConversationNotFound) {
			return nil, apperrors.NotFoundf("conversation %s not found", conversationID)
		}
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	msgs, err := s.repo.ListByConversation(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// Delete removes a message.
func (s *MessageService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, data.ErrMessageNotFound) {
			return apperrors.NotFoundf("message %s not found", id)
		}
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
