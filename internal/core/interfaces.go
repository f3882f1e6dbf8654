// Package core defines the ports between the messaging service's business
// logic and its data and collaborator adapters.
package core

import (
	"context"
	"time"

	"github.com/lionswap/messaging-api/internal/domain/model"
)

// ConversationRepository is the persistence port for conversations.
type ConversationRepository interface {
	Create(ctx context.Context, req *model.CreateConversationRequest) (*model.Conversation, error)
	GetByID(ctx context.Context, id string) (*model.Conversation, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*model.Conversation, error)
	Delete(ctx context.Context, id string) error
}

// MessageRepository is the persistence port for messages. Create also bumps
// the parent conversation's last_message_at.
type MessageRepository interface {
	Create(ctx context.Context, req *model.CreateMessageRequest) (*model.Message, error)
	GetByID(ctx context.Context, id string) (*model.Message, error)
	ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*model.Message, error)
	Delete(ctx context.Context, id string) error
}

// SummaryCache stores completed summary results keyed by conversation with a
// TTL, so sibling services and post-eviction polls can read them cheaply.
type SummaryCache interface {
	Set(ctx context.Context, conversationID string, result *model.SummaryResult, ttl time.Duration) error
	Get(ctx context.Context, conversationID string) (*model.SummaryResult, error)
}

// TokenVerifier resolves a bearer token into a caller identity via the
// external security service. The messaging service never decodes tokens
// itself.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*model.Identity, error)
}
