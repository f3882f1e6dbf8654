package testutil

import (
	"github.com/lionswap/messaging-api/internal/domain/model"
)

// ConversationRequestBuilder provides a fluent interface for building
// CreateConversationRequest objects for testing.
type ConversationRequestBuilder struct {
	req *model.CreateConversationRequest
}

// NewConversationRequest creates a new ConversationRequestBuilder with sensible defaults.
func NewConversationRequest() *ConversationRequestBuilder {
	return &ConversationRequestBuilder{
		req: &model.CreateConversationRequest{
			UserAID: 101,
			UserBID: 202,
		},
	}
}

// WithUsers sets the user pair.
func (b *ConversationRequestBuilder) WithUsers(a, c int64) *ConversationRequestBuilder {
	b.req.UserAID = a
	b.req.UserBID = c
	return b
}

// Build returns the constructed CreateConversationRequest.
func (b *ConversationRequestBuilder) Build() *model.CreateConversationRequest {
	return b.req
}

// MessageRequestBuilder provides a fluent interface for building
// CreateMessageRequest objects for testing.
type MessageRequestBuilder struct {
	req *model.CreateMessageRequest
}

// NewMessageRequest creates a new MessageRequestBuilder with sensible defaults.
func NewMessageRequest(conversationID string) *MessageRequestBuilder {
	return &MessageRequestBuilder{
		req: &model.CreateMessageRequest{
			ConversationID: conversationID,
			SenderID:       101,
			Type:           model.MessageTypeText,
			Body:           "hello there",
		},
	}
}

// WithSender sets the sender id.
func (b *MessageRequestBuilder) WithSender(senderID int64) *MessageRequestBuilder {
	b.req.SenderID = senderID
	return b
}

// WithType sets the message type.
func (b *MessageRequestBuilder) WithType(t model.MessageType) *MessageRequestBuilder {
	b.req.Type = t
	return b
}

// WithBody sets the message body.
func (b *MessageRequestBuilder) WithBody(body string) *MessageRequestBuilder {
	b.req.Body = body
	return b
}

// WithAttachment sets the attachment URL.
func (b *MessageRequestBuilder) WithAttachment(url string) *MessageRequestBuilder {
	b.req.AttachmentURL = &url
	return b
}

// Build returns the constructed CreateMessageRequest.
func (b *MessageRequestBuilder) Build() *model.CreateMessageRequest {
	return b.req
}
