package model

import (
	"errors"
	"strings"
	"time"
)

// MessageType classifies a message body.
type MessageType string

const (
	// MessageTypeText is a plain text message.
	MessageTypeText MessageType = "TEXT"
	// MessageTypeImage is a message whose body is a short caption for an attachment.
	MessageTypeImage MessageType = "IMAGE"
	// MessageTypeSystem is a service-generated message.
	MessageTypeSystem MessageType = "SYSTEM"
)

// Valid returns true if the MessageType is one of the known types.
func (t MessageType) Valid() bool {
	return t == MessageTypeText || t == MessageTypeImage || t == MessageTypeSystem
}

// Message represents a single message within a conversation.
type Message struct {
	ID             string      `json:"message_id"      db:"id"`
	ConversationID string      `json:"conversation_id" db:"conversation_id"`
	SenderID       int64       `json:"sender_id"       db:"sender_id"`
	Type           MessageType `json:"message_type"    db:"message_type"`
	Body           string      `json:"body"            db:"body"`
	AttachmentURL  *string     `json:"attachment_url,omitempty" db:"attachment_url"`
	CreatedAt      time.Time   `json:"created_at"      db:"created_at"`
}

// CreateMessageRequest is the payload for creating a new message.
type CreateMessageRequest struct {
	ConversationID string      `json:"conversation_id"`
	SenderID       int64       `json:"sender_id"`
	Type           MessageType `json:"message_type"`
	Body           string      `json:"body"`
	AttachmentURL  *string     `json:"attachment_url,omitempty"`
}

// Validate checks required fields and defaults the type to TEXT.
func (r *CreateMessageRequest) Validate() error {
	if strings.TrimSpace(r.ConversationID) == "" {
		return errors.New("conversation_id is required")
	}
	if r.SenderID <= 0 {
		return errors.New("sender_id must be positive")
	}
	if r.Type == "" {
		r.Type = MessageTypeText
	}
	if !r.Type.Valid() {
		return errors.New("message_type must be TEXT, IMAGE, or SYSTEM")
	}
	if strings.TrimSpace(r.Body) == "" {
		return errors.New("body is required")
	}
	return nil
}
