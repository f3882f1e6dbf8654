package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrConversationNotFound is returned when a conversation does not exist.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrConversationExists is returned when the normalized user pair already has a conversation.
	ErrConversationExists = errors.New("conversation already exists for this user pair")

	// ErrMessageNotFound is returned when a message does not exist.
	ErrMessageNotFound = errors.New("message not found")

	// ErrSummaryNotCached is returned when no cached summary exists for a conversation.
	ErrSummaryNotCached = errors.New("summary not cached")
)
