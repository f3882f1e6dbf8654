// Package model defines the core data types used throughout the messaging service.
package model

import (
	"errors"
	"time"
)

// Conversation represents a one-to-one chat between two users. The pair is
// stored normalized with UserAID < UserBID so a pair maps to exactly one row.
type Conversation struct {
	ID            string     `json:"conversation_id" db:"id"`
	UserAID       int64      `json:"user_a_id"       db:"user_a_id"`
	UserBID       int64      `json:"user_b_id"       db:"user_b_id"`
	CreatedAt     time.Time  `json:"created_at"      db:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty" db:"last_message_at"`
}

// CreateConversationRequest is the payload for creating a new conversation.
type CreateConversationRequest struct {
	UserAID int64 `json:"user_a_id"`
	UserBID int64 `json:"user_b_id"`
}

// Validate checks the user pair and normalizes it so UserAID < UserBID.
func (r *CreateConversationRequest) Validate() error {
	if r.UserAID <= 0 || r.UserBID <= 0 {
		return errors.New("user ids must be positive")
	}
	if r.UserAID == r.UserBID {
		return errors.New("user_a_id and user_b_id must be different")
	}
	if r.UserAID > r.UserBID {
		r.UserAID, r.UserBID = r.UserBID, r.UserAID
	}
	return nil
}

// Participants returns the two user ids of the conversation.
func (c *Conversation) Participants() []int64 {
	return []int64{c.UserAID, c.UserBID}
}

// HasParticipant reports whether the given user is part of the conversation.
func (c *Conversation) HasParticipant(userID int64) bool {
	return userID == c.UserAID || userID == c.UserBID
}
