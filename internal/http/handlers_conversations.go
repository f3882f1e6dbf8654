// Package httpx provides the HTTP handlers and router for the messaging service API.
package httpx

import (
	"errors"
	"net/http"

	"github.com/lionswap/messaging-api/internal/domain/model"
	"github.com/lionswap/messaging-api/internal/service"
)

const (
	defaultConversationLimit = 50
	defaultMessageLimit      = 100
)

// ConversationHandlers provides HTTP handlers for conversation operations.
type ConversationHandlers struct {
	Svc *service.ConversationService
}

// Create handles HTTP requests to create a new conversation.
func (h *ConversationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateConversationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: err})
		return
	}

	conv, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, conv)
}

// GetByID handles HTTP requests to fetch a single conversation.
func (h *ConversationHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	conv, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, conv)
}

// List handles HTTP requests to list the caller's conversations.
func (h *ConversationHandlers) List(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if identity == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	limit := parseIntQuery(r, "limit", defaultConversationLimit)
	offset := parseIntQuery(r, "offset", 0)

	convs, err := h.Svc.ListByUser(r.Context(), identity.UserID, limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if convs == nil {
		convs = []*model.Conversation{}
	}
	WriteJSON(w, http.StatusOK, convs)
}

// Delete handles HTTP requests to delete a conversation.
func (h *ConversationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
