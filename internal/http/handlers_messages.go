package httpx

import (
	"errors"
	"net/http"

	"github.com/lionswap/messaging-api/internal/domain/model"
	"github.com/lionswap/messaging-api/internal/service"
)

// MessageHandlers provides HTTP handlers for message operations.
type MessageHandlers struct {
	Svc *service.MessageService
}

// createMessageBody is the wire payload for posting a message. The
// conversation comes from the path and the sender from the verified identity,
// so neither is accepted from the body.
type createMessageBody struct {
	Type          model.MessageType `json:"message_type"`
	Body          string            `json:"body"`
	AttachmentURL *string           `json:"attachment_url,omitempty"`
}

// Create handles HTTP requests to append a message to a conversation.
func (h *MessageHandlers) Create(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if identity == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var body createMessageBody
	if !DecodeJSON(w, r, &body) {
		return
	}

	req := model.CreateMessageRequest{
		ConversationID: r.PathValue("id"),
		SenderID:       identity.UserID,
		Type:           body.Type,
		Body:           body.Body,
		AttachmentURL:  body.AttachmentURL,
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: err})
		return
	}

	msg, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, msg)
}

// List handles HTTP requests to list a conversation's messages oldest first.
func (h *MessageHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", defaultMessageLimit)
	offset := parseIntQuery(r, "offset", 0)

	msgs, err := h.Svc.ListByConversation(r.Context(), r.PathValue("id"), limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if msgs == nil {
		msgs = []*model.Message{}
	}
	WriteJSON(w, http.StatusOK, msgs)
}

// GetByID handles HTTP requests to fetch a single message.
func (h *MessageHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	msg, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, msg)
}

// Delete handles HTTP requests to delete a message.
func (h *MessageHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
