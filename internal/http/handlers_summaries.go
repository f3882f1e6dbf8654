package httpx

import (
	"net/http"

	apperrors "github.com/lionswap/messaging-api/internal/errors"
	"github.com/lionswap/messaging-api/internal/service"
)

// SummaryHandlers provides HTTP handlers for the asynchronous summary
// submission and polling endpoints.
type SummaryHandlers struct {
	Svc *service.SummaryService
}

// Submit handles HTTP requests to start a summary job for a conversation.
// Acceptance is acknowledged with 202 and a handle to poll; a full queue is
// reported as 503 so the client retries later instead of piling up work.
func (h *SummaryHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	accepted, err := h.Svc.Submit(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	w.Header().Set("Location", accepted.PollURL)
	WriteJSON(w, http.StatusAccepted, accepted)
}

// GetStatus handles HTTP requests polling a summary job. Ids that were never
// issued and ids whose records have been evicted both answer 404.
func (h *SummaryHandlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Svc.GetStatus(r.PathValue("job_id"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "unknown_task", Err: err})
			return
		}
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, status)
}

// GetCached handles HTTP requests for the most recent cached summary of a
// conversation, independent of any job record.
func (h *SummaryHandlers) GetCached(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.GetCachedSummary(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
