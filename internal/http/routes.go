package httpx

import (
	"log/slog"
	"net/http"

	"github.com/lionswap/messaging-api/internal/core"
	"github.com/lionswap/messaging-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Logger        *slog.Logger
	Conversations *service.ConversationService
	Messages      *service.MessageService
	Summaries     *service.SummaryService
	Verifier      core.TokenVerifier
}

// NewRouter creates and configures the HTTP router. All API routes sit behind
// bearer authentication; only the health endpoint is open.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	authed := RequireAuth(services.Verifier)

	registerConversationRoutes(mux, &ConversationHandlers{Svc: services.Conversations}, authed)
	registerMessageRoutes(mux, &MessageHandlers{Svc: services.Messages}, authed)
	registerSummaryRoutes(mux, &SummaryHandlers{Svc: services.Summaries}, authed)

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerConversationRoutes(
	mux *http.ServeMux,
	h *ConversationHandlers,
	authed func(http.Handler) http.Handler,
) {
	mux.Handle("POST /conversations", authed(http.HandlerFunc(h.Create)))
	mux.Handle("GET /conversations", authed(http.HandlerFunc(h.List)))
	mux.Handle("GET /conversations/{id}", authed(http.HandlerFunc(h.GetByID)))
	mux.Handle("DELETE /conversations/{id}", authed(http.HandlerFunc(h.Delete)))
}

func registerMessageRoutes(
	mux *http.ServeMux,
	h *MessageHandlers,
	authed func(http.Handler) http.Handler,
) {
	mux.Handle("POST /conversations/{id}/messages", authed(http.HandlerFunc(h.Create)))
	mux.Handle("GET /conversations/{id}/messages", authed(http.HandlerFunc(h.List)))
	mux.Handle("GET /messages/{id}", authed(http.HandlerFunc(h.GetByID)))
	mux.Handle("DELETE /messages/{id}", authed(http.HandlerFunc(h.Delete)))
}

func registerSummaryRoutes(
	mux *http.ServeMux,
	h *SummaryHandlers,
	authed func(http.Handler) http.Handler,
) {
	mux.Handle("POST /conversations/{id}/summary", authed(http.HandlerFunc(h.Submit)))
	mux.Handle("GET /conversations/{id}/summary", authed(http.HandlerFunc(h.GetCached)))
	mux.Handle("GET /summaries/{job_id}", authed(http.HandlerFunc(h.GetStatus)))
}
