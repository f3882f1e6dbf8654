package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/lionswap/messaging-api/internal/errors"
)

func TestWriteAppError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperrors.NotFound("x"), http.StatusNotFound},
		{"conflict", apperrors.Conflict("x"), http.StatusConflict},
		{"validation", apperrors.Validation("x"), http.StatusBadRequest},
		{"unauthorized", apperrors.Unauthorized("x"), http.StatusUnauthorized},
		{"busy", apperrors.Busy("x"), http.StatusServiceUnavailable},
		{"unavailable", apperrors.Unavailable("x"), http.StatusServiceUnavailable},
		{"timeout", apperrors.Timeout("x"), http.StatusGatewayTimeout},
		{"internal", apperrors.Internal("x"), http.StatusInternalServerError},
		{"plain error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteAppError(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}

	t.Run("busy sets retry hint", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteAppError(rec, apperrors.Busy("full"))
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	})

	t.Run("others do not", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteAppError(rec, apperrors.NotFound("x"))
		assert.Empty(t, rec.Header().Get("Retry-After"))
	})
}

func TestParseIntQuery(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"present", "/?limit=25", 25},
		{"absent", "/", 50},
		{"malformed", "/?limit=abc", 50},
		{"negative passes through", "/?limit=-1", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.want, parseIntQuery(req, "limit", 50))
		})
	}
}
