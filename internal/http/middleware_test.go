package httpx

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lionswap/messaging-api/internal/domain/model"
	apperrors "github.com/lionswap/messaging-api/internal/errors"
	"github.com/lionswap/messaging-api/internal/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequireAuth(t *testing.T) {
	echoIdentity := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFromContext(r.Context())
		require.NotNil(t, identity)
		WriteJSON(w, http.StatusOK, identity)
	})

	t.Run("missing header", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		verifier := mocks.NewMockTokenVerifier(ctrl)
		handler := RequireAuth(verifier)(echoIdentity)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "authentication_required")
	})

	t.Run("malformed header", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		verifier := mocks.NewMockTokenVerifier(ctrl)
		handler := RequireAuth(verifier)(echoIdentity)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		verifier := mocks.NewMockTokenVerifier(ctrl)
		verifier.EXPECT().Verify(gomock.Any(), "bad").
			Return(nil, apperrors.Unauthorized("token rejected"))
		handler := RequireAuth(verifier)(echoIdentity)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "authentication_required")
	})

	t.Run("security service outage is 503, not 401", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		verifier := mocks.NewMockTokenVerifier(ctrl)
		verifier.EXPECT().Verify(gomock.Any(), "tok").
			Return(nil, apperrors.Unavailable("security service unreachable"))
		handler := RequireAuth(verifier)(echoIdentity)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer tok")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		verifier := mocks.NewMockTokenVerifier(ctrl)
		verifier.EXPECT().Verify(gomock.Any(), "tok").
			Return(&model.Identity{UserID: 42}, nil)
		handler := RequireAuth(verifier)(echoIdentity)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer tok") // scheme is case-insensitive
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"user_id":42`)
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"standard", "Bearer abc123", "abc123", true},
		{"lowercase scheme", "bearer abc123", "abc123", true},
		{"empty token", "Bearer ", "", false},
		{"whitespace token", "Bearer    ", "", false},
		{"wrong scheme", "Basic abc123", "", false},
		{"no header", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			token, ok := bearerToken(req)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestRecoverMiddleware(t *testing.T) {
	handler := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLoggingMiddlewarePreservesStatus(t *testing.T) {
	handler := Logging(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
