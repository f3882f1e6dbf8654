// Package security calls the external LionSwap security service to resolve
// bearer tokens into caller identities. The messaging service never decodes
// tokens itself.
package security

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lionswap/messaging-api/internal/core"
	"github.com/lionswap/messaging-api/internal/domain/model"
	apperrors "github.com/lionswap/messaging-api/internal/errors"
)

const decodePath = "/security/decode"

// Options configures the security service client.
type Options struct {
	BaseURL    string        // Required: security service base URL
	HTTPClient *http.Client  // Optional: defaults to a client with Timeout
	Timeout    time.Duration // Optional: defaults to 5s
}

// Client verifies tokens against the security service's decode endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ core.TokenVerifier = (*Client)(nil)

// NewClient constructs a security service client.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("security service base URL is required")
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: base, http: hc}, nil
}

// Verify posts the token to the security service and returns the caller
// identity it reports. A rejected token maps to an unauthorized error; an
// unreachable security service maps to an unavailable error.
func (c *Client) Verify(ctx context.Context, token string) (*model.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.Unauthorized("token is required")
	}

	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, fmt.Errorf("marshal decode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+decodePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build decode request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "security service unavailable")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	var identity model.Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "malformed security service response")
	}
	if identity.UserID <= 0 {
		return nil, apperrors.Unauthorized("security service returned no user")
	}

	return &identity, nil
}
