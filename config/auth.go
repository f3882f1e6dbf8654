package config

import (
	"strings"
	"time"
)

// AuthConfig groups configuration for the external security service that
// resolves bearer tokens into caller identities.
type AuthConfig struct {
	// SecurityServiceURL is the base URL of the security service.
	SecurityServiceURL string `env:"SECURITY_SERVICE_URL" envDefault:"http://localhost:9090"`

	// Timeout bounds each token verification round trip.
	Timeout time.Duration `env:"SECURITY_SERVICE_TIMEOUT" envDefault:"5s"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	a.SecurityServiceURL = strings.TrimRight(strings.TrimSpace(a.SecurityServiceURL), "/")
	if a.Timeout <= 0 {
		a.Timeout = 5 * time.Second
	}
}
