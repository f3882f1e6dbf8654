package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[ServiceMode]bool
		wantErr  bool
	}{
		{
			name:     "single service",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:  "multiple services",
			input: "http,summary-worker",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:          true,
				ServiceModeSummaryWorker: true,
			},
		},
		{
			name:  "whitespace tolerated",
			input: " http , summary-worker ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:          true,
				ServiceModeSummaryWorker: true,
			},
		},
		{
			name:     "duplicates collapse",
			input:    "http,http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "only commas",
			input:   ",,,",
			wantErr: true,
		},
		{
			name:    "invalid service name",
			input:   "http,scheduler",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services, err := ParseServices(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, services)
		})
	}
}

func TestAppConfigDefaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.False(t, cfg.IsDev)
	assert.Equal(t, "http,summary-worker", cfg.Services)
	assert.True(t, cfg.IsHTTPServerEnabled())
	assert.True(t, cfg.IsSummaryWorkerEnabled())

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "messaging", cfg.Postgres.Name)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Redis.SummaryTTL)
	assert.Equal(t, "http://localhost:9090", cfg.Auth.SecurityServiceURL)

	assert.Equal(t, 4, cfg.Summary.Workers)
	assert.Equal(t, 64, cfg.Summary.QueueSize)
	assert.Equal(t, 30*time.Second, cfg.Summary.JobTimeout)
	assert.Equal(t, time.Hour, cfg.Summary.Retention)
	assert.Equal(t, time.Minute, cfg.Summary.SweepInterval)

	assert.False(t, cfg.Observability.Metrics.IsEnabled())
}

func TestAppConfigFromEnv(t *testing.T) {
	t.Setenv("SERVICES", "http")
	t.Setenv("SUMMARY_WORKERS", "8")
	t.Setenv("SUMMARY_QUEUE_SIZE", "128")
	t.Setenv("SECURITY_SERVICE_URL", "http://security.internal:9090/")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_ADDR", "cache.internal:6379")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.True(t, cfg.IsHTTPServerEnabled())
	assert.False(t, cfg.IsSummaryWorkerEnabled())
	assert.Equal(t, 8, cfg.Summary.Workers)
	assert.Equal(t, 128, cfg.Summary.QueueSize)
	// Sanitize trims the trailing slash so path joins stay clean.
	assert.Equal(t, "http://security.internal:9090", cfg.Auth.SecurityServiceURL)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr)
}

func TestSummaryConfigSanitize(t *testing.T) {
	cfg := SummaryConfig{
		Workers:       0,
		QueueSize:     -5,
		JobTimeout:    time.Millisecond,
		Retention:     -time.Hour,
		SweepInterval: 0,
		PageSize:      0,
	}
	cfg.Sanitize()

	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 1, cfg.QueueSize)
	assert.Equal(t, time.Second, cfg.JobTimeout)
	assert.Equal(t, time.Duration(0), cfg.Retention)
	assert.Equal(t, time.Second, cfg.SweepInterval)
	assert.Equal(t, 1, cfg.PageSize)
}

func TestAuthConfigSanitize(t *testing.T) {
	cfg := AuthConfig{SecurityServiceURL: "  http://security:9090//  ", Timeout: -time.Second}
	cfg.Sanitize()

	assert.Equal(t, "http://security:9090", cfg.SecurityServiceURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestDetectDevMode(t *testing.T) {
	t.Run("NODE_ENV fallback", func(t *testing.T) {
		t.Setenv("NODE_ENV", "development")
		cfg := AppConfig{}
		cfg.detectDevMode()
		assert.True(t, cfg.IsDev)
	})

	t.Run("production NODE_ENV", func(t *testing.T) {
		t.Setenv("NODE_ENV", "production")
		cfg := AppConfig{}
		cfg.detectDevMode()
		assert.False(t, cfg.IsDev)
	})

	t.Run("DEV wins", func(t *testing.T) {
		t.Setenv("NODE_ENV", "production")
		cfg := AppConfig{IsDev: true}
		cfg.detectDevMode()
		assert.True(t, cfg.IsDev)
	})
}
