package config

import "time"

// SummaryConfig contains summary worker pool configuration.
type SummaryConfig struct {
	// Workers is the number of worker goroutines executing summary jobs.
	Workers int `env:"SUMMARY_WORKERS" envDefault:"4"`

	// QueueSize is the bounded queue capacity. Submissions beyond it are
	// rejected with a busy response.
	QueueSize int `env:"SUMMARY_QUEUE_SIZE" envDefault:"64"`

	// JobTimeout is the per-job execution deadline.
	JobTimeout time.Duration `env:"SUMMARY_JOB_TIMEOUT" envDefault:"30s"`

	// Retention is how long terminal job records remain pollable before the
	// sweeper evicts them. Zero keeps records for the process lifetime.
	Retention time.Duration `env:"SUMMARY_RETENTION" envDefault:"1h"`

	// SweepInterval is the eviction sweep cadence.
	SweepInterval time.Duration `env:"SUMMARY_SWEEP_INTERVAL" envDefault:"1m"`

	// PageSize is the number of messages loaded per page during summarization.
	PageSize int `env:"SUMMARY_PAGE_SIZE" envDefault:"500"`
}

// Sanitize applies guardrails to summary configuration values.
func (s *SummaryConfig) Sanitize() {
	if s.Workers < 1 {
		s.Workers = 1
	}
	if s.QueueSize < 1 {
		s.QueueSize = 1
	}
	if s.JobTimeout < time.Second {
		s.JobTimeout = time.Second
	}
	if s.Retention < 0 {
		s.Retention = 0
	}
	if s.SweepInterval < time.Second {
		s.SweepInterval = time.Second
	}
	if s.PageSize < 1 {
		s.PageSize = 1
	}
}
