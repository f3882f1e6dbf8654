package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lionswap/messaging-api/config"
	"github.com/lionswap/messaging-api/internal/adapters/security"
	"github.com/lionswap/messaging-api/internal/core"
	"github.com/lionswap/messaging-api/internal/data"
	"github.com/lionswap/messaging-api/internal/observability/statsd"
	"github.com/lionswap/messaging-api/internal/service"
	"github.com/lionswap/messaging-api/internal/summary"
)

const shutdownWaitTimeout = 10 * time.Second

// ServiceContainer holds all the constructed services and the summary runtime.
type ServiceContainer struct {
	Conversations *service.ConversationService
	Messages      *service.MessageService
	Summaries     *service.SummaryService

	SummaryStore *summary.Store
	SummaryPool  *summary.Pool

	Verifier core.TokenVerifier

	Observability ObservabilityContainer
}

// ObservabilityContainer groups metric emission dependencies.
type ObservabilityContainer struct {
	MetricsSink *statsd.Client
}

// ServiceDeps contains the infrastructure dependencies for NewServices.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices constructs the full service graph from infrastructure deps.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps and config are required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	metricsSink, err := buildMetricsSink(logger, cfg.Observability)
	if err != nil {
		return ServiceContainer{}, err
	}

	conversationRepo := data.NewConversationRepo(deps.DB)
	messageRepo := data.NewMessageRepo(deps.DB)

	var cache core.SummaryCache
	if deps.RedisClient != nil {
		cache = data.NewSummaryCacheRepo(deps.RedisClient)
	}

	verifier, err := security.NewClient(security.Options{
		BaseURL: cfg.Auth.SecurityServiceURL,
		Timeout: cfg.Auth.Timeout,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build security client: %w", err)
	}

	summarizer, err := service.NewSummarizer(service.SummarizerOptions{
		Conversations: conversationRepo,
		Messages:      messageRepo,
		Cache:         cache,
		CacheTTL:      cfg.Redis.SummaryTTL,
		PageSize:      cfg.Summary.PageSize,
		Logger:        logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build summarizer: %w", err)
	}

	store := summary.NewStore()
	pool, err := summary.NewPool(summary.PoolOptions{
		Store:         store,
		Compute:       summarizer.Summarize,
		Workers:       cfg.Summary.Workers,
		QueueSize:     cfg.Summary.QueueSize,
		JobTimeout:    cfg.Summary.JobTimeout,
		Retention:     cfg.Summary.Retention,
		SweepInterval: cfg.Summary.SweepInterval,
		Logger:        logger,
		Metrics:       metricsSink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build summary pool: %w", err)
	}

	conversations, err := service.NewConversationService(service.ConversationServiceOptions{
		Repo:   conversationRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build conversation service: %w", err)
	}

	messages, err := service.NewMessageService(service.MessageServiceOptions{
		Repo:          messageRepo,
		Conversations: conversationRepo,
		Logger:        logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build message service: %w", err)
	}

	summaries, err := service.NewSummaryService(service.SummaryServiceOptions{
		Store:         store,
		Queue:         pool,
		Conversations: conversationRepo,
		Cache:         cache,
		Logger:        logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build summary service: %w", err)
	}

	return ServiceContainer{
		Conversations: conversations,
		Messages:      messages,
		Summaries:     summaries,
		SummaryStore:  store,
		SummaryPool:   pool,
		Verifier:      verifier,
		Observability: ObservabilityContainer{MetricsSink: metricsSink},
	}, nil
}

func buildMetricsSink(logger *slog.Logger, cfg config.ObservabilityConfig) (*statsd.Client, error) {
	sink, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Metrics.IsEnabled(),
		Address: cfg.Metrics.StatsdAddress,
		Prefix:  "messaging",
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build statsd client: %w", err)
	}
	if cfg.Metrics.IsEnabled() {
		logger.Info("metrics emission enabled", "statsd_address", cfg.Metrics.StatsdAddress)
	}
	return sink, nil
}

// ServiceOrchestrationConfig groups everything RunServicesWithShutdown needs.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts all enabled services and manages their
// lifecycle. It blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	errCh := make(chan error, len(enabled)+1)

	var httpServer *http.Server
	if enabled[config.ServiceModeHTTP] {
		httpServer = StartHTTPServer(&HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			Logger:   logger,
		})
	}

	var poolDone chan struct{}
	if enabled[config.ServiceModeSummaryWorker] {
		poolDone = make(chan struct{})
		go func() {
			defer close(poolDone)
			if runErr := cfg.Services.SummaryPool.Run(serviceCtx); runErr != nil && !errors.Is(runErr, context.Canceled) {
				errCh <- fmt.Errorf("summary worker pool: %w", runErr)
			}
		}()
	}

	return waitForShutdown(shutdownDeps{
		ctx:        serviceCtx,
		cancel:     cancel,
		errCh:      errCh,
		httpServer: httpServer,
		poolDone:   poolDone,
		metrics:    cfg.Services.Observability.MetricsSink,
		logger:     logger,
	})
}

type shutdownDeps struct {
	ctx        context.Context
	cancel     context.CancelFunc
	errCh      <-chan error
	httpServer *http.Server
	poolDone   <-chan struct{}
	metrics    *statsd.Client
	logger     *slog.Logger
}

// waitForShutdown waits for a shutdown signal or service error.
func waitForShutdown(deps shutdownDeps) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		deps.logger.Info("shutting down services...")
		deps.cancel()
		return gracefulStop(deps)
	case err := <-deps.errCh:
		deps.logger.Error("service error", "error", err)
		deps.cancel()
		if stopErr := gracefulStop(deps); stopErr != nil {
			deps.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(deps shutdownDeps) error {
	if deps.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
		defer cancel()

		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  deps.httpServer,
			Logger:  deps.logger,
		}); err != nil {
			return err
		}
	}

	if deps.poolDone != nil {
		select {
		case <-deps.poolDone:
			deps.logger.Info("summary worker pool stopped")
		case <-time.After(shutdownWaitTimeout):
			deps.logger.Warn("timeout waiting for summary worker pool to stop")
		}
	}

	if deps.metrics != nil {
		if err := deps.metrics.Close(); err != nil {
			deps.logger.Warn("close metrics sink", "error", err)
		}
	}

	return nil
}
