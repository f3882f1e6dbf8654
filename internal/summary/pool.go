package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lionswap/messaging-api/internal/domain/model"
	"github.com/lionswap/messaging-api/internal/observability/metrics"
	"github.com/lionswap/messaging-api/internal/observability/statsd"
)

// ErrQueueFull is returned by Enqueue when the bounded work queue is at
// capacity. Submitters surface it as a transient busy signal rather than
// accepting unbounded pending work.
var ErrQueueFull = errors.New("summary queue full")

// ComputeFunc performs the summary computation for one job. The computation
// is opaque to the pool; the pool's contract is only about the state
// transitions around it. A returned error marks the job failed.
type ComputeFunc func(ctx context.Context, job model.SummaryJob) (*model.SummaryResult, error)

const (
	defaultWorkers       = 4
	defaultQueueSize     = 64
	defaultJobTimeout    = 30 * time.Second
	defaultSweepInterval = time.Minute
)

// PoolOptions configures the summary worker pool.
type PoolOptions struct {
	Store   *Store      // Required: status store written through on every transition
	Compute ComputeFunc // Required: the job computation

	Workers    int           // fixed worker count; defaults to 4
	QueueSize  int           // bounded queue capacity; defaults to 64
	JobTimeout time.Duration // per-job execution deadline; defaults to 30s

	// Retention bounds memory over the process lifetime: terminal records
	// older than this are evicted periodically. Zero disables eviction.
	Retention     time.Duration
	SweepInterval time.Duration

	Logger  *slog.Logger
	Metrics statsd.Sink
}

// Pool executes submitted summary jobs on a fixed number of workers.
//
// Each job is claimed by exactly one worker: ids flow through a single
// channel, so a dequeued job has a single owner and its computation runs at
// most once. Per job the pool performs exactly two writes after creation,
// queued→running and running→terminal, in that order.
type Pool struct {
	store   *Store
	compute ComputeFunc
	queue   chan string

	workers       int
	jobTimeout    time.Duration
	retention     time.Duration
	sweepInterval time.Duration

	logger  *slog.Logger
	metrics statsd.Sink
}

// NewPool constructs a worker pool. It does not start workers; call Run.
func NewPool(opts PoolOptions) (*Pool, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.Compute == nil {
		return nil, errors.New("compute func is required")
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	queueSize := opts.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	jobTimeout := opts.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = defaultJobTimeout
	}
	sweepInterval := opts.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pool{
		store:         opts.Store,
		compute:       opts.Compute,
		queue:         make(chan string, queueSize),
		workers:       workers,
		jobTimeout:    jobTimeout,
		retention:     opts.Retention,
		sweepInterval: sweepInterval,
		logger:        logger.With("component", "summary_pool"),
		metrics:       opts.Metrics,
	}, nil
}

// Enqueue hands a created job to the pool without blocking. Excess load is
// rejected with ErrQueueFull instead of queueing unboundedly.
func (p *Pool) Enqueue(id string) error {
	select {
	case p.queue <- id:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run starts the workers and the retention sweeper and blocks until the
// context is cancelled. Jobs already claimed by a worker run to completion
// under their own deadline.
func (p *Pool) Run(ctx context.Context) error {
	p.logger.InfoContext(ctx, "starting summary workers",
		"workers", p.workers,
		"queue_capacity", cap(p.queue),
		"job_timeout", p.jobTimeout,
	)

	g, ctx := errgroup.WithContext(ctx)

	for range p.workers {
		g.Go(func() error {
			p.workerLoop(ctx)
			return nil
		})
	}

	if p.retention > 0 {
		g.Go(func() error {
			p.sweepLoop(ctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (p *Pool) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-p.queue:
			p.execute(ctx, id)
		}
	}
}

func (p *Pool) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(p.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := p.store.Sweep(p.retention); removed > 0 {
				p.logger.DebugContext(ctx, "evicted terminal summary records", "count", removed)
			}
		}
	}
}

// execute drives one job through running to a terminal state. Failures in
// the computation are recorded on the job and never propagate out of the
// worker goroutine, so a faulty job can not reduce pool capacity.
func (p *Pool) execute(ctx context.Context, id string) {
	job, err := p.store.Transition(id, model.JobStateRunning, nil)
	if err != nil {
		// The record was evicted or never created; nothing to run against.
		p.logger.ErrorContext(ctx, "claim summary job", "job_id", id, "error", err)
		return
	}

	start := time.Now()
	result, runErr := p.runCompute(ctx, job)

	if runErr != nil {
		msg := runErr.Error()
		if _, terr := p.store.Transition(id, model.JobStateFailed, func(j *model.SummaryJob) {
			j.Error = &msg
		}); terr != nil {
			p.logger.ErrorContext(ctx, "record summary failure", "job_id", id, "error", terr)
		}
		p.logger.WarnContext(ctx, "summary job failed",
			"job_id", id,
			"conversation_id", job.ConversationID,
			"error", runErr,
		)
		p.emit("failed", metrics.ResultError, time.Since(start), runErr)
		return
	}

	if _, terr := p.store.Transition(id, model.JobStateCompleted, func(j *model.SummaryJob) {
		j.Result = result
	}); terr != nil {
		p.logger.ErrorContext(ctx, "record summary completion", "job_id", id, "error", terr)
		p.emit("completed", metrics.ResultError, time.Since(start), terr)
		return
	}
	p.emit("completed", metrics.ResultSuccess, time.Since(start), nil)
}

// runCompute runs the computation under the per-job deadline and converts
// panics into job failures so the worker survives.
func (p *Pool) runCompute(ctx context.Context, job model.SummaryJob) (result *model.SummaryResult, err error) {
	runCtx, cancel := context.WithTimeout(ctx, p.jobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("summary computation panicked: %v", r)
		}
	}()

	result, err = p.compute(runCtx, job)
	if err == nil && runCtx.Err() != nil {
		// The computation returned after its deadline without noticing.
		result = nil
		err = fmt.Errorf("summary computation timed out after %s: %w", p.jobTimeout, runCtx.Err())
	}
	if err == nil && result == nil {
		err = errors.New("summary computation returned no result")
	}
	return result, err
}

func (p *Pool) emit(transition, result string, dur time.Duration, err error) {
	metrics.EmitSummaryLifecycle(p.metrics, metrics.SummaryMetric{
		Transition: transition,
		Result:     result,
		Duration:   dur,
		Err:        err,
	})
}
