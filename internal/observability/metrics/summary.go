// Package metrics contains helpers for emitting standardised service metrics.
package metrics

import (
	"time"

	"github.com/lionswap/messaging-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// SummaryMetric captures details about a summary job lifecycle event.
type SummaryMetric struct {
	Transition string
	Result     string
	Duration   time.Duration
	Err        error
}

// EmitSummaryLifecycle emits standardised summary job lifecycle metrics.
func EmitSummaryLifecycle(sink statsd.Sink, in SummaryMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"transition": in.Transition,
		"result":     in.Result,
	}

	sink.Count("summary.transition", 1, tags)

	if in.Duration > 0 {
		sink.Timing("summary.duration", in.Duration, CloneTags(tags))
	}
}

// EmitQueueDepth records the current depth of the summary work queue.
func EmitQueueDepth(sink statsd.Sink, depth int) {
	if sink == nil {
		return
	}
	sink.Gauge("summary.queue_depth", float64(depth), nil)
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if k == "" {
			continue
		}
		out[k] = v
	}
	return out
}
