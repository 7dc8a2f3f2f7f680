package dispatch

import (
	"context"
	"time"

	"github.com/asbench/asbench/internal/metrics"
	"github.com/asbench/asbench/internal/reduction"
	"github.com/asbench/asbench/internal/transport"
	"github.com/asbench/asbench/pkg/log"
)

// Result is the outcome of one dispatch batch.
type Result struct {
	Metrics  metrics.BatchMetrics
	Latency  metrics.LatencySummary
	Outcomes []transport.Outcome
}

// Run executes one batch: validate the plan and request, open the shared
// session, dispatch under the plan's strategy, and aggregate outcomes.
//
// Validation errors abort the batch before any network activity. Once
// dispatch starts, the batch always completes: per-request failures are
// reported through the metrics, never by aborting. The session is released
// when dispatch completes regardless of what happened.
func Run(ctx context.Context, plan *Plan, req *reduction.Request) (*Result, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if _, err := req.Build(); err != nil {
		return nil, err
	}

	strategy, err := New(plan.Strategy)
	if err != nil {
		return nil, err
	}

	sess, err := transport.NewSession(plan.SessionConfig())
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	build := func() (map[string]interface{}, error) {
		return req.Build()
	}

	log.Debug().
		Str("strategy", string(plan.Strategy)).
		Int("num_requests", plan.NumRequests).
		Int("concurrency", plan.Concurrency).
		Str("url", plan.TargetURL).
		Msg("dispatching batch")

	collector := metrics.NewCollector()
	start := time.Now()
	outcomes := strategy.Dispatch(ctx, plan, build, sess)
	end := time.Now()

	for _, outcome := range outcomes {
		collector.Observe(outcome)
	}

	return &Result{
		Metrics:  collector.Metrics(start, end),
		Latency:  collector.Latency(),
		Outcomes: outcomes,
	}, nil
}
