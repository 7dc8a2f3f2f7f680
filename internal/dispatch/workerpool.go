package dispatch

import (
	"context"
	"sync"

	"github.com/asbench/asbench/internal/transport"
)

// WorkerPool issues requests from a fixed pool of Concurrency workers fed by
// a job channel. Outcomes are collected in completion order, and the pool is
// fully drained before Dispatch returns.
type WorkerPool struct{}

func (w *WorkerPool) Type() Type {
	return TypeWorkerPool
}

func (w *WorkerPool) Dispatch(ctx context.Context, plan *Plan, build PayloadFactory, sess *transport.Session) []transport.Outcome {
	jobs := make(chan struct{})
	results := make(chan transport.Outcome)

	var wg sync.WaitGroup
	for i := 0; i < plan.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				results <- send(ctx, plan, build, sess)
			}
		}()
	}

	go func() {
		for i := 0; i < plan.NumRequests; i++ {
			jobs <- struct{}{}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	outcomes := make([]transport.Outcome, 0, plan.NumRequests)
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}
