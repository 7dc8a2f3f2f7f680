package dispatch

import (
	"context"
	"sync"

	"github.com/asbench/asbench/internal/transport"
)

// Gather starts every request in the batch at once and waits for all of them
// together. Admission control is solely the session's connection-pool bound:
// requests beyond the bound queue for a connection rather than being
// rejected, so the in-flight request count may exceed the open connection
// count without deadlock.
type Gather struct{}

func (g *Gather) Type() Type {
	return TypeGather
}

func (g *Gather) Dispatch(ctx context.Context, plan *Plan, build PayloadFactory, sess *transport.Session) []transport.Outcome {
	results := make(chan transport.Outcome, plan.NumRequests)

	var wg sync.WaitGroup
	for i := 0; i < plan.NumRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- send(ctx, plan, build, sess)
		}()
	}
	wg.Wait()
	close(results)

	outcomes := make([]transport.Outcome, 0, plan.NumRequests)
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}
