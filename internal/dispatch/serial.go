package dispatch

import (
	"context"

	"github.com/asbench/asbench/internal/transport"
)

// Serial issues requests one at a time on a single execution path. A failed
// request does not stop the remainder of the batch.
type Serial struct{}

func (s *Serial) Type() Type {
	return TypeSerial
}

func (s *Serial) Dispatch(ctx context.Context, plan *Plan, build PayloadFactory, sess *transport.Session) []transport.Outcome {
	outcomes := make([]transport.Outcome, 0, plan.NumRequests)
	for i := 0; i < plan.NumRequests; i++ {
		outcomes = append(outcomes, send(ctx, plan, build, sess))
	}
	return outcomes
}
