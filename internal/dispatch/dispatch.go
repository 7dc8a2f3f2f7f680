// Package dispatch issues batches of reduction requests under
// interchangeable concurrency strategies.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/asbench/asbench/internal/transport"
)

// Type identifies a concurrency strategy.
type Type string

const (
	// TypeSerial issues requests one at a time, fully blocking.
	TypeSerial Type = "serial"

	// TypeWorkerPool issues requests from a fixed pool of workers.
	TypeWorkerPool Type = "worker-pool"

	// TypeGather starts every request at once; the session's connection
	// pool bound is the only admission control.
	TypeGather Type = "gather"
)

// PayloadFactory serializes a fresh payload for each request in a batch.
// Payloads for the same logical request may vary call to call.
type PayloadFactory func() (map[string]interface{}, error)

// Strategy governs how a batch of identical requests is issued against the
// shared session and how their outcomes are collected.
//
// For a batch of NumRequests, every implementation produces exactly
// NumRequests outcomes; no single failure short-circuits the rest.
type Strategy interface {
	Type() Type
	Dispatch(ctx context.Context, plan *Plan, build PayloadFactory, sess *transport.Session) []transport.Outcome
}

// Plan describes one dispatch batch.
type Plan struct {
	TargetURL   string
	NumRequests int
	Strategy    Type

	// Concurrency is the worker count for worker-pool dispatch and the
	// connection-pool bound for gather dispatch. Serial dispatch ignores it.
	Concurrency int

	// HTTP2 prefers HTTP/2 with negotiated fallback; RequireHTTP2
	// additionally classifies any response that fell back as a failure.
	HTTP2        bool
	RequireHTTP2 bool

	Username string
	Password string
	CACert   string
	Timeout  time.Duration
}

// Validate checks the plan before any network activity.
func (p *Plan) Validate() error {
	if p.TargetURL == "" {
		return &ValidationError{Field: "target_url", Message: "target URL is required"}
	}
	if p.NumRequests < 1 {
		return &ValidationError{Field: "num_requests", Message: "num_requests must be >= 1"}
	}
	switch p.Strategy {
	case TypeSerial, TypeGather:
	case TypeWorkerPool:
		if p.Concurrency <= 0 {
			return &ValidationError{Field: "concurrency", Message: "worker-pool dispatch needs concurrency > 0"}
		}
	default:
		return &ValidationError{Field: "strategy", Message: "unknown strategy: " + string(p.Strategy)}
	}
	return nil
}

// SessionConfig derives the transport configuration for this plan.
func (p *Plan) SessionConfig() transport.Config {
	cfg := transport.Config{
		Username:    p.Username,
		Password:    p.Password,
		CACert:      p.CACert,
		PreferHTTP2: p.HTTP2,
		Timeout:     p.Timeout,
	}
	if p.Strategy == TypeGather {
		cfg.ConnLimit = p.Concurrency
	}
	if p.RequireHTTP2 {
		cfg.RequireProto = transport.ProtoHTTP2
	}
	return cfg
}

// New creates the strategy for the given type.
func New(t Type) (Strategy, error) {
	switch t {
	case TypeSerial:
		return &Serial{}, nil
	case TypeWorkerPool:
		return &WorkerPool{}, nil
	case TypeGather:
		return &Gather{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy: %s", t)
	}
}

// ValidationError reports an invalid plan field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error on field '" + e.Field + "': " + e.Message
}

// send issues a single request, converting payload-construction failures and
// panics into Failure outcomes so a fault never aborts the batch.
func send(ctx context.Context, plan *Plan, build PayloadFactory, sess *transport.Session) (out transport.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = transport.FailureFromError(fmt.Errorf("request fault: %v", r))
		}
	}()
	payload, err := build()
	if err != nil {
		return transport.FailureFromError(err)
	}
	return sess.Send(ctx, plan.TargetURL, payload)
}
