// Package transport owns the authenticated HTTP session shared by every
// request in a dispatch batch, and the classification of request outcomes.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
)

// ProtoHTTP2 is the protocol string reported for negotiated HTTP/2.
const ProtoHTTP2 = "HTTP/2.0"

// DefaultConnLimit bounds simultaneously open connections per host. Requests
// beyond the bound queue for a connection; they are never rejected.
const DefaultConnLimit = 1000

// Config configures a Session.
type Config struct {
	Username string
	Password string

	// CACert is a path to a PEM bundle. When set, only that bundle is
	// trusted; otherwise the system trust store is used.
	CACert string

	// ConnLimit caps simultaneously open connections per host.
	// Zero means DefaultConnLimit.
	ConnLimit int

	// PreferHTTP2 attempts HTTP/2 via TLS ALPN, falling back to HTTP/1.1
	// when the server or network path does not support it.
	PreferHTTP2 bool

	// RequireProto, when non-empty, classifies an otherwise-successful
	// response that did not negotiate the given protocol as a failure.
	RequireProto string

	// Timeout applies per request. Zero means no deadline beyond what the
	// transport layer enforces transparently.
	Timeout time.Duration
}

// Session holds one reusable authenticated connection pool, shared by every
// request in a batch regardless of concurrency strategy. It is safe for
// concurrent use.
type Session struct {
	client *http.Client
	config Config
}

// NewSession creates the batch-scoped session. Callers must Close it when
// dispatch completes.
func NewSession(cfg Config) (*Session, error) {
	tlsConfig := &tls.Config{}
	if cfg.CACert != "" {
		pem, err := os.ReadFile(cfg.CACert)
		if err != nil {
			return nil, fmt.Errorf("reading CA bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.CACert)
		}
		tlsConfig.RootCAs = pool
	}

	limit := cfg.ConnLimit
	if limit <= 0 {
		limit = DefaultConnLimit
	}

	tr := &http.Transport{
		TLSClientConfig:     tlsConfig,
		MaxConnsPerHost:     limit,
		MaxIdleConns:        limit,
		MaxIdleConnsPerHost: limit,
		ForceAttemptHTTP2:   cfg.PreferHTTP2,
	}
	if cfg.PreferHTTP2 {
		if err := http2.ConfigureTransport(tr); err != nil {
			return nil, fmt.Errorf("configuring HTTP/2: %w", err)
		}
	}

	return &Session{
		client: &http.Client{Transport: tr, Timeout: cfg.Timeout},
		config: cfg,
	}, nil
}

// Send posts one JSON payload and materializes the result as an Outcome.
// It never returns an error: transport faults become Failure outcomes.
func (s *Session) Send(ctx context.Context, url string, payload map[string]interface{}) Outcome {
	start := time.Now()

	body, err := json.Marshal(payload)
	if err != nil {
		return FailureFromError(fmt.Errorf("encoding request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return FailureFromError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.config.Username, s.config.Password)

	resp, err := s.client.Do(req)
	if err != nil {
		outcome := FailureFromError(err)
		outcome.Duration = time.Since(start)
		return outcome
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome := FailureFromError(fmt.Errorf("reading response: %w", err))
		outcome.Duration = time.Since(start)
		return outcome
	}

	outcome := Classify(resp, raw)
	outcome.Duration = time.Since(start)

	// A required protocol that was not in fact negotiated is an observable
	// failure, not a silent fallback.
	if outcome.OK && s.config.RequireProto != "" && outcome.Proto != s.config.RequireProto {
		outcome.OK = false
		outcome.Err = fmt.Errorf("negotiated %s, required %s", outcome.Proto, s.config.RequireProto)
	}
	return outcome
}

// RequestURL builds the endpoint URL for an operation, matching the server's
// POST {server}/v1/{operation}/ route.
func RequestURL(server, operation string) string {
	return fmt.Sprintf("%s/v1/%s/", server, operation)
}

// Close releases all pooled connections.
func (s *Session) Close() {
	s.client.CloseIdleConnections()
}
