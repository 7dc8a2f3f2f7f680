package transport

import (
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// Outcome is the materialized result of one dispatched request. Errors never
// propagate past the dispatch boundary; every request produces exactly one
// Outcome, consumed once by the metrics collector.
type Outcome struct {
	OK         bool
	StatusCode int
	Reason     string // standard reason phrase, e.g. "Internal Server Error"
	Proto      string // negotiated protocol, e.g. "HTTP/1.1" or "HTTP/2.0"
	Headers    http.Header
	Body       []byte
	Err        error // transport or strategy fault; nil when a response arrived
	Duration   time.Duration
}

// Classify decides success or failure from status-code semantics alone:
// any 2xx status is a success.
func Classify(resp *http.Response, body []byte) Outcome {
	return Outcome{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		Reason:     http.StatusText(resp.StatusCode),
		Proto:      resp.Proto,
		Headers:    resp.Header,
		Body:       body,
	}
}

// FailureFromError wraps a transport or strategy fault as a Failure outcome.
func FailureFromError(err error) Outcome {
	return Outcome{OK: false, Err: err}
}

// ErrorDetail returns a human-readable description of a failure: the message
// from a structured JSON error body when the server sent one, otherwise the
// raw payload, otherwise the underlying error.
func (o Outcome) ErrorDetail() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	if msg := gjson.GetBytes(o.Body, "error.message"); msg.Exists() {
		return msg.String()
	}
	return string(o.Body)
}
