package transport_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/asbench/asbench/internal/transport"
)

func TestClassifyStatusCodes(t *testing.T) {
	tests := []struct {
		status int
		ok     bool
		reason string
	}{
		{200, true, "OK"},
		{204, true, "No Content"},
		{301, false, "Moved Permanently"},
		{400, false, "Bad Request"},
		{401, false, "Unauthorized"},
		{500, false, "Internal Server Error"},
	}
	for _, tt := range tests {
		resp := &http.Response{StatusCode: tt.status, Proto: "HTTP/1.1", Header: http.Header{}}
		outcome := transport.Classify(resp, nil)
		if outcome.OK != tt.ok {
			t.Errorf("Classify(%d).OK = %v, want %v", tt.status, outcome.OK, tt.ok)
		}
		if outcome.Reason != tt.reason {
			t.Errorf("Classify(%d).Reason = %q, want %q", tt.status, outcome.Reason, tt.reason)
		}
	}
}

func TestErrorDetailStructuredBody(t *testing.T) {
	resp := &http.Response{StatusCode: 400, Proto: "HTTP/1.1", Header: http.Header{}}
	body := []byte(`{"error": {"message": "request data is not valid", "caused_by": ["missing field"]}}`)
	outcome := transport.Classify(resp, body)
	if got := outcome.ErrorDetail(); got != "request data is not valid" {
		t.Errorf("ErrorDetail() = %q", got)
	}
}

func TestErrorDetailRawFallback(t *testing.T) {
	resp := &http.Response{StatusCode: 502, Proto: "HTTP/1.1", Header: http.Header{}}
	body := []byte("<html>bad gateway</html>")
	outcome := transport.Classify(resp, body)
	if got := outcome.ErrorDetail(); got != "<html>bad gateway</html>" {
		t.Errorf("ErrorDetail() = %q", got)
	}
}

func TestFailureFromError(t *testing.T) {
	err := errors.New("connection refused")
	outcome := transport.FailureFromError(err)
	if outcome.OK {
		t.Error("FailureFromError produced a success outcome")
	}
	if outcome.ErrorDetail() != "connection refused" {
		t.Errorf("ErrorDetail() = %q", outcome.ErrorDetail())
	}
}
