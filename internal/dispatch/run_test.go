package dispatch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asbench/asbench/internal/dispatch"
	"github.com/asbench/asbench/internal/reduction"
)

func testRequest() *reduction.Request {
	return &reduction.Request{
		Source: "http://localhost:9000",
		Bucket: "sample-data",
		Object: "data-uint32.dat",
		Dtype:  "uint32",
	}
}

func TestRunEndToEnd(t *testing.T) {
	var seen atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if int(seen.Add(1))%5 == 0 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": {"message": "boom"}}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	for _, strategy := range []dispatch.Type{dispatch.TypeSerial, dispatch.TypeWorkerPool, dispatch.TypeGather} {
		strategy := strategy
		t.Run(string(strategy), func(t *testing.T) {
			seen.Store(0)
			plan := &dispatch.Plan{
				TargetURL:   server.URL,
				NumRequests: 20,
				Strategy:    strategy,
				Concurrency: 4,
			}

			result, err := dispatch.Run(context.Background(), plan, testRequest())
			require.NoError(t, err)

			assert.Equal(t, 20, result.Metrics.TotalRequests)
			assert.Equal(t, 4, result.Metrics.ErrorCount)
			assert.Len(t, result.Outcomes, 20)
			assert.Greater(t, result.Metrics.Elapsed.Seconds(), 0.0)
			assert.InDelta(t, 0.2, result.Metrics.ErrorRate(), 1e-9)
			assert.Equal(t,
				float64(result.Metrics.TotalRequests)/result.Metrics.Elapsed.Seconds(),
				result.Metrics.Throughput())
		})
	}
}

// A conflicting missing-value policy must abort the batch before any request
// reaches the network.
func TestRunValidationAbortsBeforeNetwork(t *testing.T) {
	var seen atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	req := testRequest()
	req.Missing = &reduction.Missing{ValidMin: int64(0), ValidMax: int64(100)}

	plan := &dispatch.Plan{TargetURL: server.URL, NumRequests: 10, Strategy: dispatch.TypeSerial}
	_, err := dispatch.Run(context.Background(), plan, req)
	require.Error(t, err)

	var verr *reduction.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Zero(t, seen.Load(), "validation error still reached the network")
}

func TestRunRejectsInvalidPlan(t *testing.T) {
	plan := &dispatch.Plan{TargetURL: "http://localhost:1", NumRequests: 0, Strategy: dispatch.TypeSerial}
	_, err := dispatch.Run(context.Background(), plan, testRequest())
	require.Error(t, err)

	var verr *dispatch.ValidationError
	assert.ErrorAs(t, err, &verr)
}
