// Package metrics accumulates per-request outcomes into batch totals,
// independent of which concurrency strategy produced them.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/asbench/asbench/internal/transport"
)

// BatchMetrics summarizes one dispatch batch.
type BatchMetrics struct {
	TotalRequests int
	ErrorCount    int
	Elapsed       time.Duration
}

// Throughput returns requests per second over the batch wall-clock time.
func (m BatchMetrics) Throughput() float64 {
	if m.Elapsed <= 0 {
		return 0
	}
	return float64(m.TotalRequests) / m.Elapsed.Seconds()
}

// ErrorRate returns the fraction of requests that failed.
func (m BatchMetrics) ErrorRate() float64 {
	if m.TotalRequests == 0 {
		return 0
	}
	return float64(m.ErrorCount) / float64(m.TotalRequests)
}

// Collector accumulates outcomes. Counters are atomic and the latency
// histogram is mutex protected, so outcomes may arrive interleaved from
// concurrent workers or strictly ordered from a serial loop; the accounting
// is identical either way.
type Collector struct {
	total  atomic.Int64
	errors atomic.Int64

	// Latency range 1µs to 1 hour, 3 significant figures.
	hist   *hdrhistogram.Histogram
	histMu sync.Mutex
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		hist: hdrhistogram.New(1, time.Hour.Microseconds(), 3),
	}
}

// Observe records one outcome. Each outcome must be observed exactly once.
func (c *Collector) Observe(o transport.Outcome) {
	c.total.Add(1)
	if !o.OK {
		c.errors.Add(1)
	}
	if o.Duration > 0 {
		c.histMu.Lock()
		_ = c.hist.RecordValue(o.Duration.Microseconds())
		c.histMu.Unlock()
	}
}

// Metrics produces the batch totals for the wall-clock window [start, end].
func (c *Collector) Metrics(start, end time.Time) BatchMetrics {
	return BatchMetrics{
		TotalRequests: int(c.total.Load()),
		ErrorCount:    int(c.errors.Load()),
		Elapsed:       end.Sub(start),
	}
}

// LatencySummary holds per-request latency statistics for one batch.
type LatencySummary struct {
	Mean time.Duration
	P50  time.Duration
	P95  time.Duration
	P99  time.Duration
}

// Latency summarizes the recorded per-request latencies.
func (c *Collector) Latency() LatencySummary {
	c.histMu.Lock()
	defer c.histMu.Unlock()
	return LatencySummary{
		Mean: time.Duration(c.hist.Mean()) * time.Microsecond,
		P50:  time.Duration(c.hist.ValueAtQuantile(50)) * time.Microsecond,
		P95:  time.Duration(c.hist.ValueAtQuantile(95)) * time.Microsecond,
		P99:  time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond,
	}
}

// LatencyPercentile returns the recorded latency at the given percentile,
// e.g. 50, 95, 99.
func (c *Collector) LatencyPercentile(p float64) time.Duration {
	c.histMu.Lock()
	defer c.histMu.Unlock()
	return time.Duration(c.hist.ValueAtQuantile(p)) * time.Microsecond
}
