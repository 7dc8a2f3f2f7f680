// Package output renders reduction results and batch summaries for the
// terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/asbench/asbench/internal/metrics"
	"github.com/asbench/asbench/internal/transport"
)

// ColorScheme defines the colors used for different elements in the output.
type ColorScheme struct {
	StatusOK    *color.Color
	StatusError *color.Color
	HeaderKey   *color.Color
	HeaderValue *color.Color
	Highlight   *color.Color
}

// DefaultColorScheme returns the default color scheme.
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		StatusOK:    color.New(color.FgGreen, color.Bold),
		StatusError: color.New(color.FgRed, color.Bold),
		HeaderKey:   color.New(color.FgYellow),
		HeaderValue: color.New(color.FgWhite),
		Highlight:   color.New(color.FgMagenta, color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled.
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	scheme.StatusOK.DisableColor()
	scheme.StatusError.DisableColor()
	scheme.HeaderKey.DisableColor()
	scheme.HeaderValue.DisableColor()
	scheme.Highlight.DisableColor()
	return scheme
}

// Console writes formatted results to a terminal or plain writer.
type Console struct {
	w       io.Writer
	scheme  *ColorScheme
	verbose bool
}

// NewConsole creates a console writer. Colors are disabled when requested or
// when stdout is not a terminal.
func NewConsole(verbose, noColor bool) *Console {
	if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		return &Console{w: os.Stdout, scheme: NoColorScheme(), verbose: verbose}
	}
	return &Console{w: os.Stdout, scheme: DefaultColorScheme(), verbose: verbose}
}

// NewConsoleWriter creates a color-free console writing to w. Used by tests.
func NewConsoleWriter(w io.Writer, verbose bool) *Console {
	return &Console{w: w, scheme: NoColorScheme(), verbose: verbose}
}

// PrintResult decodes and prints a successful reduction result.
func (c *Console) PrintResult(o transport.Outcome) error {
	arr, err := DecodeArray(o.Headers, o.Body)
	if err != nil {
		return err
	}
	if c.verbose {
		fmt.Fprintln(c.w, "\nResponse headers:")
		keys := make([]string, 0, len(o.Headers))
		for k := range o.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			c.scheme.HeaderKey.Fprintf(c.w, "  %s: ", k)
			c.scheme.HeaderValue.Fprintln(c.w, o.Headers.Get(k))
		}
		if arr.Counts != nil {
			fmt.Fprintf(c.w, "\nNon-missing count(s): %v\n", arr.Counts)
		}
		fmt.Fprint(c.w, "\nResult: ")
	}
	fmt.Fprintln(c.w, arr.String())
	return nil
}

// PrintError prints the status line and decoded error detail of a failed
// outcome.
func (c *Console) PrintError(o transport.Outcome) {
	if o.Err != nil {
		c.scheme.StatusError.Fprintf(c.w, "Failed! %v\n", o.Err)
		return
	}
	c.scheme.StatusError.Fprintf(c.w, "%d %s\n", o.StatusCode, o.Reason)
	if detail := o.ErrorDetail(); detail != "" {
		fmt.Fprintln(c.w, detail)
	}
}

// PrintSummary prints the batch summary line.
func (c *Console) PrintSummary(m metrics.BatchMetrics) {
	c.scheme.Highlight.Fprintf(c.w, "Performed %d requests (%.2f req/s) in %.2fs with %d (%.2f%%) errors\n",
		m.TotalRequests, m.Throughput(), m.Elapsed.Seconds(), m.ErrorCount, 100*m.ErrorRate())
}

// PrintLatency prints the per-request latency summary.
func (c *Console) PrintLatency(l metrics.LatencySummary) {
	fmt.Fprintf(c.w, "Latency: mean=%s p50=%s p95=%s p99=%s\n", l.Mean, l.P50, l.P95, l.P99)
}
