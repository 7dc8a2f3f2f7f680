package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asbench/asbench/internal/benchconfig"
	"github.com/asbench/asbench/internal/dispatch"
	"github.com/asbench/asbench/internal/output"
	"github.com/asbench/asbench/internal/reduction"
	"github.com/asbench/asbench/internal/transport"
)

var benchCmd = &cobra.Command{
	Use:   "bench [OPERATION]",
	Short: "Dispatch a batch of identical reduction requests",
	Long: `Dispatch many copies of the same reduction request against the server under
one of three concurrency strategies, and report throughput and error rate.

Strategies:
  serial          one request at a time (default)
  worker-pool     a fixed pool of workers, selected by --num-threads
  gather          all requests at once, bounded only by the connection pool,
                  selected by --gather

Per-request failures are reported through the summary metrics; the batch
itself always completes.

Config file mode:
  asbench bench --config plan.yaml

Flag mode:
  asbench bench sum \
    --server http://localhost:8080 \
    --source http://localhost:9000 \
    --username minioadmin --password minioadmin \
    --bucket sample-data --object data-uint32.dat \
    --dtype uint32 \
    --num-requests 100 --num-threads 8`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configFile, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")
		noColor, _ := cmd.Flags().GetBool("no-color")

		var plan *dispatch.Plan
		var req *reduction.Request
		var err error

		if configFile != "" {
			plan, req, err = planFromFile(configFile)
		} else if len(args) == 1 {
			plan, req, err = planFromFlags(cmd, args[0])
		} else {
			fmt.Fprintln(os.Stderr, "Error: either --config or an OPERATION argument is required")
			cmd.Help()
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		result, err := dispatch.Run(context.Background(), plan, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		console := output.NewConsole(verbose, noColor)
		if verbose {
			for _, outcome := range result.Outcomes {
				if !outcome.OK {
					console.PrintError(outcome)
				}
			}
		}
		console.PrintSummary(result.Metrics)
		if verbose {
			console.PrintLatency(result.Latency)
		}
	},
}

func planFromFile(path string) (*dispatch.Plan, *reduction.Request, error) {
	file, err := benchconfig.Load(path)
	if err != nil {
		return nil, nil, err
	}
	plan, err := file.ToPlan()
	if err != nil {
		return nil, nil, err
	}
	req, err := file.ToRequest()
	if err != nil {
		return nil, nil, err
	}
	return plan, req, nil
}

func planFromFlags(cmd *cobra.Command, operation string) (*dispatch.Plan, *reduction.Request, error) {
	for _, name := range []string{"server", "source", "username", "password", "bucket", "object", "dtype"} {
		if v, _ := cmd.Flags().GetString(name); v == "" {
			return nil, nil, fmt.Errorf("required flag --%s not set", name)
		}
	}

	req, err := requestFromFlags(cmd)
	if err != nil {
		return nil, nil, err
	}

	server, _ := cmd.Flags().GetString("server")
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	cacert, _ := cmd.Flags().GetString("cacert")
	numRequests, _ := cmd.Flags().GetInt("num-requests")
	numThreads, _ := cmd.Flags().GetInt("num-threads")
	gather, _ := cmd.Flags().GetBool("gather")
	connLimit, _ := cmd.Flags().GetInt("connection-limit")
	http2, _ := cmd.Flags().GetBool("http2")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	plan := &dispatch.Plan{
		TargetURL:    transport.RequestURL(strings.TrimRight(server, "/"), operation),
		NumRequests:  numRequests,
		Strategy:     dispatch.TypeSerial,
		HTTP2:        http2,
		RequireHTTP2: http2,
		Username:     username,
		Password:     password,
		CACert:       cacert,
		Timeout:      timeout,
	}
	switch {
	case numThreads > 0:
		plan.Strategy = dispatch.TypeWorkerPool
		plan.Concurrency = numThreads
	case gather:
		plan.Strategy = dispatch.TypeGather
		plan.Concurrency = connLimit
	}
	return plan, req, nil
}

func init() {
	addRequestFlags(benchCmd)
	benchCmd.Flags().String("config", "", "YAML bench plan file")
	benchCmd.Flags().Int("num-requests", 1, "number of requests in the batch")
	benchCmd.Flags().Int("num-threads", 0, "dispatch from a fixed pool of this many workers")
	benchCmd.Flags().Bool("gather", false, "dispatch all requests at once, bounded by the connection pool")
	benchCmd.Flags().Int("connection-limit", transport.DefaultConnLimit, "connection pool bound for gather dispatch")
	benchCmd.Flags().Bool("http2", false, "prefer HTTP/2; fallback to HTTP/1.1 counts as a failure")
	benchCmd.Flags().Duration("timeout", 0, "per-request timeout (0 means none)")
}
