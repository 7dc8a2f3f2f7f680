package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asbench/asbench/internal/output"
	"github.com/asbench/asbench/internal/transport"
	"github.com/asbench/asbench/pkg/log"
)

var requestCmd = &cobra.Command{
	Use:   "request OPERATION",
	Short: "Make a single reduction request",
	Long: `Make one reduction request against the active storage server and print the
result array. Any failure is fatal: the command prints the error and exits
with status 1.

Example usage with minio and sum of uint32 sample data:

  asbench request sum \
    --server http://localhost:8080 \
    --source http://localhost:9000 \
    --username minioadmin --password minioadmin \
    --bucket sample-data --object data-uint32.dat \
    --dtype uint32`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		operation := args[0]
		server, _ := cmd.Flags().GetString("server")
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		cacert, _ := cmd.Flags().GetString("cacert")
		verbose, _ := cmd.Flags().GetBool("verbose")
		noColor, _ := cmd.Flags().GetBool("no-color")

		req, err := requestFromFlags(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		payload, err := req.Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log.Debug().Interface("payload", payload).Msg("request data")

		sess, err := transport.NewSession(transport.Config{
			Username: username,
			Password: password,
			CACert:   cacert,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer sess.Close()

		url := transport.RequestURL(strings.TrimRight(server, "/"), operation)
		outcome := sess.Send(context.Background(), url, payload)

		console := output.NewConsole(verbose, noColor)
		if !outcome.OK {
			console.PrintError(outcome)
			os.Exit(1)
		}
		if err := console.PrintResult(outcome); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	addRequestFlags(requestCmd)
	markRequestFlagsRequired(requestCmd)
	requestCmd.Flags().String("axis", "", "reduction axis as JSON")
}
