package cli

import (
	"github.com/spf13/cobra"

	"github.com/asbench/asbench/pkg/log"
)

var version = "0.1.0"

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:     "asbench",
	Short:   "Benchmarking client for active storage reduction servers",
	Version: version,
	Long: `Asbench issues array-reduction requests against an active storage server,
either one at a time or as concurrent batches, and reports throughput and
error-rate metrics. It can also generate and upload the sample data the
server's reductions operate on.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")
		if err := log.SetFormat(format); err != nil {
			return err
		}
		return log.SetLevelString(level)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	RootCmd.PersistentFlags().String("log-format", "pretty", "log format (pretty, json)")

	RootCmd.AddCommand(requestCmd)
	RootCmd.AddCommand(benchCmd)
	RootCmd.AddCommand(uploadCmd)
}
