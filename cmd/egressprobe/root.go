package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/egressprobe/pkg/cli"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "egressprobe",
	Short: "Egressprobe - Jira/Confluence connectivity diagnostics for AKS pods",
	Long: `Egressprobe checks, step by step, whether a pod can reach its Jira and
Confluence servers:

  - Hostname extraction and DNS resolution
  - Raw TCP on the HTTP and HTTPS ports
  - Unauthenticated HTTP and HTTPS requests, with and without verification
  - A token-authenticated API request
  - TLS certificate details

Failed probes are reported, never fatal. Without a subcommand it behaves like
"egressprobe run".`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDiagnostics,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return cli.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (optional; environment variables are enough)")

	addRunFlags(rootCmd)
}
