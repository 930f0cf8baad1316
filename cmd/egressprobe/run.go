package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mercator-hq/egressprobe/pkg/cli"
	"mercator-hq/egressprobe/pkg/config"
	"mercator-hq/egressprobe/pkg/keepalive"
	"mercator-hq/egressprobe/pkg/probe"
	"mercator-hq/egressprobe/pkg/telemetry/logging"
)

var runFlags struct {
	envFile       string
	listenAddress string
	logLevel      string
	logFormat     string
	noKeepAlive   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Probe Jira and Confluence, then keep the pod alive",
	Long: `Run the connectivity diagnostics for every configured service and print
the report to stdout. Structured logs go to stderr.

Services are configured through JIRA_URL, JIRA_PERSONAL_TOKEN, CONFLUENCE_URL
and CONFLUENCE_PERSONAL_TOKEN. A service missing its URL or token is skipped.

After the report, an HTTP responder answers every GET with 200 until the
process receives SIGINT or SIGTERM.

Examples:
  # In a pod, with the variables injected by the manifest
  egressprobe run

  # From a workstation, reading variables from a dotenv file
  egressprobe run --env-file .env --no-keepalive

  # Debug logging as JSON
  egressprobe run --log-level debug --log-format json`,
	Args: cobra.NoArgs,
	RunE: runDiagnostics,
}

func init() {
	rootCmd.AddCommand(runCmd)

	addRunFlags(runCmd)
}

// addRunFlags registers the run flags on cmd. The root command carries them
// too, since running without a subcommand means "run".
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&runFlags.envFile, "env-file", "", "dotenv file to load before reading the environment")
	cmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override keep-alive listen address")
	cmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&runFlags.logFormat, "log-format", "", "override log format (text, json, console)")
	cmd.Flags().BoolVar(&runFlags.noKeepAlive, "no-keepalive", false, "exit after the diagnostics instead of serving")
}

func runDiagnostics(cmd *cobra.Command, args []string) error {
	ctx, cancel := cli.SetupSignalHandler(cmd.Context())
	defer cancel()

	return runWith(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// runWith loads configuration, runs the probes and serves the keep-alive
// responder until ctx is done. Probe failures and configuration problems are
// part of the report, not errors; only a bind failure is returned, so the pod
// stays up and its logs stay readable whatever it was given.
func runWith(ctx context.Context, stdout, stderr io.Writer) error {
	cfg, problems := loadRunConfig()

	logCfg := logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Redact:    true,
		Secrets:   cfg.Secrets(),
		Writer:    stderr,
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		problems = append(problems, fmt.Errorf("telemetry.logging: %w; using defaults", err))
		logCfg.Level, logCfg.Format = config.DefaultLogLevel, config.DefaultLogFormat
		if logger, err = logging.New(logCfg); err != nil {
			return cli.NewCommandError("run", err)
		}
	}

	ctx = logging.WithRunID(ctx, uuid.NewString())
	logger.InfoContext(ctx, "diagnostic run starting",
		"version", Version,
		"config", cfgFile,
		"keepalive", !cfg.KeepAlive.Disabled,
	)

	runner, err := newRunner(cfg, logger, stdout, problems)
	if err != nil {
		// The bundle exists but is unusable; run with the system roots.
		problems = append(problems, fmt.Errorf("probe.ca_file: %w; CA bundle skipped", err))
		cfg.Probe.CAFile = ""
		if runner, err = newRunner(cfg, logger, stdout, problems); err != nil {
			return cli.NewCommandError("run", err)
		}
	}

	if err := runner.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.InfoContext(ctx, "diagnostic run interrupted")
			return nil
		}
		return cli.NewCommandError("run", err)
	}

	if cfg.KeepAlive.Disabled {
		logger.InfoContext(ctx, "keep-alive disabled, exiting")
		return nil
	}

	report := runner.Reporter()
	report.Printf("Starting HTTP server to keep pod alive...")

	srv := keepalive.NewServer(cfg.KeepAlive, logger)
	if err := srv.Listen(); err != nil {
		logger.ErrorContext(ctx, "keep-alive server failed to bind", "error", err)
		return cli.NewCommandError("run", err)
	}
	report.Printf("HTTP server listening on %s...", srv.Addr())

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

func newRunner(cfg *config.Config, logger *logging.Logger, stdout io.Writer, problems []error) (*probe.Runner, error) {
	return probe.NewRunner(cfg,
		probe.WithLogger(logger),
		probe.WithOutput(stdout),
		probe.WithConfigProblems(problems),
	)
}

// loadRunConfig reads the dotenv file, the config file and the environment,
// then applies flag overrides. It always returns a usable configuration;
// anything that had to be ignored is returned alongside it.
func loadRunConfig() (*config.Config, []error) {
	var problems []error
	if err := config.LoadEnvFile(runFlags.envFile); err != nil {
		problems = append(problems, fmt.Errorf("%w, ignored", err))
	}

	cfg, loadProblems := config.Load(cfgFile)
	problems = append(problems, loadProblems...)

	if runFlags.listenAddress != "" {
		cfg.KeepAlive.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if runFlags.logFormat != "" {
		cfg.Telemetry.Logging.Format = runFlags.logFormat
	}
	if runFlags.noKeepAlive {
		cfg.KeepAlive.Disabled = true
	}

	problems = append(problems, config.Repair(cfg)...)

	return cfg, problems
}
