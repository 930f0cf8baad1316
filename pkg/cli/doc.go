/*
Package cli provides command-line helpers shared by the egressprobe commands.

Errors and exit codes:

ConfigError and CommandError carry enough context to print a useful message;
ExitCode maps them to the process exit status. Only configuration problems
and a keep-alive listener that cannot bind end the process with a failure.

Output formatting:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, info); err != nil {
		return err
	}

Signal handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
