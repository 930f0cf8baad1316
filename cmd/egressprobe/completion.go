package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/egressprobe/pkg/cli"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for egressprobe.

Bash:
  $ source <(egressprobe completion bash)

Zsh:
  $ egressprobe completion zsh > "${fpath[1]}/_egressprobe"
  $ compinit

Fish:
  $ egressprobe completion fish | source

PowerShell:
  PS> egressprobe completion powershell | Out-String | Invoke-Expression
`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return cli.NewConfigError("shell", fmt.Sprintf("unsupported shell: %s", args[0]))
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
