package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/rcd/pkg/pipeline"
	"github.com/matzehuels/rcd/pkg/skeleton"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for rcd.

  Bash:        source <(rcd completion bash)
  Zsh:         rcd completion zsh > "${fpath[1]}/_rcd"
  Fish:        rcd completion fish | source
  PowerShell:  rcd completion powershell | Out-String | Invoke-Expression

Algorithm, boundary finder and format flags complete to their valid values.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// registerFlagCompletions attaches value completions to the flags that take
// a fixed set of names. Commands without a given flag are skipped.
func registerFlagCompletions(root *cobra.Command) {
	values := map[string][]string{
		"algorithm": skeleton.Algorithms(),
		"boundary":  {pipeline.BoundaryGreedy, pipeline.BoundaryPrecision},
		"format":    {pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG},
	}
	for _, cmd := range root.Commands() {
		for flag, names := range values {
			if cmd.Flags().Lookup(flag) == nil {
				continue
			}
			_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(names, cobra.ShellCompDirectiveNoFileComp))
		}
	}
}
