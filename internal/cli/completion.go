package cli

import (
	"github.com/spf13/cobra"

	pgio "github.com/matzehuels/pixelgraph/pkg/io"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pixelgraph.

Commands that take a graph file (render, eval, dot, convert, watch, serve)
complete only .json, .toml and .hcl files.

Bash:
  $ source <(pixelgraph completion bash)
  # every session (Linux):
  $ pixelgraph completion bash > /etc/bash_completion.d/pixelgraph

Zsh:
  # completion must be enabled once with: autoload -U compinit; compinit
  $ pixelgraph completion zsh > "${fpath[1]}/_pixelgraph"

Fish:
  $ pixelgraph completion fish > ~/.config/fish/completions/pixelgraph.fish

PowerShell:
  PS> pixelgraph completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
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

	return cmd
}

// graphExtensions lists the graph file extensions, without the dot.
func graphExtensions() []string {
	exts := make([]string, len(pgio.Formats))
	for i, f := range pgio.Formats {
		exts[i] = string(f)
	}
	return exts
}

// completeGraphFile completes positional arguments with graph files.
func completeGraphFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return graphExtensions(), cobra.ShellCompDirectiveFilterFileExt
}
