package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorpack/pkg/encoding"
	"github.com/matzehuels/floorpack/pkg/render"
	"github.com/matzehuels/floorpack/pkg/sat"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for floorpack.

Bash:
  $ source <(floorpack completion bash)

Zsh:
  $ floorpack completion zsh > "${fpath[1]}/_floorpack"

Fish:
  $ floorpack completion fish > ~/.config/fish/completions/floorpack.fish

PowerShell:
  PS> floorpack completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeTextFiles completes instance and solution file arguments.
func completeTextFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"txt"}, cobra.ShellCompDirectiveFilterFileExt
}

// fixedCompletion completes a flag from a fixed list of values.
func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// registerSolveCompletions adds value completion for the solver flags.
func registerSolveCompletions(cmd *cobra.Command) {
	models := make([]string, 0, 2)
	for _, m := range encoding.Models() {
		models = append(models, string(m))
	}
	_ = cmd.RegisterFlagCompletionFunc("model", fixedCompletion(models...))
	_ = cmd.RegisterFlagCompletionFunc("order", fixedCompletion("desc", "asc"))
	_ = cmd.RegisterFlagCompletionFunc("backend", fixedCompletion(sat.Backends()...))
	_ = cmd.RegisterFlagCompletionFunc("premise", fixedCompletion("assume", "scope"))
}

// registerFormatCompletion adds value completion for a render format flag.
func registerFormatCompletion(cmd *cobra.Command, flag string) {
	_ = cmd.RegisterFlagCompletionFunc(flag, fixedCompletion(render.Formats()...))
}
