package cli

import (
	"github.com/spf13/cobra"

	"github.com/paritytech/psvm/pkg/versions"
)

// completionCommand creates the completion command for generating shell completions.
// Scripts are written to the command's output so they can be redirected.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for psvm.

To load completions:

Bash:
  $ source <(psvm completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ psvm completion bash > /etc/bash_completion.d/psvm
  # macOS:
  $ psvm completion bash > $(brew --prefix)/etc/bash_completion.d/psvm

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ psvm completion zsh > "${fpath[1]}/_psvm"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ psvm completion fish | source

  # To load completions for each session, execute once:
  $ psvm completion fish > ~/.config/fish/completions/psvm.fish

PowerShell:
  PS> psvm completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> psvm completion powershell > psvm.ps1
  # and source this file from your PowerShell profile.
`,
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

	return cmd
}

// registerFlagCompletions completes release, source and family values.
// Releases come from the release cache, so completing -v does not hit
// GitHub once the cache is warm.
func (c *CLI) registerFlagCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("version", func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		if c.config == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		list, _ := c.releases(cmd, false, false)
		return list, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("source", cobra.FixedCompletions(
		[]string{versions.SourceAuto.String(), versions.SourcePlan.String(), versions.SourceLockfile.String()},
		cobra.ShellCompDirectiveNoFileComp,
	))
	_ = cmd.RegisterFlagCompletionFunc("family", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		if c.config == nil {
			return []string{versions.ORML().Name}, cobra.ShellCompDirectiveNoFileComp
		}
		return c.families().Names(), cobra.ShellCompDirectiveNoFileComp
	})
}
