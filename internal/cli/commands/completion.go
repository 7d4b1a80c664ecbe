package commands

import (
	"github.com/spf13/cobra"
)

// NewCompletionCommand creates the completion command for shell completions
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for nodeview.

To load completions:

Bash:

  $ source <(nodeview completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ nodeview completion bash > /etc/bash_completion.d/nodeview
  # macOS:
  $ nodeview completion bash > $(brew --prefix)/etc/bash_completion.d/nodeview

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ nodeview completion zsh > "${fpath[1]}/_nodeview"

  # You will need to start a new shell for this setup to take effect.

Fish:

  $ nodeview completion fish | source

  # To load completions for each session, execute once:
  $ nodeview completion fish > ~/.config/fish/completions/nodeview.fish

PowerShell:

  PS> nodeview completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> nodeview completion powershell > nodeview.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Skip config loading so completion works outside a project
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			root := cmd.Root()
			out := cmd.OutOrStdout()

			switch shell {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}
