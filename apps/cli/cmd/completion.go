package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for hitref.

To load completions:

Bash:
  $ source <(hitref completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ hitref completion bash > /etc/bash_completion.d/hitref
  # macOS:
  $ hitref completion bash > $(brew --prefix)/etc/bash_completion.d/hitref

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ hitref completion zsh > "${fpath[1]}/_hitref"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ hitref completion fish | source

  # To load completions for each session, execute once:
  $ hitref completion fish > ~/.config/fish/completions/hitref.fish

PowerShell:
  PS> hitref completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> hitref completion powershell > hitref.ps1
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

// completeRequestIDs offers stored request ids, described by request name,
// for the first positional argument.
func completeRequestIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	a, err := newApp()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer a.Close()

	requests, err := a.store.ListRequests(context.Background(), a.cfg.Workspace)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var ids []string
	for _, r := range requests {
		if strings.HasPrefix(r.ID, toComplete) {
			ids = append(ids, r.ID+"\t"+r.DisplayName())
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
