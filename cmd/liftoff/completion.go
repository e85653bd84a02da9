package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for liftoff.

To load completions:

Bash:

  $ source <(liftoff completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ liftoff completion bash > /etc/bash_completion.d/liftoff
  # macOS:
  $ liftoff completion bash > $(brew --prefix)/etc/bash_completion.d/liftoff

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ liftoff completion zsh > "${fpath[1]}/_liftoff"

  # You will need to start a new shell for this setup to take effect.

Fish:

  $ liftoff completion fish | source

  # To load completions for each session, execute once:
  $ liftoff completion fish > ~/.config/fish/completions/liftoff.fish

PowerShell:

  PS> liftoff completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> liftoff completion powershell > liftoff.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:                  runCompletion,
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	var err error

	out := cmd.OutOrStdout()

	switch args[0] {
	case "bash":
		err = rootCmd.GenBashCompletionV2(out, true)
	case "zsh":
		err = rootCmd.GenZshCompletion(out)
	case "fish":
		err = rootCmd.GenFishCompletion(out, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(out)
	}

	if err != nil {
		return errors.Wrap(err, "failed to generate completion script")
	}

	return nil
}
