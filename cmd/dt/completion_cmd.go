package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "completion <shell>",
		Short:   "Generate completion script",
		GroupID: GroupConfig,
		Long: `Generate shell completion script.

Besides commands and flags, --folder-names completes repository folders in
the dev root and --version completes installed Node.js versions.`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Example: `  # Fish
  dt completion fish > ~/.config/fish/completions/dt.fish

  # Bash
  dt completion bash > ~/.local/share/bash-completion/completions/dt

  # Zsh
  dt completion zsh > ~/.zfunc/_dt
  # Then add ~/.zfunc to fpath in .zshrc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}

	return cmd
}
