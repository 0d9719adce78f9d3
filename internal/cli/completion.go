package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for animelink.

Bash:
  # Add to ~/.bashrc:
  source <(animelink completion bash)

  # Or install to system:
  animelink completion bash > /etc/bash_completion.d/animelink

Zsh:
  # Add to ~/.zshrc:
  source <(animelink completion zsh)

  # Or install to fpath:
  animelink completion zsh > "${fpath[1]}/_animelink"

Fish:
  animelink completion fish > ~/.config/fish/completions/animelink.fish

PowerShell:
  animelink completion powershell >> $PROFILE
`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return cmd.Help()
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)

	configSetCmd.ValidArgsFunction = completeConfigKey
	configGetCmd.ValidArgsFunction = completeConfigKey
	configUnsetCmd.ValidArgsFunction = completeConfigKey
}

// completeConfigKey completes the first argument with the known config keys
func completeConfigKey(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, key := range configKeys {
		if strings.HasPrefix(key, toComplete) {
			completions = append(completions, key)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
