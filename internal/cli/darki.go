package cli

import (
	"github.com/guiyumin/animelink/internal/core/darki"
	"github.com/spf13/cobra"
)

var darkiMirror string

var darkiCmd = &cobra.Command{
	Use:   "darki <id>",
	Short: "Resolve a DarkiWorld download id to its direct link",
	Long: `Resolve a DarkiWorld download id to its direct link.

The id is the last path segment of a download page
(https://darkiworld15.com/download/<id>). The mirror comes from --mirror
or the darki.base_url setting.

Examples:
  animelink darki 123456
  animelink darki 123456 --mirror https://darkiworld16.com --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services := loadServices()
		client := services.Darki
		if darkiMirror != "" {
			client = darki.New(darkiMirror, services.Fetch, services.Logger)
		}

		link, err := client.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), link)
		}
		printLink(cmd.OutOrStdout(), link)
		return nil
	},
}

func init() {
	darkiCmd.Flags().StringVar(&darkiMirror, "mirror", "", "DarkiWorld root URL (overrides darki.base_url)")
	rootCmd.AddCommand(darkiCmd)
}
