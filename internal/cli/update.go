package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/guiyumin/animelink/internal/core/updater"
	"github.com/spf13/cobra"
)

var updateCheckOnly bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update animelink to the latest release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()

		check, err := updater.CheckUpdate(cmd.Context())
		if err != nil {
			return err
		}
		if !check.Available {
			fmt.Fprintf(w, "Already up to date (v%s)\n", check.Current)
			return nil
		}
		if updateCheckOnly {
			color.New(color.FgYellow).Fprintf(w, "Update available: v%s -> v%s\n", check.Current, check.Latest)
			return nil
		}

		fmt.Fprintf(w, "Updating from v%s to v%s...\n", check.Current, check.Latest)
		if err := updater.Update(cmd.Context(), check); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(w, "Successfully updated to v%s\n", check.Latest)
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false, "only report whether an update is available")
	rootCmd.AddCommand(updateCmd)
}
