package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/guiyumin/animelink/internal/core/config"
	"github.com/spf13/cobra"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Manage hosts resolved with a headless browser",
	Long: `Manage the sites file (sites.yml in the working directory by default).

Embed hosts listed there are resolved by loading the page in a headless
browser and capturing the first request for the configured media type.`,
}

var sitesListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List configured sites",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sites, err := config.LoadSites(sitesFile)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if sites == nil || len(sites.Sites) == 0 {
			fmt.Fprintf(w, "No sites configured in %s\n", sitesFile)
			return nil
		}
		if jsonOutput {
			return printJSON(w, sites.Sites)
		}

		cyan := color.New(color.FgCyan)
		for _, s := range sites.Sites {
			cyan.Fprintf(w, "  %-30s", s.Match)
			fmt.Fprintf(w, " %s\n", s.Type)
		}
		return nil
	},
}

var sitesAddCmd = &cobra.Command{
	Use:   "add <match> [type]",
	Short: "Add a site (type defaults to m3u8)",
	Example: `  animelink sites add vidoza.net mp4
  animelink sites add streamwish.to`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mediaType := "m3u8"
		if len(args) == 2 {
			mediaType = args[1]
		}

		sites, err := config.LoadSites(sitesFile)
		if err != nil {
			return err
		}
		if sites == nil {
			sites = &config.SitesConfig{}
		}
		if sites.MatchSite(args[0]) != nil {
			return fmt.Errorf("a site matching %s is already configured", args[0])
		}

		sites.AddSite(args[0], mediaType)
		if err := config.SaveSites(sites, sitesFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) to %s\n", args[0], mediaType, sitesFile)
		return nil
	},
}

var sitesRemoveCmd = &cobra.Command{
	Use:     "remove <match>",
	Short:   "Remove a site",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sites, err := config.LoadSites(sitesFile)
		if err != nil {
			return err
		}
		if sites == nil || !sites.RemoveSite(args[0]) {
			return fmt.Errorf("no site %s in %s", args[0], sitesFile)
		}
		if err := config.SaveSites(sites, sitesFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", args[0], sitesFile)
		return nil
	},
}

func init() {
	sitesCmd.AddCommand(sitesListCmd)
	sitesCmd.AddCommand(sitesAddCmd)
	sitesCmd.AddCommand(sitesRemoveCmd)
	rootCmd.AddCommand(sitesCmd)
}
