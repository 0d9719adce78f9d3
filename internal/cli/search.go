package cli

import (
	"fmt"
	"strings"

	"github.com/guiyumin/animelink/internal/core/site"
	"github.com/spf13/cobra"
)

var animesPage int

var animesCmd = &cobra.Command{
	Use:   "animes [category]",
	Short: "List the catalogue by category",
	Long: fmt.Sprintf(`List one page of the catalogue.

Categories: %s (default: news)

Examples:
  animelink animes
  animelink animes vostfr --page 2`, strings.Join(site.Categories(), ", ")),
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: site.Categories(),
	RunE: func(cmd *cobra.Command, args []string) error {
		category := "news"
		if len(args) == 1 {
			category = args[0]
		}
		if animesPage < 1 {
			return fmt.Errorf("page must be a positive integer")
		}

		services := loadServices()
		listing, err := services.Site.Animes(cmd.Context(), category, animesPage)
		if err != nil {
			return err
		}
		return renderListing(cmd, listing)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalogue",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services := loadServices()
		listing, err := services.Site.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return renderListing(cmd, listing)
	},
}

var episodesCmd = &cobra.Command{
	Use:   "episodes <anime-url>",
	Short: "List the episode links of an anime page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services := loadServices()
		episodes, err := services.Site.Episodes(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, episodes)
		}
		printEpisodes(w, args[0], episodes)
		return nil
	},
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the catalogue genres",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services := loadServices()
		genres, err := services.Site.Genres(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, genres)
		}
		printGenres(w, genres)
		return nil
	},
}

func renderListing(cmd *cobra.Command, listing *site.Listing) error {
	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, listing)
	}
	printListing(w, listing)
	return nil
}

func init() {
	animesCmd.Flags().IntVarP(&animesPage, "page", "p", 1, "page number")
	rootCmd.AddCommand(animesCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(episodesCmd)
	rootCmd.AddCommand(genresCmd)
}
