package cli

import (
	"fmt"

	"github.com/guiyumin/animelink/internal/core/extractor"
	"github.com/guiyumin/animelink/internal/core/resolver"
	"github.com/spf13/cobra"
)

var (
	extractExplain bool
	extractHoster  bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Resolve an embed page to a direct video URL",
	Long: `Resolve an embed page to a direct video URL.

The URL goes through the extractor chain first (vidmoly, then the browser
extractor for hosts listed in sites.yml, then direct links). When that fails,
the hoster rule table gets a try.

Examples:
  animelink extract https://vidmoly.to/embed-abc123.html
  animelink extract --explain https://voe.sx/e/abc
  animelink extract --hoster https://streamtape.com/e/xyz`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		services := loadServicesWithHosters(ctx)
		w := cmd.OutOrStdout()

		var (
			res  extractor.Result
			diag resolver.Diagnostics
		)
		if extractHoster {
			res = services.Hosters.Extract(ctx, args[0])
		} else {
			res, diag = services.Resolver.Resolve(ctx, args[0])
		}

		if jsonOutput {
			if extractExplain && !extractHoster {
				if err := printJSON(w, struct {
					extractor.Result
					Selector resolver.Diagnostics `json:"selector"`
				}{res, diag}); err != nil {
					return err
				}
			} else if err := printJSON(w, res); err != nil {
				return err
			}
		} else {
			printResult(w, res)
			if extractExplain && !extractHoster {
				printDiagnostics(w, diag)
			}
		}

		if !res.Success {
			return fmt.Errorf("extraction failed: %s", res.Error)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractExplain, "explain", false, "show which extractors matched")
	extractCmd.Flags().BoolVar(&extractHoster, "hoster", false, "use the hoster rule table only")
	rootCmd.AddCommand(extractCmd)
}
