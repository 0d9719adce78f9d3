package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/guiyumin/animelink/internal/core/app"
	"github.com/guiyumin/animelink/internal/core/config"
	"github.com/guiyumin/animelink/internal/core/fetch"
	"github.com/guiyumin/animelink/internal/core/logger"
	"github.com/guiyumin/animelink/internal/core/version"
	"github.com/spf13/cobra"
)

var (
	debug      bool
	jsonOutput bool
	baseURL    string
	visible    bool
	sitesFile  string
)

// fetchOptions are appended to every fetch client the commands build.
// Tests use it to serve canned pages.
var fetchOptions []fetch.Option

var rootCmd = &cobra.Command{
	Use:     "animelink",
	Short:   "Browse a French anime catalogue and resolve embed pages to direct video links",
	Version: version.Version,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "catalogue root (overrides site.base_url)")
	rootCmd.PersistentFlags().BoolVar(&visible, "visible", false, "show browser window (for debugging)")
	rootCmd.PersistentFlags().StringVar(&sitesFile, "sites", app.SitesFile, "sites file listing hosts resolved with a browser")
	rootCmd.SilenceUsage = true
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file and applies the global flag overrides
func loadConfig() *config.Config {
	cfg := config.LoadOrDefault()
	if debug {
		cfg.LogLevel = "debug"
	}
	if baseURL != "" {
		cfg.Site.BaseURL = baseURL
	}
	return cfg
}

// newLogger logs to stderr so stdout stays parseable with --json
func newLogger(cfg *config.Config) *log.Logger {
	return logger.New(os.Stderr, cfg.LogLevel)
}

// loadServices builds the services for a one-shot command
func loadServices() *app.Services {
	cfg := loadConfig()
	return app.Build(cfg, newLogger(cfg), app.Options{
		SitesPath:      sitesFile,
		VisibleBrowser: visible,
		FetchOptions:   fetchOptions,
	})
}

// loadServicesWithHosters also loads the hoster rule table
func loadServicesWithHosters(ctx context.Context) *app.Services {
	services := loadServices()
	st := services.InitHosters(ctx, false)
	if !st.Ready {
		services.Logger.Warn("hoster rules unavailable", "err", st.Error)
	}
	return services
}

func warnMissingConfig(w io.Writer) {
	if !config.Exists() {
		fmt.Fprintf(w, "%s\n", hintStyle.Render("No config file found, using defaults. Run 'animelink init' to create one."))
	}
}
