package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guiyumin/animelink/internal/core/app"
	"github.com/guiyumin/animelink/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveAPIKey string
	serveSync   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server.

Examples:
  animelink serve
  animelink serve -p 9000
  animelink serve --sync`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP listen port (default: 8080)")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "require this X-API-Key on API requests (overrides server.api_key)")
	serveCmd.Flags().BoolVar(&serveSync, "sync", false, "sync hoster rules before listening (overrides hosters.sync_on_start)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	l := newLogger(cfg)

	// Resolve port (flag > config > default)
	port := servePort
	if port == 0 {
		port = cfg.Server.Port
	}

	apiKey := serveAPIKey
	if apiKey == "" {
		apiKey = cfg.Server.APIKey
	}

	if serveSync {
		cfg.Hosters.SyncOnStart = true
	}

	services := app.Build(cfg, l, app.Options{
		SitesPath:      sitesFile,
		VisibleBrowser: visible,
		FetchOptions:   fetchOptions,
	})
	srv := server.NewServer(services, port, apiKey)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		l.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			l.Error("shutdown failed", "err", err)
			os.Exit(1)
		}
	}()

	return srv.Start(ctx)
}
