package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guiyumin/animelink/internal/core/app"
	"github.com/guiyumin/animelink/internal/core/config"
	"github.com/guiyumin/animelink/internal/core/logger"
	"github.com/guiyumin/animelink/internal/core/version"
	"github.com/guiyumin/animelink/internal/server"
)

func main() {
	// Command-line flags
	port := flag.Int("port", 0, "HTTP listen port (default: 8080)")
	configPath := flag.String("config", "", "config file (default: ~/.config/animelink/config.yml)")
	sitesPath := flag.String("sites", app.SitesFile, "sites file for browser extraction")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (overrides log_level)")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("animelink-server %s\n", version.Version)
		return
	}

	// Load configuration
	cfg := config.LoadOrDefault()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	l := logger.Init(cfg.LogLevel)

	// Resolve port (flag > config > default)
	serverPort := *port
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	services := app.Build(cfg, l, app.Options{SitesPath: *sitesPath})
	srv := server.NewServer(services, serverPort, cfg.Server.APIKey)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		l.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Stop(shutdownCtx)
	}()

	if err := srv.Start(ctx); err != nil {
		l.Fatal("server error", "err", err)
	}
}
