// Package app assembles the scraping and extraction services from a Config.
// The server and the CLI share it.
package app

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/guiyumin/animelink/internal/core/config"
	"github.com/guiyumin/animelink/internal/core/darki"
	"github.com/guiyumin/animelink/internal/core/extractor"
	"github.com/guiyumin/animelink/internal/core/fetch"
	"github.com/guiyumin/animelink/internal/core/hoster"
	"github.com/guiyumin/animelink/internal/core/logger"
	"github.com/guiyumin/animelink/internal/core/resolver"
	"github.com/guiyumin/animelink/internal/core/site"
)

// SitesFile lists the hosts handled by the browser extractor, read from the
// working directory
const SitesFile = "sites.yml"

// Services is everything a request handler needs
type Services struct {
	Config   *config.Config
	Fetch    *fetch.Client
	Site     *site.Client
	Hosters  *hoster.Table
	Resolver *resolver.Resolver
	Darki    *darki.Client
	Logger   *log.Logger
}

// Options tweak Build
type Options struct {
	// SitesPath overrides SitesFile; empty uses SitesFile
	SitesPath string

	// VisibleBrowser shows the browser window used for sites.yml hosts
	VisibleBrowser bool

	// FetchOptions are appended to the options derived from the config
	FetchOptions []fetch.Option
}

// Build wires the services. The hoster table is returned uninitialized:
// call Services.InitHosters before serving.
func Build(cfg *config.Config, l *log.Logger, opts Options) *Services {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if l == nil {
		l = logger.Discard()
	}

	fetchOpts := []fetch.Option{
		fetch.WithTimeout(cfg.TimeoutDuration()),
		fetch.WithRetries(cfg.HTTP.Retries),
		fetch.WithUserAgent(cfg.HTTP.UserAgent),
	}
	fc := fetch.New(append(fetchOpts, opts.FetchOptions...)...)

	chain := []extractor.Extractor{extractor.NewVidmoly(fc)}

	sitesPath := opts.SitesPath
	if sitesPath == "" {
		sitesPath = SitesFile
	}
	sites, err := config.LoadSites(sitesPath)
	if err != nil {
		l.Warn("ignoring sites file", "path", sitesPath, "err", err)
	} else if sites != nil && len(sites.Sites) > 0 {
		l.Debug("browser extraction enabled", "sites", len(sites.Sites))
		chain = append(chain, extractor.NewBrowserExtractor(sites, opts.VisibleBrowser))
	}

	hosters := hoster.New(cfg.Hosters.CacheDir, fc, l)
	selector := extractor.NewSelector(&extractor.DirectExtractor{}, chain...)

	return &Services{
		Config:   cfg,
		Fetch:    fc,
		Site:     site.New(cfg.Site.BaseURL, cfg.Site.MaxResults, fc, l),
		Hosters:  hosters,
		Resolver: resolver.New(selector, hosters, l),
		Darki:    darki.New(cfg.Darki.BaseURL, fc, l),
		Logger:   l,
	}
}

// InitHosters optionally syncs the rule table, then loads it. A failed
// sync is logged; the embedded or cached rules are used instead.
func (s *Services) InitHosters(ctx context.Context, sync bool) hoster.Status {
	if sync && s.Config.Hosters.SourceURL != "" {
		if _, err := s.Hosters.Sync(ctx, s.Config.Hosters.SourceURL); err != nil {
			s.Logger.Warn("hoster rules sync failed", "source", s.Config.Hosters.SourceURL, "err", err)
		}
	}
	return s.Hosters.Init()
}
