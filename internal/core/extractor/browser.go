package extractor

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/guiyumin/animelink/internal/core/config"
	"github.com/guiyumin/animelink/internal/core/fetch"
)

const browserCaptureTimeout = 15 * time.Second

// BrowserExtractor drives a headless Chromium to catch the media request a
// player makes. It only handles hosts listed in sites.yml.
type BrowserExtractor struct {
	sites     *config.SitesConfig
	visible   bool
	userAgent string
}

// NewBrowserExtractor creates a browser extractor for the configured sites
func NewBrowserExtractor(sites *config.SitesConfig, visible bool) *BrowserExtractor {
	return &BrowserExtractor{sites: sites, visible: visible, userAgent: fetch.DefaultUserAgent}
}

func (e *BrowserExtractor) Name() string {
	return "browser"
}

func (e *BrowserExtractor) Match(rawURL string) bool {
	return e.sites.MatchSite(rawURL) != nil
}

// browserStrategy looks for a media URL in an already loaded page
type browserStrategy struct {
	name string
	find func(page *rod.Page, targetExt string) string
}

func (e *BrowserExtractor) Extract(ctx context.Context, rawURL string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Failure(e.Name(), ErrorInternal, fmt.Sprintf("browser error: %v", r))
		}
	}()

	site := e.sites.MatchSite(rawURL)
	if site == nil {
		return Failure(e.Name(), ErrorUnsupported, "no site configuration for URL")
	}
	targetExt := strings.ToLower("." + site.Type)

	profile, err := newProfileDir()
	if err != nil {
		return Failure(e.Name(), ErrorInternal, fmt.Sprintf("failed to create browser profile: %v", err))
	}
	defer os.RemoveAll(profile)

	l := e.createLauncher(!e.visible, profile)
	defer l.Cleanup()

	controlURL, err := l.Launch()
	if err != nil {
		return Failure(e.Name(), ErrorUnavailable, fmt.Sprintf("failed to launch browser: %v", err))
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return Failure(e.Name(), ErrorUnavailable, fmt.Sprintf("failed to connect to browser: %v", err))
	}
	defer browser.Close()

	page, err := stealth.Page(browser)
	if err != nil {
		return Failure(e.Name(), ErrorUnavailable, fmt.Sprintf("failed to open page: %v", err))
	}
	defer page.Close()

	method := "network_capture"
	mediaURL := e.captureFromNetwork(ctx, page, rawURL, targetExt)

	if mediaURL == "" {
		strategies := []browserStrategy{
			{name: "performance_api", find: findInPerformanceAPI},
			{name: "video_player", find: findInVideoPlayer},
			{name: "page_source", find: findInPageSource},
		}
		for _, s := range strategies {
			if found := s.find(page, targetExt); found != "" {
				method, mediaURL = s.name, found
				break
			}
		}
	}

	if mediaURL == "" {
		res = Failure(e.Name(), ErrorNotFound, fmt.Sprintf("no %s stream found", site.Type))
		res.Debug = &Debug{URL: rawURL, PatternsTried: []string{"network_capture", "performance_api", "video_player", "page_source"}}
		return res
	}

	headers := map[string]string{
		"Referer":    rawURL,
		"User-Agent": e.userAgent,
	}
	if origin := OriginOf(rawURL); origin != "" {
		headers["Origin"] = origin
	}
	return Success(e.Name(), method, CleanURL(mediaURL), headers)
}

// captureFromNetwork watches CDP network events for the first request
// carrying the target extension
func (e *BrowserExtractor) captureFromNetwork(ctx context.Context, page *rod.Page, rawURL, targetExt string) string {
	_ = proto.NetworkEnable{}.Call(page)

	found := make(chan string, 1)
	offer := func(reqURL string) {
		if strings.Contains(strings.ToLower(reqURL), targetExt) {
			select {
			case found <- reqURL:
			default:
			}
		}
	}

	waitCtx, cancel := context.WithTimeout(ctx, browserCaptureTimeout)
	defer cancel()

	listenerCtx, stopListener := context.WithCancel(waitCtx)
	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		page.Context(listenerCtx).EachEvent(func(ev *proto.NetworkRequestWillBeSent) {
			offer(ev.Request.URL)
		})()
	}()

	navCtx, navCancel := context.WithTimeout(waitCtx, 10*time.Second)
	_ = page.Context(navCtx).Navigate(rawURL)
	_ = page.Context(navCtx).WaitLoad()
	navCancel()

	var result string
	select {
	case result = <-found:
	case <-waitCtx.Done():
		select {
		case result = <-found:
		default:
		}
	}

	stopListener()
	<-listenerDone
	return result
}

func findInPerformanceAPI(page *rod.Page, targetExt string) string {
	obj, err := page.Eval(`(ext) => performance.getEntriesByType('resource')
		.map(r => r.name)
		.filter(u => u.toLowerCase().includes(ext))`, targetExt)
	if err != nil {
		return ""
	}
	for _, v := range obj.Value.Arr() {
		if u := v.String(); strings.Contains(strings.ToLower(u), targetExt) {
			return u
		}
	}
	return ""
}

func findInVideoPlayer(page *rod.Page, targetExt string) string {
	obj, err := page.Eval(`(ext) => {
		const ok = (s) => s && s.toLowerCase().includes(ext);
		const vjs = document.querySelector('.video-js');
		if (vjs && vjs.player && ok(vjs.player.currentSrc())) return vjs.player.currentSrc();
		if (window.jwplayer) {
			try {
				const item = window.jwplayer().getPlaylistItem();
				if (item && ok(item.file)) return item.file;
			} catch (e) {}
		}
		const video = document.querySelector('video');
		if (video) {
			if (ok(video.src)) return video.src;
			for (const source of video.querySelectorAll('source')) {
				if (ok(source.src)) return source.src;
			}
		}
		return '';
	}`, targetExt)
	if err != nil {
		return ""
	}
	return obj.Value.String()
}

func findInPageSource(page *rod.Page, targetExt string) string {
	html, err := page.HTML()
	if err != nil {
		return ""
	}
	re := regexp.MustCompile(`(?i)https?:\\?/\\?/[^"'\s<>]+` + regexp.QuoteMeta(targetExt) + `[^"'\s<>]*`)
	for _, m := range re.FindAllString(html, -1) {
		if !isExcludedHost(strings.ReplaceAll(m, `\/`, "/")) {
			return m
		}
	}
	return ""
}

func (e *BrowserExtractor) createLauncher(headless bool, profile string) *launcher.Launcher {
	l := launcher.New().
		Headless(headless).
		UserDataDir(profile).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("disable-extensions").
		Set("no-first-run").
		Set("mute-audio").
		Set("window-size", "1280,720").
		Set("user-agent", e.userAgent)

	// ROD_BROWSER points at the bundled chromium in the container image
	if bin := os.Getenv("ROD_BROWSER"); bin != "" {
		l = l.Bin(bin)
	}
	return l
}

// newProfileDir creates a throwaway Chromium profile. Concurrent extractions
// each get their own, since Chromium locks a profile to one process.
func newProfileDir() (string, error) {
	return os.MkdirTemp("", "animelink-browser-")
}
