package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/guiyumin/animelink/internal/core/fetch"
)

const htmlPreviewLen = 300

// PatternConfig declares a pattern-chain extractor
type PatternConfig struct {
	// Name identifies the extractor in results (e.g. "vidmoly")
	Name string

	// Keywords are case-insensitive substrings of the URL this extractor accepts
	Keywords []string

	// PathMarkers are path fragments (e.g. "/embed-") that are accepted on any host
	PathMarkers []string

	// Aliases maps alias hosts to the canonical host the page is fetched from
	Aliases map[string]string

	// Patterns are tried in order; the first match wins
	Patterns []Pattern
}

// PatternExtractor fetches an embed page and runs a pattern chain over it.
// The vidmoly extractor and every hoster rule are PatternExtractors.
type PatternExtractor struct {
	name        string
	keywords    []string
	pathMarkers []string
	aliases     map[string]string
	patterns    []Pattern
	client      *fetch.Client
}

// NewPatternExtractor creates a PatternExtractor. A nil client gets a default fetch.Client.
func NewPatternExtractor(cfg PatternConfig, client *fetch.Client) *PatternExtractor {
	if client == nil {
		client = fetch.New()
	}
	e := &PatternExtractor{
		name:     cfg.Name,
		patterns: cfg.Patterns,
		client:   client,
		aliases:  make(map[string]string, len(cfg.Aliases)),
	}
	for _, k := range cfg.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			e.keywords = append(e.keywords, k)
		}
	}
	for _, m := range cfg.PathMarkers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			e.pathMarkers = append(e.pathMarkers, m)
		}
	}
	for from, to := range cfg.Aliases {
		e.aliases[strings.ToLower(from)] = strings.ToLower(to)
	}
	return e
}

func (e *PatternExtractor) Name() string {
	return e.name
}

// Match checks the URL for a known host keyword or path marker
func (e *PatternExtractor) Match(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, k := range e.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	for _, m := range e.pathMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Normalize rewrites alias domains to the canonical one
func (e *PatternExtractor) Normalize(rawURL string) string {
	return NormalizeHost(rawURL, e.aliases)
}

// PatternNames lists the chain in evaluation order
func (e *PatternExtractor) PatternNames() []string {
	names := make([]string, len(e.patterns))
	for i, p := range e.patterns {
		names[i] = p.Name()
	}
	return names
}

// Extract fetches the embed page and runs the pattern chain
func (e *PatternExtractor) Extract(ctx context.Context, rawURL string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Failure(e.name, ErrorInternal, fmt.Sprintf("extraction error: %v", r))
		}
	}()

	embedURL := e.Normalize(strings.TrimSpace(rawURL))

	html, err := e.client.Get(ctx, embedURL, fetch.WithReferer(embedURL), fetch.WithHeader("Accept", "*/*"))
	if err != nil {
		res = Failure(e.name, ErrorNetwork, fmt.Sprintf("network error: %v", err))
		res.Debug = &Debug{URL: embedURL}
		return res
	}

	return e.ExtractHTML(embedURL, html)
}

// ExtractHTML runs the pattern chain over an already fetched page
func (e *PatternExtractor) ExtractHTML(embedURL, html string) Result {
	for _, p := range e.patterns {
		raw, ok := p.Find(html)
		if !ok {
			continue
		}
		mediaURL, referer := SplitReferer(raw)
		mediaURL = CleanURL(mediaURL)
		if strings.HasPrefix(mediaURL, "//") {
			mediaURL = "https:" + mediaURL
		}
		if mediaURL == "" {
			continue
		}
		if referer == "" {
			referer = embedURL
		}
		return Success(e.name, p.Name(), mediaURL, e.headers(embedURL, referer))
	}

	res := Failure(e.name, ErrorNotFound, "no video link found")
	res.Debug = &Debug{
		URL:           embedURL,
		HTMLPreview:   preview(html, htmlPreviewLen),
		PatternsTried: e.PatternNames(),
	}
	return res
}

// headers are the ones a player must send to be served the media
func (e *PatternExtractor) headers(embedURL, referer string) map[string]string {
	h := map[string]string{
		"Referer":    referer,
		"User-Agent": e.client.UserAgent(),
	}
	if origin := OriginOf(embedURL); origin != "" {
		h["Origin"] = origin
	}
	return h
}

// preview cuts s to at most n runes
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
