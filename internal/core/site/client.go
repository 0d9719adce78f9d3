// Package site scrapes the anime catalogue: listings, search, episode links
// and genres.
package site

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/guiyumin/animelink/internal/core/fetch"
	"github.com/guiyumin/animelink/internal/core/logger"
	"github.com/pkg/errors"
)

// MinQueryLength is the shortest accepted search term
const MinQueryLength = 2

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrQueryTooShort   = errors.Errorf("search query must be at least %d characters", MinQueryLength)
)

// categoryPaths maps listing categories to site paths
var categoryPaths = map[string]string{
	"news":   "/",
	"vf":     "/animes-vf/",
	"vostfr": "/animes-vostfr/",
	"films":  "/films-vf-vostfr/",
}

// Categories lists the accepted category names
func Categories() []string {
	return []string{"news", "vf", "vostfr", "films"}
}

// Client scrapes one site. It is safe for concurrent use.
type Client struct {
	baseURL    string
	maxResults int
	fetch      *fetch.Client
	logger     *log.Logger
}

// New creates a Client for baseURL. maxResults <= 0 means no limit.
func New(baseURL string, maxResults int, fc *fetch.Client, l *log.Logger) *Client {
	if fc == nil {
		fc = fetch.New()
	}
	if l == nil {
		l = logger.Discard()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxResults: maxResults,
		fetch:      fc,
		logger:     l,
	}
}

// BaseURL returns the site root without trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CategoryURL builds the listing URL for a category and page (1-based)
func (c *Client) CategoryURL(category string, page int) (string, error) {
	path, ok := categoryPaths[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return "", errors.Wrapf(ErrUnknownCategory, "%q (expected one of %s)", category, strings.Join(Categories(), ", "))
	}
	u := c.baseURL + path
	if page > 1 {
		u += fmt.Sprintf("page/%d/", page)
	}
	return u, nil
}

// SearchURL builds the site search URL for q
func (c *Client) SearchURL(q string) string {
	return c.baseURL + "/index.php?do=search&subaction=search&story=" + url.QueryEscape(q)
}

// Animes fetches one listing page of a category
func (c *Client) Animes(ctx context.Context, category string, page int) (*Listing, error) {
	pageURL, err := c.CategoryURL(category, page)
	if err != nil {
		return nil, err
	}
	return c.listing(ctx, pageURL)
}

// Search runs a site search
func (c *Client) Search(ctx context.Context, q string) (*Listing, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return nil, ErrQueryTooShort
	}
	return c.listing(ctx, c.SearchURL(q))
}

func (c *Client) listing(ctx context.Context, pageURL string) (*Listing, error) {
	c.logger.Debug("fetching listing", "url", pageURL)

	html, err := c.fetch.Get(ctx, pageURL)
	if err != nil {
		return &Listing{SourceURL: pageURL, Results: []AnimeEntry{}}, errors.Wrap(err, "failed to fetch listing")
	}

	entries, next, err := ParseListing(html, c.baseURL, pageURL, c.maxResults)
	if err != nil {
		return &Listing{SourceURL: pageURL, Results: []AnimeEntry{}}, err
	}

	c.logger.Debug("listing parsed", "url", pageURL, "count", len(entries))
	return &Listing{SourceURL: pageURL, Results: entries, NextPage: next}, nil
}

// Episodes fetches an anime page and returns its episode links
func (c *Client) Episodes(ctx context.Context, animeURL string) ([]Episode, error) {
	animeURL = resolveURL(c.baseURL+"/", strings.TrimSpace(animeURL))
	c.logger.Debug("fetching episodes", "url", animeURL)

	html, err := c.fetch.Get(ctx, animeURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch anime page")
	}
	return ParseEpisodes(html)
}

// Genres returns the homepage genres, or the default list when the
// homepage has none
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	html, err := c.fetch.Get(ctx, c.baseURL+"/")
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch homepage")
	}
	return ParseGenres(html, c.baseURL), nil
}
