// Package darki resolves DarkiWorld download ids to direct links through the
// site's JSON download API.
package darki

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/guiyumin/animelink/internal/core/fetch"
	"github.com/guiyumin/animelink/internal/core/logger"
	"github.com/pkg/errors"
)

var (
	ErrInvalidID = errors.New("invalid download id")
	ErrNotFound  = errors.New("no video for this download id")
)

var idRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Link is a resolved download
type Link struct {
	ID        string            `json:"id"`
	URL       string            `json:"url"`
	Quality   string            `json:"quality"`
	Languages []string          `json:"languages"`
	Headers   map[string]string `json:"headers"`
}

type apiResponse struct {
	Video *struct {
		Lien string `json:"lien"`
		Qual *struct {
			Qual string `json:"qual"`
		} `json:"qual"`
		Langues []struct {
			Lang string `json:"lang"`
		} `json:"langues"`
	} `json:"video"`
}

// Client talks to one DarkiWorld mirror. It is safe for concurrent use.
type Client struct {
	baseURL string
	fetch   *fetch.Client
	logger  *log.Logger
}

// New creates a Client for baseURL
func New(baseURL string, fc *fetch.Client, l *log.Logger) *Client {
	if fc == nil {
		fc = fetch.New()
	}
	if l == nil {
		l = logger.Discard()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetch:   fc,
		logger:  l,
	}
}

// BaseURL returns the mirror root without trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIURL is the JSON endpoint queried for id
func (c *Client) APIURL(id string) string {
	return c.baseURL + "/api/v1/download/" + id
}

// PageURL is the download page the API expects as Referer
func (c *Client) PageURL(id string) string {
	return c.baseURL + "/download/" + id
}

// Resolve looks up a download id. An unknown id, an upstream 404 and a
// response without a video link all return ErrNotFound.
func (c *Client) Resolve(ctx context.Context, id string) (*Link, error) {
	id = strings.TrimSpace(id)
	if !idRe.MatchString(id) {
		return nil, errors.Wrapf(ErrInvalidID, "%q", id)
	}

	apiURL := c.APIURL(id)
	c.logger.Debug("resolving download", "id", id, "url", apiURL)

	body, err := c.fetch.Get(ctx, apiURL,
		fetch.WithReferer(c.PageURL(id)),
		fetch.WithHeader("Accept", "application/json"),
	)
	if err != nil {
		var se *fetch.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, errors.Wrapf(ErrNotFound, "%s", id)
		}
		return nil, errors.Wrap(err, "failed to query download API")
	}

	var resp apiResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode download API response")
	}
	if resp.Video == nil || strings.TrimSpace(resp.Video.Lien) == "" {
		return nil, errors.Wrapf(ErrNotFound, "%s", id)
	}

	link := &Link{
		ID:        id,
		URL:       strings.TrimSpace(resp.Video.Lien),
		Languages: make([]string, 0, len(resp.Video.Langues)),
		Headers: map[string]string{
			"Referer":    c.PageURL(id),
			"User-Agent": c.fetch.UserAgent(),
		},
	}
	if resp.Video.Qual != nil {
		link.Quality = resp.Video.Qual.Qual
	}
	for _, l := range resp.Video.Langues {
		if l.Lang != "" {
			link.Languages = append(link.Languages, l.Lang)
		}
	}

	c.logger.Debug("download resolved", "id", id, "quality", link.Quality)
	return link, nil
}
