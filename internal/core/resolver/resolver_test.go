package resolver

import (
	"context"
	"testing"

	"github.com/guiyumin/animelink/internal/core/extractor"
	"github.com/guiyumin/animelink/internal/core/fetch"
	"github.com/guiyumin/animelink/internal/core/hoster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pages = map[string]string{
	"https://vidmoly.net/embed-abc123.html": `sources: [{file:"https://cdn.example/video.mp4,","label":"HD"}]`,
	"https://vidmoly.net/embed-gone.html":   `<html>deleted</html>`,
	"https://voe.sx/e/abc":                  `var sources = {'hls': 'https://cdn.example/voe/master.m3u8'};`,
	"https://voe.sx/e/gone":                 `<html>gone</html>`,
}

func newResolver(t *testing.T, initHosters bool) *Resolver {
	t.Helper()
	client := fetch.New(fetch.WithTransport(fetch.Pages(pages)))
	table := hoster.New(t.TempDir(), client, nil)
	if initHosters {
		table.Init()
	}
	selector := extractor.NewSelector(&extractor.DirectExtractor{}, extractor.NewVidmoly(client))
	return New(selector, table, nil)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name            string
		url             string
		initHosters     bool
		wantSuccess     bool
		wantExtractor   string
		wantURL         string
		wantSelected    string
		wantRule        string
		wantFallthrough bool
	}{
		{
			name:          "Primary extractor",
			url:           "https://vidmoly.to/embed-abc123.html",
			initHosters:   true,
			wantSuccess:   true,
			wantExtractor: "vidmoly",
			wantURL:       "https://cdn.example/video.mp4",
			wantSelected:  "vidmoly",
		},
		{
			name:            "Falls through to hoster rule",
			url:             "https://voe.sx/e/abc",
			initHosters:     true,
			wantSuccess:     true,
			wantExtractor:   "hoster_voe",
			wantURL:         "https://cdn.example/voe/master.m3u8",
			wantSelected:    "direct",
			wantRule:        "voe",
			wantFallthrough: true,
		},
		{
			name:          "Same rule is not retried",
			url:           "https://vidmoly.net/embed-gone.html",
			initHosters:   true,
			wantExtractor: "vidmoly",
			wantSelected:  "vidmoly",
			wantRule:      "vidmoly",
		},
		{
			name:            "Hoster rule fails too",
			url:             "https://voe.sx/e/gone",
			initHosters:     true,
			wantExtractor:   "direct",
			wantSelected:    "direct",
			wantRule:        "voe",
			wantFallthrough: true,
		},
		{
			name:          "Hoster table not ready",
			url:           "https://voe.sx/e/abc",
			wantExtractor: "direct",
			wantSelected:  "direct",
		},
		{
			name:          "Direct link",
			url:           "https://cdn.example/clip.mp4",
			initHosters:   true,
			wantSuccess:   true,
			wantExtractor: "direct",
			wantURL:       "https://cdn.example/clip.mp4",
			wantSelected:  "direct",
		},
		{
			name:          "Garbage",
			url:           "not a url at all",
			initHosters:   true,
			wantExtractor: "direct",
			wantSelected:  "direct",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newResolver(t, tt.initHosters)

			res, diag := r.Resolve(context.Background(), tt.url)

			assert.Equal(t, tt.wantSuccess, res.Success, res.Error)
			assert.Equal(t, tt.wantExtractor, res.Extractor)
			assert.Equal(t, tt.wantURL, res.URL)
			if !tt.wantSuccess {
				assert.NotEmpty(t, res.Error)
			}
			assert.Equal(t, tt.wantSelected, diag.Selected)
			assert.Equal(t, tt.wantRule, diag.HosterRule)
			assert.Equal(t, tt.wantFallthrough, diag.Fallthrough)
			require.NotEmpty(t, diag.Candidates)
			assert.Equal(t, "direct", diag.Candidates[len(diag.Candidates)-1].Name)
		})
	}
}

type explodingExtractor struct{}

func (explodingExtractor) Name() string             { return "exploding" }
func (explodingExtractor) Match(rawURL string) bool { return true }
func (explodingExtractor) Extract(ctx context.Context, rawURL string) extractor.Result {
	panic("boom")
}

func TestResolveRecoversFromPanics(t *testing.T) {
	r := New(extractor.NewSelector(nil, explodingExtractor{}), nil, nil)

	var res extractor.Result
	require.NotPanics(t, func() {
		res, _ = r.Resolve(context.Background(), "https://anything.example")
	})
	assert.False(t, res.Success)
	assert.Equal(t, extractor.ErrorInternal, res.ErrorKind)
	assert.Equal(t, "exploding", res.Extractor)
}
