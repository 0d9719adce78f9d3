package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEpisodes(t *testing.T) {
	page := `<html><body><h1>Frieren</h1>
<div class="eps" style="display: none">1!//vidmoly.to/embed-aaa.html,//voe.sx/e/bbb 2!//vidmoly.to/embed-ccc.html@3!https://streamtape.com/e/ddd HD 1080p</div>
<div class="footer">4!https://not-an-episode.example/</div>
</body></html>`

	episodes, err := ParseEpisodes(page)
	require.NoError(t, err)
	require.Len(t, episodes, 4)

	assert.Equal(t, Episode{Episode: "1", URL: "https://vidmoly.to/embed-aaa.html", Quality: "SD", Host: "vidmoly"}, episodes[0])
	assert.Equal(t, Episode{Episode: "1", URL: "https://voe.sx/e/bbb", Quality: "SD", Host: "voe"}, episodes[1])
	assert.Equal(t, "2", episodes[2].Episode)
	assert.Equal(t, "https://vidmoly.to/embed-ccc.html", episodes[2].URL)
	assert.Equal(t, "SD", episodes[2].Quality)
	assert.Equal(t, Episode{Episode: "3", URL: "https://streamtape.com/e/ddd", Quality: "FHD", Host: "streamtape"}, episodes[3])
}

func TestParseEpisodesQualityStaysWithItsEpisode(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		expected []string
	}{
		{
			name:     "Label after the next episode",
			page:     `<div class="eps">1!https://vidmoly.to/embed-aaa.html 2!https://voe.sx/e/bbb 1080p</div>`,
			expected: []string{"SD", "FHD"},
		},
		{
			name:     "Label before the next episode",
			page:     `<div class="eps">1!https://vidmoly.to/embed-aaa.html 720p 2!https://voe.sx/e/bbb</div>`,
			expected: []string{"HD", "SD"},
		},
		{
			name:     "Bare links",
			page:     `<div class="eps">https://vidmoly.to/embed-aaa.html https://voe.sx/e/bbb 1080p</div>`,
			expected: []string{"SD", "FHD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			episodes, err := ParseEpisodes(tt.page)
			require.NoError(t, err)
			require.Len(t, episodes, len(tt.expected))
			for i, want := range tt.expected {
				assert.Equal(t, want, episodes[i].Quality, "episode %s", episodes[i].Episode)
			}
		})
	}
}

func TestParseEpisodesFallbackNumbering(t *testing.T) {
	page := `<div class="eps">https://vidmoly.to/embed-x.html https://video.sibnet.ru/shell.php?videoid=1</div>`

	episodes, err := ParseEpisodes(page)
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	assert.Equal(t, "1", episodes[0].Episode)
	assert.Equal(t, "vidmoly", episodes[0].Host)
	assert.Equal(t, "2", episodes[1].Episode)
	assert.Equal(t, "sibnet", episodes[1].Host)
}

func TestParseEpisodesWithoutEndMarker(t *testing.T) {
	episodes, err := ParseEpisodes(`<div class="eps">12!https://uqload.io/embed-1.html`)
	require.NoError(t, err)
	require.Len(t, episodes, 1)
	assert.Equal(t, "12", episodes[0].Episode)
	assert.Equal(t, "uqload", episodes[0].Host)
}

func TestParseEpisodesEmptySection(t *testing.T) {
	episodes, err := ParseEpisodes(`<div class="eps"></div>`)
	require.NoError(t, err)
	assert.NotNil(t, episodes)
	assert.Empty(t, episodes)
}

func TestParseEpisodesMissingSection(t *testing.T) {
	_, err := ParseEpisodes(`<html><body>Rien ici</body></html>`)
	assert.ErrorIs(t, err, ErrEpisodesNotFound)
}

func TestInferQuality(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"https://host/video_1080p.mp4", "FHD"},
		{"https://host/video_720p.mp4", "HD"},
		{"https://host/e/x HD", "HD"},
		{"https://host/e/x", "SD"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, inferQuality(tt.text))
		})
	}
}

func TestInferHost(t *testing.T) {
	assert.Equal(t, "netu", inferHost("https://waaw.to/f/abc", ""))
	assert.Equal(t, "mixdrop", inferHost("https://mixdroop.co/e/abc", ""))
	assert.Equal(t, "example.org", inferHost("https://www.example.org/e/abc", ""))
	assert.Equal(t, "dood", inferHost("not a url", "lien dood"))
	assert.Equal(t, "unknown", inferHost("not a url", ""))
}
