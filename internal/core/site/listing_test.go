package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<html><body>
<div id="dle-content">
  <div class="mov clearfix">
    <div class="mov-i img-box"><img src="/uploads/posters/frieren.jpg" alt="Frieren wiflix"></div>
    <a class="mov-t nowrap" href="/animes-vostfr/1234-frieren.html">Frieren</a>
    <div class="nbloc1"><span class="block-sai">Saison 1</span></div>
    <div class="nbloc2"><b>Version</b> VOSTFR</div>
    <div class="mov-lines"><div class="mov-label">Année de sortie :</div><div>2023</div></div>
    <div class="movie-desc">Synopsis: Après la défaite du roi démon, l'elfe Frieren voyage.</div>
  </div>
  <div class="mov clearfix">
    <img src="https://cdn.example/your-name.jpg" alt="Your Name">
    <a href="https://www.frenchanime.com/films-vf-vostfr/55-your-name.html">Your Name</a>
    <div class="short-desc">Deux lycéens échangent leurs corps dans leurs rêves.</div>
  </div>
  <div class="mov clearfix">
    <img src="/uploads/no-link.jpg" alt="No link">
  </div>
  <div class="mov clearfix">
    <a href="/animes-vf/9-untitled.html">Untitled</a>
  </div>
</div>
<div class="navigation"><a href="https://www.frenchanime.com/animes-vostfr/page/2/">2</a></div>
</body></html>`

func TestParseListing(t *testing.T) {
	entries, next, err := ParseListing(listingPage, "https://www.frenchanime.com", "https://www.frenchanime.com/animes-vostfr/", 30)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "Frieren", first.Title)
	assert.Equal(t, "https://www.frenchanime.com/uploads/posters/frieren.jpg", first.Thumbnail)
	assert.Equal(t, "https://www.frenchanime.com/animes-vostfr/1234-frieren.html", first.URL)
	assert.Equal(t, "Saison 1", first.Season)
	assert.Equal(t, "VOSTFR", first.Version)
	assert.Equal(t, "Après la défaite du roi démon, l'elfe Frieren voyage.", first.Description)
	assert.Equal(t, "2023", first.Year)
	assert.Equal(t, KindSerie, first.Type)

	second := entries[1]
	assert.Equal(t, "Your Name", second.Title)
	assert.Equal(t, KindFilm, second.Type)
	assert.Equal(t, "Deux lycéens échangent leurs corps dans leurs rêves.", second.Description)
	assert.Empty(t, second.Season)
	assert.Empty(t, second.Year)

	assert.Equal(t, "https://www.frenchanime.com/animes-vostfr/page/2/", next)
}

func TestParseListingRespectsMax(t *testing.T) {
	entries, _, err := ParseListing(listingPage, "https://www.frenchanime.com", "https://www.frenchanime.com/", 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestParseListingNoContainers(t *testing.T) {
	entries, next, err := ParseListing("<html><body><p>Maintenance</p></body></html>", "https://www.frenchanime.com", "https://www.frenchanime.com/", 30)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
	assert.Empty(t, next)
}

func TestParseListingFallbackContainers(t *testing.T) {
	page := `<div class="movie-item"><img src="/a.jpg" alt="One Piece"><a href="/animes-vf/1-one-piece.html">x</a></div>`

	entries, _, err := ParseListing(page, "https://www.frenchanime.com", "https://www.frenchanime.com/", 30)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "One Piece", entries[0].Title)
}

func TestParseListingLongDescription(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "mot "
	}
	page := `<div class="mov clearfix"><img src="/a.jpg" alt="A"><a href="/a.html">A</a><div class="desc">` + long + `</div></div>`

	entries, _, err := ParseListing(page, "https://www.frenchanime.com", "https://www.frenchanime.com/", 30)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Len(t, []rune(entries[0].Description), descriptionRunes)
}

func TestFindNextPage(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		pageURL  string
		expected string
	}{
		{
			name:     "Explicit next link",
			html:     `<a class="page-next" href="/animes-vf/page/4/">Suivant</a>`,
			pageURL:  "https://www.frenchanime.com/animes-vf/page/3/",
			expected: "https://www.frenchanime.com/animes-vf/page/4/",
		},
		{
			name:     "Numbered link",
			html:     `<a href="/animes-vf/page/2/">2</a><a href="/animes-vf/page/3/">3</a>`,
			pageURL:  "https://www.frenchanime.com/animes-vf/page/2/",
			expected: "https://www.frenchanime.com/animes-vf/page/3/",
		},
		{
			name:     "Derived from current URL",
			html:     `<p>no links</p>`,
			pageURL:  "https://www.frenchanime.com/animes-vf/page/7/",
			expected: "https://www.frenchanime.com/animes-vf/page/8/",
		},
		{
			name:    "Last page",
			html:    `<p>no links</p>`,
			pageURL: "https://www.frenchanime.com/animes-vf/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, next, err := ParseListing(tt.html, "https://www.frenchanime.com", tt.pageURL, 30)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, next)
		})
	}
}
