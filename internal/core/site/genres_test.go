package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGenres(t *testing.T) {
	page := `<html><body>
<div class="side-menu">
  <div class="side-title">Menu</div>
  <a href="/animes-vf/">Animes VF</a>
  <div class="side-genres">
    <span><b>Animes par genre</b></span>
    <a href="/genre/action/">action</a>
    <a href="/genre/shonen/">Shōnen</a>
    <a href="/genre/x/">A</a>
  </div>
</div>
</body></html>`

	genres := ParseGenres(page, "https://www.frenchanime.com")

	require.Len(t, genres, 2)
	assert.Equal(t, Genre{Name: "Action", URL: "https://www.frenchanime.com/genre/action/", Slug: "action"}, genres[0])
	assert.Equal(t, Genre{Name: "Shōnen", URL: "https://www.frenchanime.com/genre/shonen/", Slug: "shōnen"}, genres[1])
}

func TestParseGenresPrefersGenreMenuOverCards(t *testing.T) {
	page := `<html><body>
<div class="wrapper">
  <div class="sidebar">
    <div class="side-title">Animes par genre</div>
    <ul>
      <li><a href="/genre/action/">Action</a></li>
      <li><a href="/genre/drame/">Drame</a></li>
      <li><a href="/genre/romance/">Romance</a></li>
    </ul>
  </div>
  <div class="content">
    <div class="mov clearfix">
      <span>Genre:</span> <a href="/genre/action/">Action</a>
      <a href="/animes-vf/123-naruto.html">Naruto</a>
    </div>
  </div>
</div>
</body></html>`

	genres := ParseGenres(page, "https://www.frenchanime.com")

	require.Len(t, genres, 3)
	assert.Equal(t, "Action", genres[0].Name)
	assert.Equal(t, "Drame", genres[1].Name)
	assert.Equal(t, Genre{Name: "Romance", URL: "https://www.frenchanime.com/genre/romance/", Slug: "romance"}, genres[2])
	for _, g := range genres {
		assert.NotContains(t, g.URL, "naruto")
	}
}

func TestParseGenresWithoutGenreLinks(t *testing.T) {
	page := `<div class="menu"><a href="/">Accueil</a>
<div class="genres"><a href="/animes/action">Action</a><a href="/animes/drame">Drame</a></div></div>`

	genres := ParseGenres(page, "https://www.frenchanime.com")

	require.Len(t, genres, 2)
	assert.Equal(t, "https://www.frenchanime.com/animes/action", genres[0].URL)
}

func TestParseGenresFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{name: "No genre block", html: `<div class="menu"><a href="/animes-vf/">Animes VF</a></div>`},
		{name: "Genre block without links", html: `<div class="genres">Bientôt</div>`},
		{name: "Empty page", html: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			genres := ParseGenres(tt.html, "https://www.frenchanime.com/")
			require.Len(t, genres, 10)
			assert.Equal(t, Genre{Name: "Action", URL: "https://www.frenchanime.com/genre/action", Slug: "action"}, genres[0])
			assert.Equal(t, "sci-fi", genres[8].Slug)
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Comédie", capitalize("comédie"))
	assert.Equal(t, "Sci-fi", capitalize("SCI-FI"))
	assert.Equal(t, "Élite", capitalize("élite"))
	assert.Equal(t, "", capitalize(""))
}
