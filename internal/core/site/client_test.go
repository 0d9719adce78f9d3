package site

import (
	"context"
	"testing"

	"github.com/guiyumin/animelink/internal/core/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://www.frenchanime.com"

func newClient(pages map[string]string) *Client {
	return New(base+"/", 30, fetch.New(fetch.WithTransport(fetch.Pages(pages))), nil)
}

func TestCategoryURL(t *testing.T) {
	c := newClient(nil)

	tests := []struct {
		category string
		page     int
		expected string
		wantErr  bool
	}{
		{category: "news", page: 1, expected: base + "/"},
		{category: "vf", page: 0, expected: base + "/animes-vf/"},
		{category: "VOSTFR", page: 2, expected: base + "/animes-vostfr/page/2/"},
		{category: "films", page: 3, expected: base + "/films-vf-vostfr/page/3/"},
		{category: "news", page: 5, expected: base + "/page/5/"},
		{category: "manga", page: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got, err := c.CategoryURL(tt.category, tt.page)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAnimes(t *testing.T) {
	c := newClient(map[string]string{base + "/animes-vostfr/": listingPage})

	listing, err := c.Animes(context.Background(), "vostfr", 1)
	require.NoError(t, err)
	assert.Equal(t, base+"/animes-vostfr/", listing.SourceURL)
	assert.Len(t, listing.Results, 2)
	assert.Equal(t, base+"/animes-vostfr/page/2/", listing.NextPage)
}

func TestAnimesNetworkError(t *testing.T) {
	c := newClient(nil)

	listing, err := c.Animes(context.Background(), "vf", 1)
	require.Error(t, err)
	assert.True(t, fetch.IsNetwork(err))
	require.NotNil(t, listing)
	assert.NotNil(t, listing.Results)
	assert.Empty(t, listing.Results)
}

func TestSearch(t *testing.T) {
	c := newClient(map[string]string{
		base + "/index.php?do=search&subaction=search&story=one+piece": `<div class="mov clearfix"><img src="/op.jpg" alt="One Piece"><a href="/animes-vf/1-one-piece.html">One Piece</a></div>`,
	})

	listing, err := c.Search(context.Background(), " one piece ")
	require.NoError(t, err)
	require.Len(t, listing.Results, 1)
	assert.Equal(t, "One Piece", listing.Results[0].Title)

	_, err = c.Search(context.Background(), "a")
	assert.ErrorIs(t, err, ErrQueryTooShort)

	_, err = c.Search(context.Background(), " é ")
	assert.ErrorIs(t, err, ErrQueryTooShort)
}

func TestEpisodes(t *testing.T) {
	c := newClient(map[string]string{
		base + "/animes-vf/1-one-piece.html": `<div class="eps">1!//vidmoly.to/embed-a.html</div>`,
		base + "/animes-vf/2-empty.html":     `<div class="content">Bientôt</div>`,
	})

	episodes, err := c.Episodes(context.Background(), "/animes-vf/1-one-piece.html")
	require.NoError(t, err)
	require.Len(t, episodes, 1)
	assert.Equal(t, "https://vidmoly.to/embed-a.html", episodes[0].URL)

	_, err = c.Episodes(context.Background(), base+"/animes-vf/2-empty.html")
	assert.ErrorIs(t, err, ErrEpisodesNotFound)

	_, err = c.Episodes(context.Background(), base+"/animes-vf/404.html")
	assert.True(t, fetch.IsNetwork(err))
}

func TestGenres(t *testing.T) {
	c := newClient(map[string]string{base + "/": `<p>accueil</p>`})

	genres, err := c.Genres(context.Background())
	require.NoError(t, err)
	assert.Len(t, genres, 10)

	_, err = newClient(nil).Genres(context.Background())
	assert.True(t, fetch.IsNetwork(err))
}
