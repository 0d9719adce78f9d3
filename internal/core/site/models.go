package site

// Kind of a listing entry
const (
	KindFilm  = "film"
	KindSerie = "serie"
)

// AnimeEntry is one card of a listing page
type AnimeEntry struct {
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail"`
	URL         string `json:"url"`
	Season      string `json:"season"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Year        string `json:"year"`
	Type        string `json:"type"`
}

// Listing is a parsed listing or search page
type Listing struct {
	SourceURL string       `json:"source_url"`
	Results   []AnimeEntry `json:"results"`
	NextPage  string       `json:"next_page,omitempty"`
}

// Episode is one embed link of an anime detail page. An episode number
// appears once per hoster it is available on.
type Episode struct {
	Episode string `json:"episode"`
	URL     string `json:"url"`
	Quality string `json:"quality"`
	Host    string `json:"host"`
}

// Genre is a browsable category of the site
type Genre struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Slug string `json:"slug"`
}
