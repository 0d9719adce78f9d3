package site

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// defaultGenres is served when the homepage has no usable genre block
var defaultGenres = []string{
	"Action", "Aventure", "Comédie", "Drame", "Fantaisie",
	"Horreur", "Mystère", "Romance", "Sci-Fi", "Sport",
}

// DefaultGenres returns the static genre list rooted at baseURL
func DefaultGenres(baseURL string) []Genre {
	base := strings.TrimRight(baseURL, "/")
	out := make([]Genre, 0, len(defaultGenres))
	for _, name := range defaultGenres {
		slug := strings.ToLower(name)
		out = append(out, Genre{Name: name, URL: base + "/genre/" + slug, Slug: slug})
	}
	return out
}

// genreHrefRe matches links that point at a genre or category listing
var genreHrefRe = regexp.MustCompile(`(?i)/(genres?|categories|categorie|category|tags?)/|[?&](genre|cat)=`)

// ParseGenres reads the genre links of the homepage. Every div or section
// that mentions genres is scored by its genre links minus its other links;
// the best block wins, the deepest on a tie. Without genre shaped links
// the deepest mentioning block is used; without any block the default list
// is returned.
func ParseGenres(html, baseURL string) []Genre {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return DefaultGenres(baseURL)
	}

	var scored, deepest *goquery.Selection
	var bestScore, bestScoreDepth, deepestDepth int
	doc.Find("div, section").Each(func(_ int, s *goquery.Selection) {
		outer, err := goquery.OuterHtml(s)
		if err != nil {
			return
		}
		lower := strings.ToLower(outer)
		if !strings.Contains(lower, "genre") && !strings.Contains(lower, "catégorie") {
			return
		}
		links := genreLinks(s, baseURL)
		if len(links) == 0 {
			return
		}
		depth := s.Parents().Length()
		if deepest == nil || depth > deepestDepth {
			deepest, deepestDepth = s, depth
		}

		genres := 0
		for _, g := range links {
			if genreHrefRe.MatchString(g.URL) {
				genres++
			}
		}
		if genres == 0 {
			return
		}
		score := genres - (len(links) - genres)
		if scored == nil || score > bestScore || (score == bestScore && depth > bestScoreDepth) {
			scored, bestScore, bestScoreDepth = s, score, depth
		}
	})

	if scored != nil {
		return onlyGenreLinks(genreLinks(scored, baseURL))
	}
	if deepest != nil {
		return genreLinks(deepest, baseURL)
	}
	return DefaultGenres(baseURL)
}

// onlyGenreLinks keeps genre shaped links, first occurrence of each URL
func onlyGenreLinks(links []Genre) []Genre {
	out := make([]Genre, 0, len(links))
	seen := make(map[string]bool, len(links))
	for _, g := range links {
		if !genreHrefRe.MatchString(g.URL) || seen[g.URL] {
			continue
		}
		seen[g.URL] = true
		out = append(out, g)
	}
	return out
}

func genreLinks(s *goquery.Selection, baseURL string) []Genre {
	var out []Genre
	s.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		name := strings.TrimSpace(a.Text())
		if utf8.RuneCountInString(name) <= 1 {
			return
		}
		out = append(out, Genre{
			Name: capitalize(name),
			URL:  resolveURL(baseURL, attr(a, "href")),
			Slug: strings.ReplaceAll(strings.ToLower(name), " ", "-"),
		})
	})
	return out
}

// capitalize upper-cases the first rune and lower-cases the rest
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
