package site

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

const descriptionRunes = 150

var (
	versionRe  = regexp.MustCompile(`Version[^>]*>([^<]+)`)
	synopsisRe = regexp.MustCompile(`(?is)Synopsis[:\s]*(.+)`)
	yearRe     = regexp.MustCompile(`(?i)(?:Année|Date de sortie|Sortie)[^0-9]{0,40}((?:19|20)\d{2})`)
	pageRe     = regexp.MustCompile(`page/(\d+)/`)
	nextRe     = regexp.MustCompile(`(?i)next|suivant`)
)

// ParseListing extracts up to max entries from a listing page. A page with
// no recognizable card yields an empty, non-nil slice.
func ParseListing(html, baseURL, pageURL string, max int) ([]AnimeEntry, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to parse listing HTML")
	}

	containers := doc.Find("div.mov.clearfix")
	if containers.Length() == 0 {
		containers = doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			return strings.Contains(class, "mov")
		})
	}

	entries := make([]AnimeEntry, 0)
	containers.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if max > 0 && len(entries) >= max {
			return false
		}
		if entry, ok := parseEntry(s, baseURL); ok {
			entries = append(entries, entry)
		}
		return true
	})

	return entries, findNextPage(doc, pageURL), nil
}

// parseEntry reads one card; a malformed card is skipped, never fatal
func parseEntry(s *goquery.Selection, baseURL string) (entry AnimeEntry, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	img := s.Find("img").First()
	entry.Thumbnail = resolveURL(baseURL, attr(img, "src"))
	entry.Title = strings.TrimSpace(strings.ReplaceAll(attr(img, "alt"), " wiflix", ""))
	entry.URL = resolveURL(baseURL, attr(s.Find("a[href]").First(), "href"))

	entry.Season = strings.TrimSpace(s.Find(`[class*="sai"]`).First().Text())

	if outer, err := goquery.OuterHtml(s); err == nil {
		if m := versionRe.FindStringSubmatch(outer); m != nil {
			entry.Version = strings.TrimSpace(m[1])
		}
	}

	if desc := s.Find(`[class*="desc"]`).First(); desc.Length() > 0 {
		text := collapseSpaces(desc.Text())
		if m := synopsisRe.FindStringSubmatch(text); m != nil {
			entry.Description = strings.TrimSpace(m[1])
		} else {
			entry.Description = truncateRunes(text, descriptionRunes)
		}
	}

	if m := yearRe.FindStringSubmatch(collapseSpaces(s.Text())); m != nil {
		entry.Year = m[1]
	}

	entry.Type = KindSerie
	if strings.Contains(entry.URL, "films-vf-vostfr") {
		entry.Type = KindFilm
	}

	return entry, entry.Title != "" && entry.URL != ""
}

// findNextPage looks for an explicit next link, then a link to the following
// page number, then derives it from the current URL
func findNextPage(doc *goquery.Document, pageURL string) string {
	var next string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if nextRe.MatchString(class) {
			next = resolveURL(pageURL, attr(s, "href"))
			return false
		}
		return true
	})
	if next != "" {
		return next
	}

	current := 1
	m := pageRe.FindStringSubmatch(pageURL)
	if m != nil {
		current, _ = strconv.Atoi(m[1])
	}

	want := fmt.Sprintf("page/%d/", current+1)
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if href := attr(s, "href"); strings.Contains(href, want) {
			next = resolveURL(pageURL, href)
			return false
		}
		return true
	})
	if next != "" {
		return next
	}

	if m != nil {
		return strings.Replace(pageURL, m[0], want, 1)
	}
	return ""
}

func attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return strings.TrimSpace(v)
}

// resolveURL makes ref absolute against base; empty refs stay empty
func resolveURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
