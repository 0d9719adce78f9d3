package site

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrEpisodesNotFound is returned when a page has no episode block
var ErrEpisodesNotFound = errors.New("episodes section not found")

const (
	episodesStart = `class="eps"`
	episodesEnd   = "/div>"
	contextWindow = 40
)

var (
	episodeMarkerRe = regexp.MustCompile(`(\d+)!`)
	bareURLRe       = regexp.MustCompile(`https?://[^\s,|@<"']+`)
	linkSeparators  = regexp.MustCompile(`[,|@]`)
)

// hostKeywords maps URL fragments to hoster names, first match wins
var hostKeywords = []struct {
	keyword string
	host    string
}{
	{"vidmoly", "vidmoly"},
	{"voe", "voe"},
	{"streamtape", "streamtape"},
	{"strtape", "streamtape"},
	{"stape", "streamtape"},
	{"dood", "dood"},
	{"ds2play", "dood"},
	{"mixdro", "mixdrop"},
	{"filelions", "filelions"},
	{"netu", "netu"},
	{"waaw", "netu"},
	{"hqq", "netu"},
	{"streamlare", "streamlare"},
	{"streamvid", "streamvid"},
	{"vudeo", "vudeo"},
	{"upstream", "upstream"},
	{"videobin", "videobin"},
	{"sibnet", "sibnet"},
	{"uqload", "uqload"},
	{"sendvid", "sendvid"},
	{"myvi", "myvi"},
}

// ParseEpisodes reads the hidden episode block of an anime page.
//
// The block looks like `<div class="eps">1!//a.host/x,//b.host/y 2!//a.host/z</div>`:
// an episode number, "!", then the embed links separated by ",", "|" or "@".
func ParseEpisodes(html string) ([]Episode, error) {
	start := strings.Index(html, episodesStart)
	if start < 0 {
		return nil, ErrEpisodesNotFound
	}
	section := html[start:]
	if end := strings.Index(section, episodesEnd); end >= 0 {
		section = section[:end]
	}
	section = strings.ReplaceAll(section, "!//", "!https://")
	section = strings.ReplaceAll(section, ",//", ",https://")

	episodes := make([]Episode, 0)
	markers := episodeMarkerRe.FindAllStringSubmatchIndex(section, -1)
	for i, m := range markers {
		number := section[m[2]:m[3]]
		bodyEnd := len(section)
		if i+1 < len(markers) {
			bodyEnd = markers[i+1][0]
		}
		body := section[m[1]:bodyEnd]
		if cut := strings.IndexAny(body, " \t\r\n<\"'"); cut >= 0 {
			body = body[:cut]
		}
		offset := m[1]
		for _, link := range linkSeparators.Split(body, -1) {
			link = strings.TrimSpace(link)
			if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
				pos := offset + strings.Index(section[offset:], link)
				episodes = append(episodes, newEpisode(number, link, window(section, pos, len(link), m[0], bodyEnd)))
			}
		}
	}

	if len(episodes) == 0 {
		locs := bareURLRe.FindAllStringIndex(section, -1)
		for i, loc := range locs {
			link := section[loc[0]:loc[1]]
			hi := len(section)
			if i+1 < len(locs) {
				hi = locs[i+1][0]
			}
			episodes = append(episodes, newEpisode(strconv.Itoa(i+1), link, window(section, loc[0], len(link), loc[0], hi)))
		}
	}

	return episodes, nil
}

func newEpisode(number, link, context string) Episode {
	return Episode{
		Episode: number,
		URL:     link,
		Quality: inferQuality(link + " " + context),
		Host:    inferHost(link, context),
	}
}

// window returns the text around s[pos:pos+n], contextWindow bytes each
// side, kept inside s[lo:hi] so neighbouring episodes do not leak in
func window(s string, pos, n, lo, hi int) string {
	from := max(pos-contextWindow, lo, 0)
	to := min(pos+n+contextWindow, hi, len(s))
	if from > to {
		return ""
	}
	return strings.ToValidUTF8(s[from:to], "")
}

func inferQuality(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "1080"):
		return "FHD"
	case strings.Contains(lower, "720"), strings.Contains(lower, "hd"):
		return "HD"
	default:
		return "SD"
	}
}

// inferHost names the hoster of link from the link itself, then its
// hostname, then the text around it
func inferHost(link, context string) string {
	if host := hostFromKeywords(link); host != "" {
		return host
	}
	if u, err := url.Parse(link); err == nil && u.Hostname() != "" {
		return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	}
	if host := hostFromKeywords(context); host != "" {
		return host
	}
	return "unknown"
}

func hostFromKeywords(text string) string {
	lower := strings.ToLower(text)
	for _, k := range hostKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.host
		}
	}
	return ""
}
