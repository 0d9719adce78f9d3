package extractor

import (
	"net/url"
	"strings"
)

// videoExtensions are the media suffixes the pattern chain accepts
var videoExtensions = []string{".mp4", ".m3u8", ".mkv", ".webm"}

// excludedHosts never serve the video itself: trackers, CDNs for page assets, fonts
var excludedHosts = []string{
	"googletagmanager.com",
	"google-analytics.com",
	"doubleclick.net",
	"facebook.com",
	"facebook.net",
	"cdnjs.cloudflare.com",
	"cdn.jsdelivr.net",
	"code.jquery.com",
	"fonts.googleapis.com",
	"gstatic.com",
}

// CleanURL strips the artifacts embed players leave in captured URLs:
// escaped slashes, comma-separated quality lists and the ".urlset" HLS marker.
func CleanURL(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, `\/`, "/")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, ".urlset", "")
	return strings.TrimSpace(s)
}

// SplitReferer splits the "url|Referer=host" link format used by hoster
// scripts. referer is empty when the suffix is absent.
func SplitReferer(raw string) (mediaURL, referer string) {
	idx := strings.Index(raw, "|Referer=")
	if idx < 0 {
		return raw, ""
	}
	mediaURL = raw[:idx]
	referer = strings.TrimSpace(raw[idx+len("|Referer="):])
	if referer != "" && !strings.HasPrefix(referer, "http://") && !strings.HasPrefix(referer, "https://") {
		referer = "https://" + referer
	}
	return mediaURL, referer
}

// OriginOf returns scheme://host of rawURL, or "" if it cannot be parsed
func OriginOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// NormalizeHost rewrites alias domains to their canonical domain.
// aliases maps alias host to canonical host, both lower case and without "www.".
// Normalizing an already canonical URL is a no-op.
func NormalizeHost(rawURL string, aliases map[string]string) string {
	if len(aliases) == 0 {
		return rawURL
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return rawURL
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	canonical, ok := aliases[host]
	if !ok || canonical == host {
		return rawURL
	}
	if port := u.Port(); port != "" {
		u.Host = canonical + ":" + port
	} else {
		u.Host = canonical
	}
	return u.String()
}

// hasVideoExtension reports whether s mentions one of the known video suffixes
func hasVideoExtension(s string) bool {
	lower := strings.ToLower(s)
	for _, ext := range videoExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}

// isExcludedHost reports whether rawURL points at a static-asset or tracker domain
func isExcludedHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	for _, ex := range excludedHosts {
		if host == ex || strings.HasSuffix(host, "."+ex) {
			return true
		}
	}
	return false
}
