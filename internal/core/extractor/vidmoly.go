package extractor

import "github.com/guiyumin/animelink/internal/core/fetch"

// VidmolyCanonicalHost is the domain vidmoly pages are fetched from
const VidmolyCanonicalHost = "vidmoly.net"

// VidmolyHosts are the hostname fragments routed to the vidmoly extractor
var VidmolyHosts = []string{"vidmoly.to", "vidmoly.net", "vidmoly.me", "vidmoly.biz", "vidmoly"}

// VidmolyAliases are the mirror domains rewritten to VidmolyCanonicalHost
var VidmolyAliases = map[string]string{
	"vidmoly.to":  VidmolyCanonicalHost,
	"vidmoly.me":  VidmolyCanonicalHost,
	"vidmoly.biz": VidmolyCanonicalHost,
}

// NewVidmoly returns the primary extractor. Besides vidmoly mirrors it takes
// any "/embed-" URL, the path shape shared by XFileSharing players.
func NewVidmoly(client *fetch.Client) *PatternExtractor {
	return NewPatternExtractor(PatternConfig{
		Name:        "vidmoly",
		Keywords:    VidmolyHosts,
		PathMarkers: []string{"/embed-"},
		Aliases:     VidmolyAliases,
		Patterns:    DefaultPatterns(),
	}, client)
}
