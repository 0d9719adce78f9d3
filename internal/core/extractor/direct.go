package extractor

import (
	"context"
	"strings"
)

// DirectExtractor is the passthrough at the end of the chain: a URL that
// already points at a media file is returned as is.
type DirectExtractor struct{}

// Name returns the extractor name
func (d *DirectExtractor) Name() string {
	return "direct"
}

// Match always returns true - this is the fallback extractor
func (d *DirectExtractor) Match(rawURL string) bool {
	return true
}

// Extract succeeds only for URLs carrying a known video extension
func (d *DirectExtractor) Extract(ctx context.Context, rawURL string) Result {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL != "" && hasVideoExtension(rawURL) {
		return Success(d.Name(), "already_direct", rawURL, nil)
	}
	return Failure(d.Name(), ErrorUnsupported, "URL not recognized as a direct video link")
}
