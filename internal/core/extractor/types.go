package extractor

import (
	"context"
)

// ErrorKind classifies a failed extraction
type ErrorKind string

const (
	ErrorNetwork     ErrorKind = "network_error"
	ErrorNotFound    ErrorKind = "not_found"
	ErrorUnsupported ErrorKind = "unsupported"
	ErrorUnavailable ErrorKind = "unavailable"
	ErrorInternal    ErrorKind = "internal_error"
)

// Extractor resolves an embed page to a playable media URL
type Extractor interface {
	// Name returns the extractor name (e.g., "vidmoly", "direct")
	Name() string

	// Match returns true if this extractor can handle the URL.
	// It must not panic on malformed input.
	Match(rawURL string) bool

	// Extract never returns an error: every failure is folded into the Result
	Extract(ctx context.Context, rawURL string) Result
}

// Result is the only shape handed back to API and CLI callers
type Result struct {
	Success   bool              `json:"success"`
	URL       string            `json:"url,omitempty"`
	Method    string            `json:"method,omitempty"`
	Extractor string            `json:"extractor"`
	Headers   map[string]string `json:"headers,omitempty"`
	Error     string            `json:"error,omitempty"`
	ErrorKind ErrorKind         `json:"error_type,omitempty"`
	Debug     *Debug            `json:"debug,omitempty"`
}

// Debug carries diagnostics for a failed pattern chain
type Debug struct {
	URL           string   `json:"url"`
	HTMLPreview   string   `json:"html_preview,omitempty"`
	PatternsTried []string `json:"patterns_tried,omitempty"`
}

// Success builds a successful Result
func Success(extractor, method, mediaURL string, headers map[string]string) Result {
	return Result{
		Success:   true,
		URL:       mediaURL,
		Method:    method,
		Extractor: extractor,
		Headers:   headers,
	}
}

// Failure builds a failed Result
func Failure(extractor string, kind ErrorKind, msg string) Result {
	return Result{
		Success:   false,
		Extractor: extractor,
		Error:     msg,
		ErrorKind: kind,
	}
}
