package fetch

import (
	"io"
	"net/http"
	"strings"
)

// RoundTripFunc adapts a function to http.RoundTripper
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Pages serves canned bodies keyed by exact URL; unknown URLs answer 404.
// Handy for exercising scrapers without touching the network.
func Pages(pages map[string]string) http.RoundTripper {
	return RoundTripFunc(func(r *http.Request) (*http.Response, error) {
		body, ok := pages[r.URL.String()]
		if !ok {
			return textResponse(r, http.StatusNotFound, "not found"), nil
		}
		return textResponse(r, http.StatusOK, body), nil
	})
}

func textResponse(r *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Status:        http.StatusText(status),
		Header:        http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       r,
	}
}
