// Package resolver turns an embed URL into a playable media URL: it runs the
// extractor picked by the selector and falls through to the hoster rule table
// when that fails.
package resolver

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/guiyumin/animelink/internal/core/extractor"
	"github.com/guiyumin/animelink/internal/core/hoster"
	"github.com/guiyumin/animelink/internal/core/logger"
)

// Diagnostics explains how a URL was resolved
type Diagnostics struct {
	Selected    string                `json:"selected"`
	Candidates  []extractor.Candidate `json:"candidates"`
	HosterRule  string                `json:"hoster_rule,omitempty"`
	Fallthrough bool                  `json:"fallthrough"`
}

// Resolver is safe for concurrent use
type Resolver struct {
	selector *extractor.Selector
	hosters  *hoster.Table
	logger   *log.Logger
}

// New creates a Resolver. hosters may be nil.
func New(selector *extractor.Selector, hosters *hoster.Table, l *log.Logger) *Resolver {
	if selector == nil {
		selector = extractor.NewSelector(nil)
	}
	if l == nil {
		l = logger.Discard()
	}
	return &Resolver{selector: selector, hosters: hosters, logger: l}
}

// Selector returns the extractor chain
func (r *Resolver) Selector() *extractor.Selector {
	return r.selector
}

// Hosters returns the hoster table, possibly nil
func (r *Resolver) Hosters() *hoster.Table {
	return r.hosters
}

// Resolve never fails: every problem is reported inside the Result
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (extractor.Result, Diagnostics) {
	rawURL = strings.TrimSpace(rawURL)
	e := r.selector.Select(rawURL)
	diag := Diagnostics{
		Selected:   e.Name(),
		Candidates: r.selector.Candidates(rawURL),
	}

	res := safeExtract(ctx, e, rawURL)
	if res.Success || r.hosters == nil || !r.hosters.Ready() {
		r.logResult(rawURL, res)
		return res, diag
	}

	rule, ok := r.hosters.Lookup(rawURL)
	if !ok {
		r.logResult(rawURL, res)
		return res, diag
	}
	diag.HosterRule = strings.TrimPrefix(rule.Name(), hoster.ExtractorPrefix)
	if diag.HosterRule == e.Name() {
		r.logResult(rawURL, res)
		return res, diag
	}

	r.logger.Debug("falling through to hoster rule", "url", rawURL, "extractor", e.Name(), "rule", diag.HosterRule)
	diag.Fallthrough = true
	if alt := safeExtract(ctx, rule, rawURL); alt.Success {
		res = alt
	}
	r.logResult(rawURL, res)
	return res, diag
}

func (r *Resolver) logResult(rawURL string, res extractor.Result) {
	if res.Success {
		r.logger.Info("extracted", "url", rawURL, "extractor", res.Extractor, "method", res.Method)
		return
	}
	r.logger.Warn("extraction failed", "url", rawURL, "extractor", res.Extractor, "kind", res.ErrorKind, "err", res.Error)
}

func safeExtract(ctx context.Context, e extractor.Extractor, rawURL string) (res extractor.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = extractor.Failure(e.Name(), extractor.ErrorInternal, "extractor panicked")
		}
	}()
	return e.Extract(ctx, rawURL)
}
