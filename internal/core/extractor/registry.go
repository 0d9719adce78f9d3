package extractor

import "strings"

// Selector picks an extractor for a URL: the first element of the chain
// whose Match accepts it, else the fallback. The fallback is always last.
type Selector struct {
	chain    []Extractor
	fallback Extractor
}

// Candidate records how one chain element answered Match for a URL
type Candidate struct {
	Name    string `json:"name"`
	Matched bool   `json:"matched"`
}

// NewSelector builds a selector. Nil extractors in chain are ignored; a nil
// fallback is replaced by the direct passthrough.
func NewSelector(fallback Extractor, chain ...Extractor) *Selector {
	if fallback == nil {
		fallback = &DirectExtractor{}
	}
	s := &Selector{fallback: fallback}
	for _, e := range chain {
		if e != nil {
			s.chain = append(s.chain, e)
		}
	}
	return s
}

// Select never returns nil
func (s *Selector) Select(rawURL string) Extractor {
	for _, e := range s.chain {
		if safeMatch(e, rawURL) {
			return e
		}
	}
	return s.fallback
}

// Candidates evaluates the whole chain, for diagnostics
func (s *Selector) Candidates(rawURL string) []Candidate {
	out := make([]Candidate, 0, len(s.chain)+1)
	for _, e := range s.chain {
		out = append(out, Candidate{Name: e.Name(), Matched: safeMatch(e, rawURL)})
	}
	return append(out, Candidate{Name: s.fallback.Name(), Matched: true})
}

// Extractors returns the chain in order, fallback included
func (s *Selector) Extractors() []Extractor {
	out := make([]Extractor, 0, len(s.chain)+1)
	out = append(out, s.chain...)
	return append(out, s.fallback)
}

// safeMatch treats a panicking predicate as a non-match
func safeMatch(e Extractor, rawURL string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return e.Match(rawURL)
}

// String lists the chain, e.g. "vidmoly -> browser -> direct"
func (s *Selector) String() string {
	names := make([]string, 0, len(s.chain)+1)
	for _, e := range s.Extractors() {
		names = append(names, e.Name())
	}
	return strings.Join(names, " -> ")
}
