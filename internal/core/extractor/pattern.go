package extractor

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Pattern looks for a media URL in an embed page body
type Pattern interface {
	// Name is reported as Result.Method when the pattern matches
	Name() string

	// Find returns the raw (uncleaned) capture
	Find(html string) (string, bool)
}

// PatternKind selects the Pattern implementation built by Compile
type PatternKind string

const (
	KindRegex       PatternKind = "regex"
	KindSourcesJSON PatternKind = "sources_json"
	KindScan        PatternKind = "scan"
)

// Compile builds a Pattern from its declarative form, as stored in rule tables
func Compile(name string, kind PatternKind, expr string) (Pattern, error) {
	switch kind {
	case KindRegex, "":
		return Regex(name, expr)
	case KindSourcesJSON:
		return SourcesJSON(name, expr)
	case KindScan:
		return Scan(name), nil
	default:
		return nil, fmt.Errorf("unknown pattern kind %q", kind)
	}
}

type regexPattern struct {
	name string
	re   *regexp.Regexp
}

// Regex matches expr and captures its first group (or the whole match when
// the expression has no group)
func Regex(name, expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", name, err)
	}
	return &regexPattern{name: name, re: re}, nil
}

func (p *regexPattern) Name() string { return p.name }

func (p *regexPattern) Find(html string) (string, bool) {
	m := p.re.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	if len(m) > 1 && m[1] != "" {
		return m[1], true
	}
	if m[0] == "" {
		return "", false
	}
	return m[0], true
}

type sourcesJSONPattern struct {
	name string
	re   *regexp.Regexp
}

// SourcesJSON captures a JS array literal with expr (first group) and reads
// the first element's "file" (or "src") after permissive JSON normalization
func SourcesJSON(name, expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", name, err)
	}
	return &sourcesJSONPattern{name: name, re: re}, nil
}

func (p *sourcesJSONPattern) Name() string { return p.name }

func (p *sourcesJSONPattern) Find(html string) (string, bool) {
	m := p.re.FindStringSubmatch(html)
	if len(m) < 2 {
		return "", false
	}
	return firstSourceFile(m[1])
}

var trailingComma = regexp.MustCompile(`,\s*([\]}])`)

// firstSourceFile parses a loosely written JS array such as
// [{file:'a.mp4',label:'HD',},] and returns the first file entry
func firstSourceFile(raw string) (string, bool) {
	s := strings.ReplaceAll(raw, "'", `"`)
	s = quoteBareKeys(s)
	s = trailingComma.ReplaceAllString(s, "$1")

	var sources []map[string]any
	if err := json.Unmarshal([]byte(s), &sources); err != nil {
		return "", false
	}
	for _, src := range sources {
		for _, key := range []string{"file", "src"} {
			if v, ok := src[key].(string); ok && strings.TrimSpace(v) != "" {
				return v, true
			}
		}
	}
	return "", false
}

// quoteBareKeys wraps unquoted object keys in double quotes, leaving string
// literals untouched
func quoteBareKeys(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)
	inString := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			b.WriteByte(ch)
			if ch == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			b.WriteByte(ch)
			continue
		}
		if isIdentStart(ch) {
			j := i
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			k := j
			for k < len(s) && (s[k] == ' ' || s[k] == '\t' || s[k] == '\n' || s[k] == '\r') {
				k++
			}
			if k < len(s) && s[k] == ':' {
				b.WriteByte('"')
				b.WriteString(s[i:j])
				b.WriteByte('"')
			} else {
				b.WriteString(s[i:j])
			}
			i = j - 1
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

type scanPattern struct {
	name string
}

var anyURL = regexp.MustCompile(`(?i)https?:\\?/\\?/[^\s"'<>()\[\]{}]+`)

// Scan walks every URL-looking substring and keeps the first one with a
// video extension that is not served by a tracker or static-asset domain
func Scan(name string) Pattern {
	return &scanPattern{name: name}
}

func (p *scanPattern) Name() string { return p.name }

func (p *scanPattern) Find(html string) (string, bool) {
	for _, candidate := range anyURL.FindAllString(html, -1) {
		if !hasVideoExtension(candidate) {
			continue
		}
		if isExcludedHost(strings.ReplaceAll(candidate, `\/`, "/")) {
			continue
		}
		return candidate, true
	}
	return "", false
}

// mustPattern panics on invalid built-in patterns; only used for package-level tables
func mustPattern(p Pattern, err error) Pattern {
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultPatterns is the chain used for XFileSharing-style players (vidmoly and
// friends), ordered from most to least specific
func DefaultPatterns() []Pattern {
	const exts = `(?:mp4|m3u8|mkv|webm)`
	return []Pattern{
		mustPattern(Regex("kodi_pattern", `(?is)sources\s*:\s*\[\s*\{\s*file\s*:\s*"([^"]+)"`)),
		mustPattern(SourcesJSON("json_sources", `(?is)sources\s*:\s*(\[[^\]]+\])`)),
		mustPattern(Regex("direct_file", `(?i)file\s*:\s*["'](https?://[^"']+\.`+exts+`[^"']*)["']`)),
		mustPattern(Regex("direct_src", `(?i)src\s*:\s*["'](https?://[^"']+\.`+exts+`[^"']*)["']`)),
		mustPattern(Regex("direct_quoted", `(?i)"(https?://[^"]+\.`+exts+`[^"]*)"`)),
		Scan("fallback"),
	}
}
