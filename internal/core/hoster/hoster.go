// Package hoster holds the versioned table of per-hoster extraction rules.
//
// The table ships embedded in the binary. A newer rules file can be pulled
// into the cache directory with Sync; Init picks it up when its version is
// higher than the embedded one.
package hoster

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/guiyumin/animelink/internal/core/extractor"
	"github.com/guiyumin/animelink/internal/core/fetch"
	"github.com/guiyumin/animelink/internal/core/logger"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yml
var embeddedRules []byte

const (
	// CacheFileName is the rules file looked up in the cache directory
	CacheFileName = "hosters.yml"

	// ExtractorPrefix is prepended to rule names in extraction results
	ExtractorPrefix = "hoster_"

	tableName = "hoster_table"

	SourceEmbedded = "embedded"
	SourceCache    = "cache"
)

// RuleSet is the on-disk form of the table
type RuleSet struct {
	Version int    `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// Rule describes how to extract media from one hoster
type Rule struct {
	Name     string            `yaml:"name"`
	Keywords []string          `yaml:"keywords"`
	Aliases  map[string]string `yaml:"aliases,omitempty"`
	Patterns []PatternSpec     `yaml:"patterns"`
}

// PatternSpec is the declarative form of an extractor.Pattern
type PatternSpec struct {
	Name string                `yaml:"name"`
	Kind extractor.PatternKind `yaml:"kind,omitempty"`
	Expr string                `yaml:"expr,omitempty"`
}

// Status describes the loaded table
type Status struct {
	Ready      bool     `json:"ready"`
	Version    int      `json:"version"`
	Source     string   `json:"source,omitempty"`
	Rules      []string `json:"rules"`
	RulesCount int      `json:"rules_count"`
	CacheDir   string   `json:"cache_dir"`
	Error      string   `json:"error,omitempty"`
}

type compiledRule struct {
	name      string
	extractor *extractor.PatternExtractor
}

// Table is safe for concurrent use; Init and Sync swap the rules under a lock.
type Table struct {
	mu       sync.RWMutex
	cacheDir string
	client   *fetch.Client
	logger   *log.Logger

	ready   bool
	version int
	source  string
	rules   []compiledRule
	lastErr string
}

// New creates an empty table. It is not ready until Init is called.
func New(cacheDir string, client *fetch.Client, l *log.Logger) *Table {
	if client == nil {
		client = fetch.New()
	}
	if l == nil {
		l = logger.Discard()
	}
	return &Table{cacheDir: cacheDir, client: client, logger: l}
}

// ParseRules decodes and validates a rules file
func ParseRules(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse hoster rules: %w", err)
	}
	if _, err := compile(&rs, nil); err != nil {
		return nil, err
	}
	return &rs, nil
}

func compile(rs *RuleSet, client *fetch.Client) ([]compiledRule, error) {
	if rs.Version <= 0 {
		return nil, fmt.Errorf("hoster rules: missing or invalid version")
	}
	if len(rs.Rules) == 0 {
		return nil, fmt.Errorf("hoster rules: no rules defined")
	}

	seen := make(map[string]bool, len(rs.Rules))
	out := make([]compiledRule, 0, len(rs.Rules))
	for i, r := range rs.Rules {
		name := strings.ToLower(strings.TrimSpace(r.Name))
		if name == "" {
			return nil, fmt.Errorf("hoster rule #%d: missing name", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("hoster rule %s: duplicate name", name)
		}
		seen[name] = true
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("hoster rule %s: no keywords", name)
		}
		if len(r.Patterns) == 0 {
			return nil, fmt.Errorf("hoster rule %s: no patterns", name)
		}

		patterns := make([]extractor.Pattern, 0, len(r.Patterns))
		for _, spec := range r.Patterns {
			if spec.Name == "" {
				return nil, fmt.Errorf("hoster rule %s: pattern without name", name)
			}
			if spec.Kind != extractor.KindScan && spec.Expr == "" {
				return nil, fmt.Errorf("hoster rule %s: pattern %s has no expression", name, spec.Name)
			}
			p, err := extractor.Compile(spec.Name, spec.Kind, spec.Expr)
			if err != nil {
				return nil, fmt.Errorf("hoster rule %s: %w", name, err)
			}
			patterns = append(patterns, p)
		}

		out = append(out, compiledRule{
			name: name,
			extractor: extractor.NewPatternExtractor(extractor.PatternConfig{
				Name:     ExtractorPrefix + name,
				Keywords: r.Keywords,
				Aliases:  r.Aliases,
				Patterns: patterns,
			}, client),
		})
	}
	return out, nil
}

// Init loads the embedded table, then the cached rules file when it is newer.
// A broken cache file is logged and ignored.
func (t *Table) Init() Status {
	rs, err := ParseRules(embeddedRules)
	if err != nil {
		// embedded rules are validated by tests; reaching this is a build defect
		t.mu.Lock()
		t.ready = false
		t.lastErr = err.Error()
		t.mu.Unlock()
		t.logger.Error("embedded hoster rules are invalid", "err", err)
		return t.Status()
	}
	source := SourceEmbedded

	if cached, err := t.loadCache(); err != nil {
		t.logger.Warn("ignoring cached hoster rules", "path", t.cachePath(), "err", err)
	} else if cached != nil && cached.Version > rs.Version {
		rs, source = cached, SourceCache
	}

	if err := t.swap(rs, source); err != nil {
		t.mu.Lock()
		t.lastErr = err.Error()
		t.mu.Unlock()
		return t.Status()
	}

	st := t.Status()
	t.logger.Info("hoster rules loaded", "version", st.Version, "source", st.Source, "rules", st.RulesCount)
	return st
}

func (t *Table) cachePath() string {
	if t.cacheDir == "" {
		return ""
	}
	return filepath.Join(t.cacheDir, CacheFileName)
}

// loadCache returns nil, nil when there is no cache file
func (t *Table) loadCache() (*RuleSet, error) {
	path := t.cachePath()
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseRules(data)
}

func (t *Table) swap(rs *RuleSet, source string) error {
	rules, err := compile(rs, t.client)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rules = rules
	t.version = rs.Version
	t.source = source
	t.ready = true
	t.lastErr = ""
	return nil
}

// Status returns a snapshot of the table state
func (t *Table) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, len(t.rules))
	for i, r := range t.rules {
		names[i] = r.name
	}
	return Status{
		Ready:      t.ready,
		Version:    t.version,
		Source:     t.source,
		Rules:      names,
		RulesCount: len(names),
		CacheDir:   t.cacheDir,
		Error:      t.lastErr,
	}
}

// Ready reports whether Init succeeded
func (t *Table) Ready() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ready
}

// Lookup returns the first rule whose keywords appear in the URL
func (t *Table) Lookup(rawURL string) (*extractor.PatternExtractor, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.ready {
		return nil, false
	}
	for _, r := range t.rules {
		if r.extractor.Match(rawURL) {
			return r.extractor, true
		}
	}
	return nil, false
}

// Extract runs the matching rule's pattern chain
func (t *Table) Extract(ctx context.Context, rawURL string) extractor.Result {
	if !t.Ready() {
		return extractor.Failure(tableName, extractor.ErrorUnavailable, "hoster rules not loaded")
	}
	e, ok := t.Lookup(rawURL)
	if !ok {
		return extractor.Failure(tableName, extractor.ErrorUnsupported, fmt.Sprintf("no hoster rule for %s", rawURL))
	}
	return e.Extract(ctx, rawURL)
}

// Sync downloads a rules file, validates it and installs it in the cache
// directory. The new rules replace the loaded ones unless they are older.
func (t *Table) Sync(ctx context.Context, sourceURL string) (Status, error) {
	if t.cacheDir == "" {
		return t.Status(), fmt.Errorf("no hoster cache directory configured")
	}

	body, err := t.client.Get(ctx, sourceURL, fetch.WithHeader("Accept", "text/plain, application/x-yaml, */*"))
	if err != nil {
		return t.Status(), fmt.Errorf("failed to download hoster rules: %w", err)
	}

	rs, err := ParseRules([]byte(body))
	if err != nil {
		return t.Status(), err
	}

	current := t.Status()
	if current.Ready && rs.Version < current.Version {
		return current, fmt.Errorf("downloaded rules version %d is older than loaded version %d", rs.Version, current.Version)
	}

	if err := writeAtomic(t.cachePath(), []byte(body)); err != nil {
		return current, fmt.Errorf("failed to write hoster rules: %w", err)
	}

	if err := t.swap(rs, SourceCache); err != nil {
		return current, err
	}

	st := t.Status()
	t.logger.Info("hoster rules synced", "version", st.Version, "rules", st.RulesCount, "from", sourceURL)
	return st, nil
}

// writeAtomic writes to a temp file in the same directory, then renames it
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".hosters-*.yml")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
