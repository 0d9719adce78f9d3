package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const SitesFileName = "sites.yml"

// Site is an embed host that only yields its media URL once its player
// script runs, so it is resolved with a headless browser.
type Site struct {
	// Match is a substring to match against the embed URL (e.g., "vidoza.net")
	Match string `yaml:"match"`

	// Type is the media extension to capture (e.g., "m3u8", "mp4")
	Type string `yaml:"type"`
}

// SitesConfig holds the sites configuration
type SitesConfig struct {
	Sites []Site `yaml:"sites"`
}

// LoadSites reads sites.yml from the given path.
// A missing file is not an error: it returns nil, nil.
func LoadSites(path string) (*SitesConfig, error) {
	if path == "" {
		path = SitesFileName
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg := &SitesConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for i := range cfg.Sites {
		cfg.Sites[i].Match = normalizeMatch(cfg.Sites[i].Match)
		cfg.Sites[i].Type = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(cfg.Sites[i].Type)), ".")
		if cfg.Sites[i].Type == "" {
			cfg.Sites[i].Type = "m3u8"
		}
	}

	return cfg, nil
}

// SaveSites writes sites.yml to the given path
func SaveSites(cfg *SitesConfig, path string) error {
	if path == "" {
		path = SitesFileName
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize sites config: %w", err)
	}

	header := "# animelink sites configuration\n# Embed hosts that require browser-based extraction\n\n"
	content := header + string(data)

	return os.WriteFile(path, []byte(content), 0644)
}

// MatchSite finds a matching site for the given URL
func (c *SitesConfig) MatchSite(url string) *Site {
	if c == nil {
		return nil
	}
	lower := strings.ToLower(url)
	for i := range c.Sites {
		if c.Sites[i].Match != "" && strings.Contains(lower, c.Sites[i].Match) {
			return &c.Sites[i]
		}
	}
	return nil
}

// AddSite adds a new site configuration
func (c *SitesConfig) AddSite(match, mediaType string) {
	c.Sites = append(c.Sites, Site{
		Match: normalizeMatch(match),
		Type:  mediaType,
	})
}

// RemoveSite removes a site by match string, ignoring case
func (c *SitesConfig) RemoveSite(match string) bool {
	match = normalizeMatch(match)
	for i := range c.Sites {
		if c.Sites[i].Match == match {
			c.Sites = append(c.Sites[:i], c.Sites[i+1:]...)
			return true
		}
	}
	return false
}

func normalizeMatch(match string) string {
	return strings.ToLower(strings.TrimSpace(match))
}
