package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yml"
	AppDirName     = "animelink"

	DefaultBaseURL        = "https://www.frenchanime.com"
	DefaultDarkiURL       = "https://darkiworld15.com"
	DefaultPort           = 8080
	DefaultMaxResults     = 30
	DefaultTimeout        = 15 * time.Second
	DefaultLogLevel       = "info"
	hostersCacheDirSuffix = "hosters"
)

// ConfigDir returns the standard config directory for animelink.
// Windows: %APPDATA%\animelink\
// macOS/Linux: ~/.config/animelink/
func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, AppDirName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// ConfigPath returns the path to the config file.
// e.g., ~/.config/animelink/config.yml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

type Config struct {
	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level,omitempty"`

	// Site is the anime catalogue being scraped
	Site SiteConfig `yaml:"site,omitempty"`

	// HTTP controls outbound requests
	HTTP HTTPConfig `yaml:"http,omitempty"`

	// Server configuration for `animelink serve`
	Server ServerConfig `yaml:"server,omitempty"`

	// Hosters configures the per-hoster extraction rule table
	Hosters HostersConfig `yaml:"hosters,omitempty"`

	// Darki is the DarkiWorld mirror used to resolve download ids
	Darki DarkiConfig `yaml:"darki,omitempty"`
}

// SiteConfig holds the scraped catalogue settings
type SiteConfig struct {
	// BaseURL is the catalogue root, e.g. "https://www.frenchanime.com"
	BaseURL string `yaml:"base_url,omitempty"`

	// MaxResults caps the number of entries returned per listing page (default: 30)
	MaxResults int `yaml:"max_results,omitempty"`
}

// DarkiConfig holds the DarkiWorld download API settings
type DarkiConfig struct {
	// BaseURL is the mirror root; the domain moves often (default: https://darkiworld15.com)
	BaseURL string `yaml:"base_url,omitempty"`
}

// HTTPConfig holds outbound HTTP settings
type HTTPConfig struct {
	// Timeout per request, as a Go duration string (default: 15s)
	Timeout string `yaml:"timeout,omitempty"`

	// Retries on transport errors, not counting the first attempt (default: 0)
	Retries int `yaml:"retries,omitempty"`

	// UserAgent overrides the browser User-Agent sent to upstream sites
	UserAgent string `yaml:"user_agent,omitempty"`
}

// ServerConfig holds HTTP server settings for `animelink serve`
type ServerConfig struct {
	// Port is the HTTP listen port (default: 8080)
	Port int `yaml:"port,omitempty"`

	// APIKey for authentication (optional, if set /api/extract* requests must include X-API-Key header)
	APIKey string `yaml:"api_key,omitempty"`
}

// HostersConfig holds hoster rule table settings
type HostersConfig struct {
	// CacheDir stores rule files fetched by `animelink hosters sync`
	CacheDir string `yaml:"cache_dir,omitempty"`

	// SourceURL is where `hosters sync` downloads the rule table from.
	// Empty by default: sync then needs --source.
	SourceURL string `yaml:"source_url,omitempty"`

	// SyncOnStart refreshes the rule table before the server starts listening
	SyncOnStart bool `yaml:"sync_on_start,omitempty"`
}

// TimeoutDuration parses HTTP.Timeout, falling back to DefaultTimeout
func (c *Config) TimeoutDuration() time.Duration {
	if c.HTTP.Timeout == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(c.HTTP.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// DefaultHostersCacheDir returns the default directory for synced hoster rules
func DefaultHostersCacheDir() string {
	dir, err := ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppDirName, hostersCacheDirSuffix)
	}
	return filepath.Join(dir, hostersCacheDirSuffix)
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Site: SiteConfig{
			BaseURL:    DefaultBaseURL,
			MaxResults: DefaultMaxResults,
		},
		HTTP: HTTPConfig{
			Timeout: DefaultTimeout.String(),
		},
		Server: ServerConfig{
			Port: DefaultPort,
		},
		Hosters: HostersConfig{
			CacheDir: DefaultHostersCacheDir(),
		},
		Darki: DarkiConfig{
			BaseURL: DefaultDarkiURL,
		},
	}
}

// applyDefaults fills zero values left by a partial config file
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = def.Site.BaseURL
	}
	c.Site.BaseURL = strings.TrimRight(c.Site.BaseURL, "/")
	if c.Site.MaxResults <= 0 {
		c.Site.MaxResults = def.Site.MaxResults
	}
	if c.HTTP.Timeout == "" {
		c.HTTP.Timeout = def.HTTP.Timeout
	}
	if c.HTTP.Retries < 0 {
		c.HTTP.Retries = 0
	}
	if c.Server.Port <= 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Hosters.CacheDir == "" {
		c.Hosters.CacheDir = def.Hosters.CacheDir
	}
	if c.Darki.BaseURL == "" {
		c.Darki.BaseURL = def.Darki.BaseURL
	}
	c.Darki.BaseURL = strings.TrimRight(c.Darki.BaseURL, "/")
}

// Exists checks if config file exists
func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config from ~/.config/animelink/config.yml
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config from an explicit path
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.Hosters.CacheDir = expandPath(cfg.Hosters.CacheDir)
	cfg.applyDefaults()

	return cfg, nil
}

// expandPath expands the tilde (~) in the path to the user's home directory.
// Both forward and backward slashes after the tilde are accepted.
func expandPath(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		// Only expand if it's explicitly "~", "~/", or "~\"
		if len(path) == 1 || path[1] == '/' || path[1] == '\\' {
			home, err := os.UserHomeDir()
			if err == nil {
				subPath := path[1:]
				if len(subPath) > 0 && (subPath[0] == '/' || subPath[0] == '\\') {
					subPath = subPath[1:]
				}
				return filepath.Join(home, subPath)
			}
		}
	}

	return path
}

// Save writes the config to ~/.config/animelink/config.yml
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveFile(cfg, configPath)
}

// SaveFile writes the config to an explicit path
func SaveFile(cfg *Config, configPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	header := "# animelink configuration file\n# Run 'animelink init' to regenerate with defaults\n\n"
	content := header + string(data)

	return os.WriteFile(configPath, []byte(content), 0644)
}

// SavePath returns the path where config will be saved
func SavePath() string {
	if path, err := ConfigPath(); err == nil {
		return path
	}
	return ConfigFileName
}

// Init creates a new config.yml with default values
func Init() error {
	if Exists() {
		path, _ := ConfigPath()
		return fmt.Errorf("%s already exists", path)
	}
	return Save(DefaultConfig())
}

// LoadOrDefault loads config if it exists, otherwise returns defaults
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		cfg = DefaultConfig()
	}
	return cfg
}
