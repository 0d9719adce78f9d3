package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/guiyumin/animelink/internal/core/config"
	"github.com/spf13/cobra"
)

const configKeysHelp = `Supported keys:
  log_level            debug, info, warn or error
  site.base_url        Catalogue root URL
  site.max_results     Entries returned per listing page
  http.timeout         Request timeout (e.g. 15s)
  http.retries         Retries on transport errors
  http.user_agent      User-Agent sent upstream
  server.port          Server listen port
  server.api_key       Server API key
  hosters.cache_dir    Directory for synced hoster rules
  hosters.source_url   Where 'hosters sync' downloads rules from
  hosters.sync_on_start  Sync hoster rules when the server starts (true/false)
  darki.base_url       DarkiWorld mirror used by 'animelink darki'`

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage animelink configuration",
}

// animelink config show - show current config
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadOrDefault()
		w := cmd.OutOrStdout()

		fmt.Fprintln(w, "Current configuration:")
		for _, key := range configKeys {
			value, _ := getConfigValue(cfg, key)
			fmt.Fprintf(w, "  %-22s %s\n", key, value)
		}
		fmt.Fprintf(w, "  %-22s %s\n", "config", config.SavePath())
		warnMissingConfig(w)
	},
}

// animelink config path - show config file path
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.SavePath())
	},
}

// animelink config set KEY VALUE - set a config value
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in config.yml.

` + configKeysHelp + `

Examples:
  animelink config set site.base_url https://www.frenchanime.com
  animelink config set server.api_key MY_KEY`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		cfg := config.LoadOrDefault()
		if err := setConfigValue(cfg, key, value); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

// animelink config get KEY - get a config value
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := getConfigValue(config.LoadOrDefault(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

// animelink config unset KEY - reset a config value to its default
var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Reset a configuration value to its default",
	Long: `Reset a configuration value in config.yml to its default.

` + configKeysHelp,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		cfg := config.LoadOrDefault()
		def, err := getConfigValue(config.DefaultConfig(), key)
		if err != nil {
			return err
		}
		if err := setConfigValue(cfg, key, def); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", key)
		return nil
	},
}

var configKeys = []string{
	"log_level",
	"site.base_url",
	"site.max_results",
	"http.timeout",
	"http.retries",
	"http.user_agent",
	"server.port",
	"server.api_key",
	"hosters.cache_dir",
	"hosters.source_url",
	"hosters.sync_on_start",
	"darki.base_url",
}

// setConfigValue sets a config value by key
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "log_level":
		cfg.LogLevel = value
	case "site.base_url":
		cfg.Site.BaseURL = value
	case "site.max_results":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid number: %s", value)
		}
		cfg.Site.MaxResults = n
	case "http.timeout":
		if value != "" {
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid duration: %s", value)
			}
		}
		cfg.HTTP.Timeout = value
	case "http.retries":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid number: %s", value)
		}
		cfg.HTTP.Retries = n
	case "http.user_agent":
		cfg.HTTP.UserAgent = value
	case "server.port":
		port, err := strconv.Atoi(value)
		if err != nil || port < 0 || port > 65535 {
			return fmt.Errorf("invalid port number: %s", value)
		}
		cfg.Server.Port = port
	case "server.api_key":
		cfg.Server.APIKey = value
	case "hosters.cache_dir":
		cfg.Hosters.CacheDir = value
	case "hosters.source_url":
		cfg.Hosters.SourceURL = value
	case "hosters.sync_on_start":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		cfg.Hosters.SyncOnStart = b
	case "darki.base_url":
		cfg.Darki.BaseURL = value
	default:
		return fmt.Errorf("unknown config key: %s\nRun 'animelink config set --help' to see supported keys", key)
	}
	return nil
}

// getConfigValue gets a config value by key
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "log_level":
		return cfg.LogLevel, nil
	case "site.base_url":
		return cfg.Site.BaseURL, nil
	case "site.max_results":
		return strconv.Itoa(cfg.Site.MaxResults), nil
	case "http.timeout":
		return cfg.HTTP.Timeout, nil
	case "http.retries":
		return strconv.Itoa(cfg.HTTP.Retries), nil
	case "http.user_agent":
		return cfg.HTTP.UserAgent, nil
	case "server.port":
		return strconv.Itoa(cfg.Server.Port), nil
	case "server.api_key":
		return cfg.Server.APIKey, nil
	case "hosters.cache_dir":
		return cfg.Hosters.CacheDir, nil
	case "hosters.source_url":
		return cfg.Hosters.SourceURL, nil
	case "hosters.sync_on_start":
		return strconv.FormatBool(cfg.Hosters.SyncOnStart), nil
	case "darki.base_url":
		return cfg.Darki.BaseURL, nil
	default:
		return "", fmt.Errorf("unknown config key: %s\nRun 'animelink config get --help' to see supported keys", key)
	}
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}
