package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/reelsearch/tmdb"
)

// EnvPrefix prefixes every environment override, e.g. REELSEARCH_CACHE_RETRIES.
const EnvPrefix = "REELSEARCH"

// Load loads the configuration from file and environment. A missing config file is
// fine as long as the token comes from the environment; a missing token is not.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("tmdb.token", EnvPrefix+"_TMDB_TOKEN", "TMDB_TOKEN"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".reelsearch"))
		}

		// Check /etc
		v.AddConfigPath("/etc/reelsearch/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TMDB defaults
	v.SetDefault("tmdb.token", "")
	v.SetDefault("tmdb.base_url", tmdb.DefaultBaseURL)
	v.SetDefault("tmdb.timeout", "30s")
	v.SetDefault("tmdb.language", "")

	// Image hosting defaults
	v.SetDefault("images.poster_base", tmdb.DefaultImages.PosterBase)
	v.SetDefault("images.backdrop_base", tmdb.DefaultImages.BackdropBase)
	v.SetDefault("images.poster_placeholder", tmdb.DefaultImages.PosterPlaceholder)
	v.SetDefault("images.backdrop_placeholder", tmdb.DefaultImages.BackdropPlaceholder)

	// Cache defaults
	v.SetDefault("cache.stale_time", "5m")
	v.SetDefault("cache.retries", 2)
	v.SetDefault("cache.retry_delay", "1s")
	v.SetDefault("cache.max_entries", 100)
	v.SetDefault("cache.prefetch_next", false)

	// UI defaults
	v.SetDefault("ui.notification_duration", "3s")
	v.SetDefault("ui.max_pages", 500)
	v.SetDefault("ui.alt_screen", true)
	v.SetDefault("ui.mouse", true)

	// Radarr defaults
	v.SetDefault("radarr.enabled", false)
	v.SetDefault("radarr.url", "http://localhost:7878")
	v.SetDefault("radarr.api_key", "")
	v.SetDefault("radarr.quality_profile_id", 1)
	v.SetDefault("radarr.root_folder", "")
	v.SetDefault("radarr.monitored", true)
	v.SetDefault("radarr.search_on_add", false)

	// Filter defaults
	v.SetDefault("filter.default_expression", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.file", "")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.TMDB.Token) == "" {
		return &FieldError{Field: "tmdb.token", Reason: "is required", Err: ErrMissingToken}
	}

	if cfg.TMDB.BaseURL != "" {
		if u, err := url.Parse(cfg.TMDB.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return &FieldError{Field: "tmdb.base_url", Reason: fmt.Sprintf("invalid URL %q", cfg.TMDB.BaseURL)}
		}
	}

	if cfg.Cache.Retries < 0 {
		return &FieldError{Field: "cache.retries", Reason: "must not be negative"}
	}
	if cfg.Cache.StaleTime < 0 {
		return &FieldError{Field: "cache.stale_time", Reason: "must not be negative"}
	}
	if cfg.Cache.MaxEntries < 1 {
		return &FieldError{Field: "cache.max_entries", Reason: "must be at least 1"}
	}

	if cfg.UI.MaxPages < 1 {
		return &FieldError{Field: "ui.max_pages", Reason: "must be at least 1"}
	}

	if cfg.Radarr.Enabled {
		if cfg.Radarr.URL == "" {
			return &FieldError{Field: "radarr.url", Reason: "is required when radarr is enabled"}
		}
		if cfg.Radarr.APIKey == "" || cfg.Radarr.APIKey == "your-api-key-here" {
			return &FieldError{Field: "radarr.api_key", Reason: "must be set to a valid API key"}
		}
		if cfg.Radarr.QualityProfileID < 1 {
			return &FieldError{Field: "radarr.quality_profile_id", Reason: "must be a valid profile ID"}
		}
		if cfg.Radarr.RootFolder == "" {
			return &FieldError{Field: "radarr.root_folder", Reason: "is required when radarr is enabled"}
		}
	}

	for name, preset := range cfg.Filter.Presets {
		if strings.TrimSpace(preset.Expression) == "" {
			return &FieldError{Field: "filter.presets." + name, Reason: "expression is empty"}
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return &FieldError{Field: "logging.level", Reason: fmt.Sprintf("invalid logging level: %s", cfg.Logging.Level)}
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return &FieldError{Field: "logging.format", Reason: fmt.Sprintf("invalid logging format: %s", cfg.Logging.Format)}
	}

	return nil
}
