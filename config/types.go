package config

import (
	"time"

	"github.com/s0up4200/reelsearch/tmdb"
)

// Config represents the complete configuration structure
type Config struct {
	TMDB    TMDBConfig       `mapstructure:"tmdb"`
	Images  tmdb.ImageConfig `mapstructure:"images"`
	Cache   CacheConfig      `mapstructure:"cache"`
	UI      UIConfig         `mapstructure:"ui"`
	Radarr  RadarrConfig     `mapstructure:"radarr"`
	Filter  FilterConfig     `mapstructure:"filter"`
	Logging LoggingConfig    `mapstructure:"logging"`
}

// TMDBConfig holds TMDB API connection details
type TMDBConfig struct {
	Token    string        `mapstructure:"token"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Language string        `mapstructure:"language"`
}

// CacheConfig controls the search result cache
type CacheConfig struct {
	StaleTime    time.Duration `mapstructure:"stale_time"`
	Retries      int           `mapstructure:"retries"`
	RetryDelay   time.Duration `mapstructure:"retry_delay"`
	MaxEntries   int           `mapstructure:"max_entries"`
	PrefetchNext bool          `mapstructure:"prefetch_next"`
}

// UIConfig contains terminal UI settings
type UIConfig struct {
	NotificationDuration time.Duration `mapstructure:"notification_duration"`
	MaxPages             int           `mapstructure:"max_pages"`
	AltScreen            bool          `mapstructure:"alt_screen"`
	Mouse                bool          `mapstructure:"mouse"`
}

// RadarrConfig holds Radarr API connection details and defaults for added movies
type RadarrConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	URL              string `mapstructure:"url"`
	APIKey           string `mapstructure:"api_key"`
	QualityProfileID int64  `mapstructure:"quality_profile_id"`
	RootFolder       string `mapstructure:"root_folder"`
	Monitored        bool   `mapstructure:"monitored"`
	SearchOnAdd      bool   `mapstructure:"search_on_add"`
}

// FilterConfig contains filter definitions
type FilterConfig struct {
	DefaultExpression string                  `mapstructure:"default_expression"`
	Presets           map[string]FilterPreset `mapstructure:"presets"`
}

// FilterPreset is a named filter expression
type FilterPreset struct {
	Expression  string `mapstructure:"expression"`
	Description string `mapstructure:"description"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
	File   string `mapstructure:"file"`
}
