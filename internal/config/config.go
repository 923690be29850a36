// Package config loads dxp-leaderboard settings from defaults, an optional YAML file
// and DXP_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pfrederiksen/dxp-leaderboard/internal/cache"
	"github.com/pfrederiksen/dxp-leaderboard/internal/logger"
	"github.com/pfrederiksen/dxp-leaderboard/internal/roster"
	"github.com/pfrederiksen/dxp-leaderboard/internal/schedule"
	"github.com/pfrederiksen/dxp-leaderboard/internal/scraper"
	"github.com/pfrederiksen/dxp-leaderboard/internal/storage"
)

// EnvPrefix prefixes environment overrides, e.g. DXP_TELEGRAM_BOT_TOKEN.
const EnvPrefix = "DXP"

// Config represents the complete dxp-leaderboard configuration
type Config struct {
	Teams    []roster.Team  `mapstructure:"teams"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ScraperConfig controls how player pages are requested
type ScraperConfig struct {
	// URLTemplate has a single %s for the player name
	URLTemplate string        `mapstructure:"url_template"`
	FormField   string        `mapstructure:"form_field"`
	FormValue   string        `mapstructure:"form_value"`
	UserAgent   string        `mapstructure:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// CacheConfig enables the Redis lookup cache when RedisURL is set
type CacheConfig struct {
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// StorageConfig controls where the last board is saved
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// TelegramConfig holds bot credentials for the telegram notifier
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// ScheduleConfig controls the watch loop
type ScheduleConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// LoggingConfig controls diagnostic output
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	opts := scraper.DefaultOptions()
	return &Config{
		Teams: roster.Defaults(),
		Scraper: ScraperConfig{
			URLTemplate: opts.URLTemplate,
			FormField:   opts.FormField,
			FormValue:   opts.FormValue,
			UserAgent:   opts.UserAgent,
			Timeout:     opts.Timeout,
		},
		Cache: CacheConfig{
			TTL: cache.DefaultTTL,
		},
		Storage: StorageConfig{
			DataDir: storage.DefaultDataDir,
		},
		Schedule: ScheduleConfig{
			Interval: schedule.DefaultInterval,
		},
		Logging: LoggingConfig{
			Level: string(logger.LevelInfo),
		},
	}
}

// SetDefaults registers every key with v so env overrides and Unmarshal see them.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	teams := make([]map[string]interface{}, 0, len(defaults.Teams))
	for _, t := range defaults.Teams {
		teams = append(teams, map[string]interface{}{"name": t.Name, "players": t.Players})
	}
	v.SetDefault("teams", teams)

	v.SetDefault("scraper.url_template", defaults.Scraper.URLTemplate)
	v.SetDefault("scraper.form_field", defaults.Scraper.FormField)
	v.SetDefault("scraper.form_value", defaults.Scraper.FormValue)
	v.SetDefault("scraper.user_agent", defaults.Scraper.UserAgent)
	v.SetDefault("scraper.timeout", defaults.Scraper.Timeout)

	v.SetDefault("cache.redis_url", defaults.Cache.RedisURL)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)

	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)

	v.SetDefault("telegram.bot_token", defaults.Telegram.BotToken)
	v.SetDefault("telegram.chat_id", defaults.Telegram.ChatID)

	v.SetDefault("schedule.interval", defaults.Schedule.Interval)

	v.SetDefault("logging.level", defaults.Logging.Level)
}

// Init prepares v: defaults, the config file search path (or cfgFile when set)
// and environment overrides. A missing config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	// DXP_SCRAPER_TIMEOUT for scraper.timeout
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load reads the configuration from v into a Config struct and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the rosters and the settings the scraper depends on.
func (c *Config) Validate() error {
	if len(c.Teams) == 0 {
		return fmt.Errorf("config: at least one team is required")
	}
	if err := roster.Validate(c.Teams); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if strings.Count(c.Scraper.URLTemplate, "%s") != 1 {
		return fmt.Errorf("config: scraper.url_template must contain exactly one %%s")
	}
	if c.Scraper.Timeout < 0 {
		return fmt.Errorf("config: scraper.timeout must not be negative")
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ScraperOptions converts the scraper section for scraper.New.
func (c *Config) ScraperOptions() scraper.Options {
	return scraper.Options{
		URLTemplate: c.Scraper.URLTemplate,
		FormField:   c.Scraper.FormField,
		FormValue:   c.Scraper.FormValue,
		UserAgent:   c.Scraper.UserAgent,
		Timeout:     c.Scraper.Timeout,
	}
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dxp-leaderboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dxp-leaderboard"
	}
	return filepath.Join(home, ".config", "dxp-leaderboard")
}
