package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func loadFrom(t *testing.T, cfgFile string) (*Config, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	v := viper.New()
	if err := Init(v, cfgFile); err != nil {
		return nil, err
	}
	return Load(v)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFrom(t, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	def := Default()
	if len(cfg.Teams) != len(def.Teams) {
		t.Fatalf("Teams = %d, want %d", len(cfg.Teams), len(def.Teams))
	}
	for i := range def.Teams {
		if cfg.Teams[i].Name != def.Teams[i].Name {
			t.Errorf("team %d = %q, want %q", i, cfg.Teams[i].Name, def.Teams[i].Name)
		}
		if len(cfg.Teams[i].Players) != len(def.Teams[i].Players) {
			t.Errorf("team %s players = %d, want %d", cfg.Teams[i].Name, len(cfg.Teams[i].Players), len(def.Teams[i].Players))
		}
	}
	if cfg.Scraper.URLTemplate != "https://www.runeclan.com/user/%s" {
		t.Errorf("URLTemplate = %q", cfg.Scraper.URLTemplate)
	}
	if cfg.Scraper.FormField != "dxp_col" || cfg.Scraper.FormValue != "dxp" {
		t.Errorf("form = %s=%s", cfg.Scraper.FormField, cfg.Scraper.FormValue)
	}
	if cfg.Scraper.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Scraper.Timeout)
	}
	if cfg.Schedule.Interval != time.Hour {
		t.Errorf("Interval = %v", cfg.Schedule.Interval)
	}
	if cfg.Cache.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty", cfg.Cache.RedisURL)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
teams:
  - name: Lime
    players: [Alpha, "Beta Gamma"]
  - name: Kiwi
    players: []
scraper:
  timeout: 5s
cache:
  redis_url: redis://localhost:6379/0
  ttl: 2m
schedule:
  interval: 30m
logging:
  level: debug
`)

	cfg, err := loadFrom(t, path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Teams) != 2 || cfg.Teams[0].Name != "Lime" || cfg.Teams[1].Name != "Kiwi" {
		t.Fatalf("Teams = %+v", cfg.Teams)
	}
	if got := cfg.Teams[0].Players; len(got) != 2 || got[1] != "Beta Gamma" {
		t.Errorf("Lime players = %v", got)
	}
	if cfg.Scraper.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Scraper.Timeout)
	}
	if cfg.Scraper.URLTemplate != "https://www.runeclan.com/user/%s" {
		t.Errorf("URLTemplate default lost: %q", cfg.Scraper.URLTemplate)
	}
	if cfg.Cache.RedisURL != "redis://localhost:6379/0" || cfg.Cache.TTL != 2*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Schedule.Interval != 30*time.Minute {
		t.Errorf("Interval = %v", cfg.Schedule.Interval)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DXP_TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("DXP_TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("DXP_STORAGE_DATA_DIR", "/tmp/boards")

	cfg, err := loadFrom(t, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Telegram.BotToken != "env-token" || cfg.Telegram.ChatID != "-100123" {
		t.Errorf("Telegram = %+v", cfg.Telegram)
	}
	if cfg.Storage.DataDir != "/tmp/boards" {
		t.Errorf("DataDir = %q", cfg.Storage.DataDir)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := loadFrom(t, filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading config") {
		t.Errorf("Load() error = %v, want reading config error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults valid", func(*Config) {}, ""},
		{"no teams", func(c *Config) { c.Teams = nil }, "at least one team"},
		{"duplicate team", func(c *Config) { c.Teams[1].Name = c.Teams[0].Name }, "duplicate team"},
		{"template without verb", func(c *Config) { c.Scraper.URLTemplate = "https://example.com/user" }, "url_template"},
		{"negative timeout", func(c *Config) { c.Scraper.Timeout = -time.Second }, "timeout"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := ConfigDir(); got != filepath.Join("/xdg", "dxp-leaderboard") {
		t.Errorf("ConfigDir() = %q", got)
	}
}

func TestScraperOptions(t *testing.T) {
	cfg := Default()
	cfg.Scraper.UserAgent = "custom"

	opts := cfg.ScraperOptions()
	if opts.UserAgent != "custom" || opts.URLTemplate != cfg.Scraper.URLTemplate {
		t.Errorf("ScraperOptions() = %+v", opts)
	}
}
