// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Reddit        RedditConfig        `yaml:"reddit"`
	Download      DownloadConfig      `yaml:"download"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Tracing       TracingConfig       `yaml:"tracing"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RedditConfig defines Reddit API settings.
type RedditConfig struct {
	BaseURL      string          `yaml:"base_url"`
	OAuthURL     string          `yaml:"oauth_url"`
	ClientID     string          `yaml:"client_id"`
	ClientSecret string          `yaml:"client_secret"`
	UserAgent    string          `yaml:"user_agent"`
	TimeWindow   string          `yaml:"time_window"` // hour, day, week, month, year, all
	PageSize     int             `yaml:"page_size"`
	MaxEntries   int             `yaml:"max_entries"`
	Timeout      time.Duration   `yaml:"timeout"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines the local request pacing.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// DownloadConfig defines where and how assets are written.
type DownloadConfig struct {
	Dir        string `yaml:"dir"`
	BufferSize int    `yaml:"buffer_size"`
}

// ScheduleConfig defines cron intervals.
type ScheduleConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	ReauthInterval  time.Duration `yaml:"reauth_interval"`
}

// NotificationsConfig defines media-added notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// TracingConfig defines the OTLP trace exporter.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"` // host:port of an OTLP gRPC collector
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

var timeWindows = []string{"hour", "day", "week", "month", "year", "all"}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyRedditDefaults(&cfg.Reddit)
	applyDownloadDefaults(&cfg.Download)
	applyScheduleDefaults(&cfg.Schedule)
	applyTracingDefaults(&cfg.Tracing)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyRedditDefaults(r *RedditConfig) {
	if r.BaseURL == "" {
		r.BaseURL = "https://www.reddit.com"
	}
	if r.OAuthURL == "" {
		r.OAuthURL = "https://oauth.reddit.com"
	}
	if r.ClientID == "" {
		r.ClientID = "DuUW-KECgrqDjw"
	}
	if r.UserAgent == "" {
		r.UserAgent = "android:com.task.redditclient:v1.0 by Andrii"
	}
	if r.TimeWindow == "" {
		r.TimeWindow = "day"
	}
	if r.PageSize == 0 {
		r.PageSize = 10
	}
	if r.MaxEntries == 0 {
		r.MaxEntries = 50
	}
	if r.Timeout == 0 {
		r.Timeout = 30 * time.Second
	}
	if r.RateLimit.PerSecond == 0 {
		r.RateLimit.PerSecond = 1.0
	}
	if r.RateLimit.Burst == 0 {
		r.RateLimit.Burst = 5
	}
}

func applyDownloadDefaults(d *DownloadConfig) {
	if d.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			d.Dir = filepath.Join(home, "Pictures")
		} else {
			d.Dir = "."
		}
	}
	if d.BufferSize == 0 {
		d.BufferSize = 4096
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.RefreshInterval == 0 {
		s.RefreshInterval = 15 * time.Minute
	}
	if s.ReauthInterval == 0 {
		s.ReauthInterval = 50 * time.Minute
	}
}

func applyTracingDefaults(t *TracingConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "reddit-top"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateURL("reddit.base_url", cfg.Reddit.BaseURL))
	errs = append(errs, validateURL("reddit.oauth_url", cfg.Reddit.OAuthURL))

	if !slices.Contains(timeWindows, cfg.Reddit.TimeWindow) {
		errs = append(errs, fmt.Errorf(
			"reddit.time_window must be one of: hour, day, week, month, year, all (got %q)",
			cfg.Reddit.TimeWindow,
		))
	}
	if cfg.Reddit.PageSize < 1 || cfg.Reddit.PageSize > 100 {
		errs = append(errs, fmt.Errorf(
			"reddit.page_size must be between 1 and 100 (got %d)", cfg.Reddit.PageSize,
		))
	}
	if cfg.Reddit.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("reddit.max_entries must not be negative"))
	}
	if cfg.Reddit.Timeout < 0 {
		errs = append(errs, fmt.Errorf("reddit.timeout must not be negative"))
	}
	if cfg.Reddit.RateLimit.PerSecond < 0 {
		errs = append(errs, fmt.Errorf("reddit.rate_limit.per_second must not be negative"))
	}
	if cfg.Reddit.RateLimit.Burst < 0 {
		errs = append(errs, fmt.Errorf("reddit.rate_limit.burst must not be negative"))
	}

	if cfg.Download.BufferSize < 0 {
		errs = append(errs, fmt.Errorf("download.buffer_size must not be negative"))
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf(
			"notifications.discord.webhook_url is required when discord is enabled",
		))
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, fmt.Errorf("tracing.endpoint is required when tracing is enabled"))
	}

	return errors.Join(errs...)
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL (got %q)", field, raw)
	}
	return nil
}
