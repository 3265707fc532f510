package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Config is built once at startup and shared read-only by every component.
type Config struct {
	APIID                  int      `koanf:"api_id"`
	APIHash                string   `koanf:"api_hash"`
	Session                string   `koanf:"telethon_session"`
	SourceChannels         []string `koanf:"-"`
	DestinationChannel     string   `koanf:"destination_channel"`
	DestinationHandle      string   `koanf:"destination_handle"`
	ScheduleIntervalMin    int      `koanf:"schedule_interval_minutes"`
	ReviewTimeoutHours     float64  `koanf:"review_timeout_hours"`
	StatePath              string   `koanf:"state_path"`
	MediaPath              string   `koanf:"media_path"`
	FetchLimit             int      `koanf:"fetch_limit"`
	DedupHorizonHours      int      `koanf:"dedup_horizon_hours"`
	PostPauseSeconds       int      `koanf:"post_pause_seconds"`
	FloodWaitMarginSeconds int      `koanf:"flood_wait_margin_seconds"`
	PublisherName          string   `koanf:"publisher_name"`
	ReviewBotToken         string   `koanf:"review_bot_token"`
	ReviewChatID           string   `koanf:"review_chat_id"`
	LogLevel               string   `koanf:"log_level"`
	AppEnv                 AppEnv   `koanf:"app_env"`
}

var defaults = map[string]any{
	"schedule_interval_minutes": 180,
	"review_timeout_hours":      4,
	"state_path":                "state-repo",
	"media_path":                "media",
	"fetch_limit":               100,
	"dedup_horizon_hours":       168,
	"post_pause_seconds":        2,
	"flood_wait_margin_seconds": 5,
	"publisher_name":            "DefaultPublisher",
	"log_level":                 "info",
	"app_env":                   "production",
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	for key, value := range defaults {
		if !k.Exists(key) || k.String(key) == "" {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// source_channels is a comma-separated string from env vars
	// or a list from config files
	switch v := k.Get("source_channels").(type) {
	case string:
		cfg.SourceChannels = ParseChannelList(v)
	case []interface{}:
		cfg.SourceChannels = lo.Uniq(lo.FilterMap(v, func(item interface{}, _ int) (string, bool) {
			s, ok := item.(string)
			s = strings.TrimSpace(s)
			return s, ok && s != ""
		}))
	}

	if env, err := ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = env
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	// Validate required fields
	if strings.TrimSpace(cfg.Session) == "" {
		return nil, errors.ErrMissingSession
	}
	if cfg.APIID == 0 || cfg.APIHash == "" {
		return nil, errors.ErrMissingAPICredentials
	}
	if strings.TrimSpace(cfg.DestinationChannel) == "" {
		return nil, errors.ErrMissingDestination
	}
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = defaults["fetch_limit"].(int)
	}

	return &cfg, nil
}

// ParseChannelList splits a comma-separated channel list, dropping blanks and repeats.
func ParseChannelList(s string) []string {
	parts := strings.Split(s, ",")
	return lo.Uniq(lo.FilterMap(parts, func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		return part, part != ""
	}))
}

func (c *Config) ScheduleInterval() time.Duration {
	return time.Duration(c.ScheduleIntervalMin) * time.Minute
}

func (c *Config) ReviewTimeout() time.Duration {
	return time.Duration(c.ReviewTimeoutHours * float64(time.Hour))
}

func (c *Config) DedupHorizon() time.Duration {
	return time.Duration(c.DedupHorizonHours) * time.Hour
}

func (c *Config) PostPause() time.Duration {
	return time.Duration(c.PostPauseSeconds) * time.Second
}

func (c *Config) FloodWaitMargin() time.Duration {
	return time.Duration(c.FloodWaitMarginSeconds) * time.Second
}

// ReviewNotificationsEnabled reports whether an operator chat is configured.
func (c *Config) ReviewNotificationsEnabled() bool {
	return c.ReviewBotToken != "" && c.ReviewChatID != ""
}
