package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds settings shared by every command. Flags override these values.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	// Encoding is the WHATWG label used for files without a byte order mark.
	Encoding         string `mapstructure:"encoding"`
	CaptionSeparator string `mapstructure:"caption_separator"`
	SyncDelay        string `mapstructure:"sync_delay"` // Go duration string like "500ms", "-2s"
	Cache            struct {
		Size int    `mapstructure:"size"` // Maximum number of parsed tracks kept in memory
		TTL  string `mapstructure:"ttl"`  // Go duration string like "10m", "1h"
	} `mapstructure:"cache"`
	Metrics struct {
		Address string `mapstructure:"address"`
		Port    int    `mapstructure:"port"` // 0 disables the metrics server
	} `mapstructure:"metrics"`
	Player struct {
		Tick  string  `mapstructure:"tick"`
		Speed float64 `mapstructure:"speed"`
	} `mapstructure:"player"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("encoding", "utf-8")
	v.SetDefault("caption_separator", "\n")
	v.SetDefault("sync_delay", "0s")
	v.SetDefault("cache.size", 32)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("metrics.address", "127.0.0.1")
	v.SetDefault("metrics.port", 0)
	v.SetDefault("player.tick", "100ms")
	v.SetDefault("player.speed", 1.0)
}

// Load reads configuration from file (when non-empty), or from srtcue.yaml in
// the working directory or ./config, then from SRTCUE_* environment variables.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("srtcue")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SRTCUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := c.SyncDelayDuration(); err != nil {
		return err
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if _, err := c.TickInterval(); err != nil {
		return err
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache.size must not be negative, got %d", c.Cache.Size)
	}
	if c.Player.Speed <= 0 {
		return fmt.Errorf("player.speed must be positive, got %v", c.Player.Speed)
	}
	return nil
}

func (c *Config) SyncDelayDuration() (time.Duration, error) {
	return parseDuration("sync_delay", c.SyncDelay)
}

func (c *Config) CacheTTL() (time.Duration, error) {
	return parseDuration("cache.ttl", c.Cache.TTL)
}

func (c *Config) TickInterval() (time.Duration, error) {
	d, err := parseDuration("player.tick", c.Player.Tick)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("player.tick must be positive, got %s", c.Player.Tick)
	}
	return d, nil
}

func parseDuration(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
