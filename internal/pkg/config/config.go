package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the reminder service.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Line     LineConfig     `mapstructure:"line"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// StorageConfig holds the reminder store and dose-log database paths.
type StorageConfig struct {
	DataDir    string `mapstructure:"data_dir"`
	BadgerPath string `mapstructure:"badger_path"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// LineConfig holds LINE Messaging API credentials and the push recipient.
type LineConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ChannelSecret string `mapstructure:"channel_secret"`
	ChannelToken  string `mapstructure:"channel_token"`
	RecipientID   string `mapstructure:"recipient_id"`
}

// BackendConfig holds settings for the external health backend.
type BackendConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// DispatchConfig holds notification dispatch settings.
type DispatchConfig struct {
	DismissAfterSeconds int `mapstructure:"dismiss_after_seconds"`
}

// Load reads configuration from environment variables (HEALTHAXIS_ prefix)
// with built-in defaults. A .env file, when present, is loaded beforehand by
// godotenv/autoload in main.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("storage.badger_path", "")
	v.SetDefault("storage.sqlite_path", "")
	v.SetDefault("line.enabled", true)
	v.SetDefault("line.channel_secret", "")
	v.SetDefault("line.channel_token", "")
	v.SetDefault("line.recipient_id", "")
	v.SetDefault("backend.base_url", "http://localhost:12001/api/v1")
	v.SetDefault("backend.timeout_seconds", 10)
	v.SetDefault("dispatch.dismiss_after_seconds", 30)

	v.SetEnvPrefix("HEALTHAXIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
