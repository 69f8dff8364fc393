package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Playback PlaybackConfig `toml:"playback"`
	UI       UIConfig       `toml:"ui"`
	Upload   UploadConfig   `toml:"upload"`
	Cache    CacheConfig    `toml:"cache"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig locates the soundboard backend.
type ServerConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// PlaybackConfig holds the initial playback preference and the local player command.
type PlaybackConfig struct {
	Remote bool   `toml:"remote"`
	Local  bool   `toml:"local"`
	Player string `toml:"player"`
}

// UIConfig holds the transient feedback windows of the TUI.
type UIConfig struct {
	AckSeconds     int `toml:"ack_seconds"`
	MessageSeconds int `toml:"message_seconds"`
}

// UploadConfig tunes bulk and watched uploads.
type UploadConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// CacheConfig controls the local audio cache used for local playback.
type CacheConfig struct {
	Dir       string  `toml:"dir"`
	Prefetch  bool    `toml:"prefetch"`
	RateLimit float64 `toml:"rate_limit"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Timeout returns the HTTP client timeout; zero disables it.
func (c ServerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AckDuration returns how long a played sound stays highlighted.
func (c UIConfig) AckDuration() time.Duration {
	if c.AckSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.AckSeconds) * time.Second
}

// MessageDuration returns how long a transient message stays on screen.
func (c UIConfig) MessageDuration() time.Duration {
	if c.MessageSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.MessageSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if config.Server.BaseURL == "" {
		return nil, fmt.Errorf("%w: server.base_url is required", ErrInvalidConfig)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
