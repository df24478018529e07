package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Cache   CacheConfig   `mapstructure:"cache"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds the supercloud server configuration
type ServerConfig struct {
	URL        string `mapstructure:"url"`        // Server URL
	Credential string `mapstructure:"credential"` // Username or email for login prompts
}

// CacheConfig holds the warm-start snapshot cache configuration
type CacheConfig struct {
	Dir string `mapstructure:"dir"` // Empty disables persistence
}

// UIConfig holds UI configuration
type UIConfig struct {
	FeedPageSize int `mapstructure:"feed_page_size"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "http://localhost:5000",
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
		UI: UIConfig{
			FeedPageSize: 25,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "supercloud", "supercloud.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "supercloud", "supercloud.log")
	}
}

// defaultCachePath returns the default snapshot cache dir for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "supercloud", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".cache", "supercloud")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "supercloud")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "supercloud")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("SUPERCLOUD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("server.url", cfg.Server.URL)
	viper.Set("server.credential", cfg.Server.Credential)
	viper.Set("cache.dir", cfg.Cache.Dir)
	viper.Set("ui.feed_page_size", cfg.UI.FeedPageSize)
	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
