package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("ServerDefaults", func(t *testing.T) {
		if cfg.Server.URL != "http://localhost:5000" {
			t.Errorf("server url = %q", cfg.Server.URL)
		}
		if cfg.Server.Credential != "" {
			t.Errorf("credential = %q, want empty", cfg.Server.Credential)
		}
	})

	t.Run("PathsArePerApp", func(t *testing.T) {
		if cfg.Cache.Dir == "" || !strings.Contains(cfg.Cache.Dir, "supercloud") {
			t.Errorf("cache dir = %q", cfg.Cache.Dir)
		}
		if cfg.Logging.File == "" || !strings.Contains(cfg.Logging.File, "supercloud") {
			t.Errorf("log file = %q", cfg.Logging.File)
		}
	})

	t.Run("UIDefaults", func(t *testing.T) {
		if cfg.UI.FeedPageSize <= 0 {
			t.Errorf("feed page size = %d", cfg.UI.FeedPageSize)
		}
		if cfg.Logging.Level != "INFO" {
			t.Errorf("log level = %q", cfg.Logging.Level)
		}
	})
}
