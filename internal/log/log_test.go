package log

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/supercloudfm/supercloud/internal/config"
)

func TestSetupLogger(t *testing.T) {
	t.Run("WritesToConfiguredFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "app.log")
		logger, err := SetupLogger(&config.LoggingConfig{File: path, Level: "DEBUG"})
		if err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		logger.Info("hello", "key", "value")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("log file not readable: %v", err)
		}
		if len(data) == 0 {
			t.Error("log file is empty")
		}
	})

	t.Run("UnknownLevelDefaultsToInfo", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		logger, err := SetupLogger(&config.LoggingConfig{File: path, Level: "chatty"})
		if err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if logger.Enabled(nil, slog.LevelDebug) {
			t.Error("debug enabled under default level")
		}
		if !logger.Enabled(nil, slog.LevelInfo) {
			t.Error("info disabled under default level")
		}
	})
}

func TestNullLogger(t *testing.T) {
	logger := NullLogger()
	if logger == nil {
		t.Fatal("null logger is nil")
	}
	logger.Error("discarded", "key", "value")
}
