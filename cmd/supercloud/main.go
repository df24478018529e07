package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/supercloudfm/supercloud/internal/api"
	"github.com/supercloudfm/supercloud/internal/config"
	"github.com/supercloudfm/supercloud/internal/log"
	"github.com/supercloudfm/supercloud/internal/search"
	"github.com/supercloudfm/supercloud/internal/service"
	"github.com/supercloudfm/supercloud/internal/store"
	"github.com/supercloudfm/supercloud/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	var doLogin bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&doLogin, "login", false, "log in before starting")
	flag.Parse()

	if showVersion {
		fmt.Printf("supercloud %s\n", Version)
		return
	}

	if err := run(doLogin); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(doLogin bool) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting supercloud", "version", Version, "server", cfg.Server.URL)

	// Create the transport client and prime its anti-forgery token
	client, err := api.NewClient(cfg.Server.URL, logger)
	if err != nil {
		return fmt.Errorf("failed to create api client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	err = client.Bootstrap(ctx)
	cancel()
	if err != nil {
		logger.Warn("bootstrap failed, continuing offline", "error", err)
	}

	// Create the entity store, warm-started from the snapshot cache
	st := store.New(logger)
	cache, err := store.OpenDiskCache(cfg.Cache.Dir, cfg.Server.URL)
	if err != nil {
		logger.Warn("snapshot cache unavailable, running memory-only", "error", err)
		cache = nil
	}
	if cache != nil {
		defer cache.Close()
		if batch, ok := cache.Load(); ok {
			st.Apply(batch)
			logger.Info("warm-started from snapshot cache")
		}
	}

	// Create services
	sessionSvc := service.NewSessionService(client, st, logger)
	songSvc := service.NewSongService(client, client, st, sessionSvc, logger)
	likeSvc := service.NewLikeService(client, st, sessionSvc, logger)
	commentSvc := service.NewCommentService(client, st, sessionSvc, logger)
	userSvc := service.NewUserService(client, st, logger)
	searchSvc := search.NewService(st, logger)

	if doLogin {
		if err := runLoginFlow(cfg, sessionSvc); err != nil {
			return err
		}
	}

	// Create TUI model
	model := tui.NewModel(st, songSvc, likeSvc, commentSvc, userSvc, sessionSvc, searchSvc)

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	// Persist whatever the store holds for the next warm start
	if cache != nil {
		if err := cache.Save(st.Snapshot()); err != nil {
			logger.Warn("failed to save snapshot cache", "error", err)
		}
	}

	logger.Info("shutting down")
	return nil
}

// runLoginFlow prompts for credentials on the terminal and logs in before
// the TUI takes over the screen
func runLoginFlow(cfg *config.Config, sessionSvc *service.SessionService) error {
	reader := bufio.NewReader(os.Stdin)

	credential := cfg.Server.Credential
	if credential != "" {
		fmt.Printf("Username or email [%s]: ", credential)
	} else {
		fmt.Print("Username or email: ")
	}
	input, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if trimmed := strings.TrimSpace(input); trimmed != "" {
		credential = trimmed
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	user, err := sessionSvc.Login(ctx, credential, string(password))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("✓ Logged in as %s\n", user.Username)

	// Remember the credential for the next prompt
	if cfg.Server.Credential != credential {
		cfg.Server.Credential = credential
		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("warning: failed to save config: %v\n", err)
		}
	}

	return nil
}
