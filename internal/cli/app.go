// Package cli provides CLI commands using Bubble Tea TUI.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bnema/geobadge/internal/cli/styles"
	"github.com/bnema/geobadge/internal/domain/build"
	"github.com/bnema/geobadge/internal/infrastructure/config"
	"github.com/bnema/geobadge/internal/infrastructure/control"
	"github.com/bnema/geobadge/internal/logging"
)

const clientTimeout = 15 * time.Second

// App holds CLI dependencies.
type App struct {
	Config        *config.Config
	ConfigManager *config.Manager
	Settings      *config.SettingsStore
	Theme         *styles.Theme
	BuildInfo     build.Info

	// Client talks to the running daemon.
	Client *control.Client

	// Context with logger
	ctx context.Context
}

// NewApp loads configuration and builds the CLI dependencies.
// It does not require a running daemon.
func NewApp() (*App, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	// CLI commands stay quiet unless the user asks for logs;
	// `run` replaces this logger with the daemon one.
	logLevel := "warn"
	if envLevel := os.Getenv("GEOBADGE_LOG_LEVEL"); envLevel != "" {
		logLevel = envLevel
	}
	logger := logging.New(logging.Config{
		Level:      logging.ParseLevel(logLevel),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
	})
	ctx := logging.WithContext(context.Background(), logger)

	settingsPath, err := config.GetSettingsFile()
	if err != nil {
		return nil, fmt.Errorf("resolve settings path: %w", err)
	}

	return &App{
		Config:        cfg,
		ConfigManager: mgr,
		Settings:      config.NewSettingsStore(settingsPath),
		Theme:         styles.NewTheme(),
		Client:        control.NewClient(cfg.Control.ListenAddr, clientTimeout),
		ctx:           ctx,
	}, nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
