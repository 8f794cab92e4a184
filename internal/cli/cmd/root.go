// Package cmd provides Cobra CLI commands for geobadge.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/geobadge/internal/cli"
	"github.com/bnema/geobadge/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "geobadge",
		Short: "Show where your public IP appears to be, as a status badge",
		Long: `geobadge - your public IP geolocation as a status badge.

A small daemon periodically asks a geolocation provider where your public
IP appears to be, keeps the last answer for the session and renders it as
an icon plus a short badge text (country code, flag or ISP).

Features:
  - Providers: ip-api.com, ip.sb, and random locations for debugging
  - Re-checks on start, on a periodic alarm and on browser tab events
  - Badge files for status bars (waybar) and a localhost control API
  - Interactive popup and options in the terminal
  - Optional country change notifications (shoutrrr)

Use 'geobadge run' to start the daemon, then 'geobadge popup' to look
at the current location or 'geobadge options' to change what the badge shows.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}

			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			// Set build info from main.go
			app.BuildInfo = buildInfo
			return nil
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

func requireApp() (*cli.App, error) {
	a := GetApp()
	if a == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return a, nil
}
