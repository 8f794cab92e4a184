package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/geobadge/assets"
	"github.com/bnema/geobadge/internal/bootstrap"
	"github.com/bnema/geobadge/internal/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the background daemon",
	Long: `Run the geobadge daemon in the foreground.

The daemon keeps the session location, re-checks it on a periodic alarm,
writes the badge into the state directory and serves the control API used
by the popup, the status bar and browser integrations.

Only one daemon runs per user. Stop it with Ctrl+C or SIGTERM.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	daemon, ctx, err := bootstrap.StartDaemon(ctx, bootstrap.DaemonInput{
		Config:    app.ConfigManager,
		BuildInfo: app.BuildInfo,
		Assets:    assets.Files,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := daemon.Close(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("daemon shutdown incomplete")
		}
	}()

	err = daemon.Run(ctx)
	logging.FromContext(ctx).Info().Msg("daemon stopped")
	return err
}
