package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/geobadge/internal/cli/model"
)

var popupCmd = &cobra.Command{
	Use:   "popup",
	Short: "Show the current location and update it on demand",
	Long: `Open an interactive view of the session location.

Keys:
  r  ask the daemon for a fresh location
  o  open the options
  q  quit

The view follows location and badge changes while it is open.`,
	RunE: runPopup,
}

func init() {
	rootCmd.AddCommand(popupCmd)
}

func runPopup(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	// Cancelling closes the live stream.
	ctx, cancel := context.WithCancel(app.Ctx())
	defer cancel()

	m := model.NewPopupModel(ctx, app.Theme, app.Client)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}

	if popup, ok := final.(model.PopupModel); ok && popup.OpenOptions {
		return runOptionsForm(app)
	}
	return nil
}
