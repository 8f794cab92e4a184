package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/geobadge/internal/cli"
	"github.com/bnema/geobadge/internal/cli/model"
	"github.com/bnema/geobadge/internal/cli/styles"
	"github.com/bnema/geobadge/internal/domain/entity"
)

var (
	optionsDebug    bool
	optionsProvider string
	optionsMode     string
	optionsColor    string
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Edit the location provider and what the badge shows",
	Long: `Edit the user settings.

Without flags an interactive form opens. With flags the settings are changed
directly, which is handy for scripts:

  geobadge options --provider ip-sb --mode country-flag
  geobadge options --mode isp --color "#ff8800"

The running daemon picks up the change and re-renders the badge.`,
	RunE: runOptions,
}

func init() {
	rootCmd.AddCommand(optionsCmd)
	flags := optionsCmd.Flags()
	flags.BoolVar(&optionsDebug, "debug", false, "enable debug-only providers and badge modes")
	flags.StringVar(&optionsProvider, "provider", "", "location provider (fake, ip-api, ip-sb)")
	flags.StringVar(&optionsMode, "mode", "", "badge mode (last-update-time, none, country-code, country-flag, isp)")
	flags.StringVar(&optionsColor, "color", "", "badge text color (CSS name or #rrggbb)")
}

func runOptions(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("debug") && !flags.Changed("provider") && !flags.Changed("mode") && !flags.Changed("color") {
		return runOptionsForm(app)
	}

	ctx := app.Ctx()
	current, err := app.Settings.Get(ctx)
	if err != nil {
		return err
	}
	settings := entity.DefaultSettings()
	if current != nil {
		settings = *current
	}

	if flags.Changed("debug") {
		settings.DebugEnabled = optionsDebug
	}
	if flags.Changed("provider") {
		settings.LocationProvider = entity.ProviderID(optionsProvider)
	}
	if flags.Changed("mode") {
		settings.BadgeDisplayMode = entity.BadgeMode(optionsMode)
	}
	if flags.Changed("color") {
		settings.BadgeColor = optionsColor
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := app.Settings.Save(ctx, &settings); err != nil {
		return err
	}

	fmt.Println(app.Theme.SuccessStyle.Render(styles.IconCheck + " Saved"))
	return nil
}

func runOptionsForm(app *cli.App) error {
	m := model.NewOptionsModel(app.Ctx(), app.Theme, app.Settings)
	_, err := tea.NewProgram(m).Run()
	return err
}
