package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/geobadge/internal/domain/entity"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger <name>",
	Short: "Send a browser or lifecycle event to the daemon",
	Long: `Send an event that asks the daemon to re-evaluate the location.

Browser integrations call this on tab changes:

  geobadge trigger tab-activated
  geobadge trigger tab-updated

Every event except user-update respects the staleness check.`,
	Args: cobra.ExactArgs(1),
	ValidArgs: []string{
		string(entity.TriggerInstall),
		string(entity.TriggerStartup),
		string(entity.TriggerTabActivated),
		string(entity.TriggerTabUpdated),
		string(entity.TriggerAlarm),
		string(entity.TriggerUserUpdate),
	},
	RunE: runTrigger,
}

func init() {
	rootCmd.AddCommand(triggerCmd)
}

func runTrigger(_ *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	trigger, ok := entity.ParseTrigger(args[0])
	if !ok {
		return fmt.Errorf("unknown trigger %q", args[0])
	}

	st, err := app.Client.Trigger(app.Ctx(), trigger)
	if err != nil {
		return err
	}
	fmt.Println(app.Theme.StateBadge(st.State), app.Theme.RenderBadge(st.Badge))
	return nil
}
