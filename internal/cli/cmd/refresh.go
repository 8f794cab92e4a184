package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/geobadge/internal/cli/model"
	"github.com/bnema/geobadge/internal/cli/styles"
	"github.com/bnema/geobadge/internal/domain/entity"
)

var refreshNoWait bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Ask the daemon for a fresh location",
	Long: `Force a location update, bypassing the staleness check.

By default the command waits for the provider answer and prints the new
location. With --no-wait the request is sent over the websocket and the
command returns immediately.`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	refreshCmd.Flags().BoolVar(&refreshNoWait, "no-wait", false, "send the request and return without waiting")
}

func runRefresh(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	ctx := app.Ctx()

	if refreshNoWait {
		if err := app.Client.SendFrame(ctx, entity.MessageUpdate); err != nil {
			return err
		}
		fmt.Println(app.Theme.Subtle.Render(styles.IconSync + " update requested"))
		return nil
	}

	st, err := app.Client.SendMessage(ctx, entity.MessageUpdate)
	if err != nil {
		return err
	}
	fmt.Println(styles.NewLocationRenderer(app.Theme).Render(model.ViewFromStatus(st)))
	if st.State == entity.RefreshStateError {
		return fmt.Errorf("update failed: %s", st.LastError)
	}
	return nil
}
