package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/geobadge/internal/cli/model"
	"github.com/bnema/geobadge/internal/cli/styles"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the daemon state and the session location",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the raw status as JSON")
}

func runStatus(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	st, err := app.Client.Status(app.Ctx())
	if err != nil {
		return err
	}

	if statusJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	fmt.Println(styles.NewLocationRenderer(app.Theme).Render(model.ViewFromStatus(st)))
	fmt.Println(app.Theme.Subtle.Render(fmt.Sprintf("pid %d, session %s, up since %s",
		st.PID, st.SessionID, st.StartedAt.Format("15:04:05"))))
	return nil
}
