package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/geobadge/internal/cli/styles"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show version and build information",
	Long:  `Display version, build info, the config file in use and the daemon address.`,
	RunE:  runAbout,
}

func init() {
	rootCmd.AddCommand(aboutCmd)
}

func runAbout(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	renderer := styles.NewAboutRenderer(app.Theme)
	fmt.Println(renderer.Render(styles.AboutInfo{
		Build:      app.BuildInfo,
		ConfigFile: app.ConfigManager.GetConfigFile(),
		ListenAddr: app.Config.Control.ListenAddr,
	}))
	return nil
}
