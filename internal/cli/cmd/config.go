package cmd

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/bnema/geobadge/internal/cli/styles"
	"github.com/bnema/geobadge/internal/infrastructure/filesystem"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the daemon configuration",
	Long:  `Show where the configuration lives and what the daemon will run with.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config and settings file paths",
	RunE:  runConfigPath,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Long:  `Print the configuration after defaults, the config file and GEOBADGE_* environment variables are merged.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")
}

func runConfigPath(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	t := app.Theme
	rows := []struct {
		label string
		path  string
	}{
		{"Config", app.ConfigManager.GetConfigFile()},
		{"Settings", app.Settings.Path()},
		{"Badge", app.Config.Badge.OutputDir},
		{"Database", app.Config.Database.Path},
	}
	for _, row := range rows {
		status := t.Subtle.Render("-")
		if ok, _ := filesystem.Exists(row.path); ok {
			status = t.SuccessStyle.Render(styles.IconCheck)
		}
		fmt.Printf("%s %s %s\n", status, t.Subtle.Width(10).Render(row.label), row.path)
	}
	return nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	enc := toml.NewEncoder(os.Stdout)
	enc.SetIndentTables(true)
	return enc.Encode(app.Config)
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	path := app.ConfigManager.GetConfigFile()
	exists, err := filesystem.Exists(path)
	if err != nil {
		return err
	}
	if exists && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := app.ConfigManager.Save(app.Config); err != nil {
		return err
	}
	fmt.Println(app.Theme.SuccessStyle.Render(styles.IconCheck+" Wrote"), path)
	return nil
}
