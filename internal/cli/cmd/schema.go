package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/geobadge/internal/infrastructure/config"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [path]",
	Short: "Write the JSON schema of settings.toml",
	Long: `Write a JSON schema describing settings.toml, for editor completion
and validation. Defaults to settings.schema.json next to the settings file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(_ *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	} else if path, err = config.GetSchemaFile(); err != nil {
		return err
	}

	if err := config.GenerateSchemaFile(path); err != nil {
		return err
	}
	fmt.Println(app.Theme.SuccessStyle.Render("schema written to " + path))
	return nil
}
