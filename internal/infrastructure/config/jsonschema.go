package config

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/infrastructure/filesystem"
	"github.com/invopop/jsonschema"
)

// SettingsSchema returns the JSON schema of settings.toml.
func SettingsSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	schema := r.Reflect(&entity.Settings{})

	schema.ID = "https://github.com/bnema/geobadge/settings.schema.json"
	schema.Title = "geobadge settings"
	schema.Description = "User settings for geobadge: location provider, badge display mode and badge color"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// GenerateSchemaFile writes the settings JSON schema to path.
func GenerateSchemaFile(path string) error {
	data, err := SettingsSchema()
	if err != nil {
		return err
	}
	if err := filesystem.WriteFileAtomic(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}
	return nil
}
