package config

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML settings file at path, merges it onto Defaults() (a
// present field in the file overrides the default; an absent one keeps
// the default), validates the result, and returns it. This mirrors the
// teacher's pkg/config/loader.go: yaml.v3 decode + mergo.Merge over a
// built-in baseline, then Validator.ValidateAll.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}
	return LoadBytes(data)
}

// LoadBytes parses YAML settings from data (exported for embedding/testing
// without touching the filesystem).
func LoadBytes(data []byte) (*Settings, error) {
	var override Settings
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parsing settings yaml: %w", err)
	}

	merged := Defaults()
	if err := mergo.Merge(merged, override, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merging settings with defaults: %w", err)
	}

	if err := NewValidator(merged).ValidateAll(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return merged, nil
}
