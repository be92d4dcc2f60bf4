package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadInstance reads a normalized instance file, yaml or json by extension.
func LoadInstance(path string) (*Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instance: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return DecodeInstance(data, "yaml")
	case ".json":
		return DecodeInstance(data, "json")
	default:
		return nil, fmt.Errorf("unsupported instance format %q", ext)
	}
}

// DecodeInstance parses an instance document in the given format.
func DecodeInstance(data []byte, format string) (*Instance, error) {
	var in Instance
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("decode yaml instance: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("decode json instance: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported instance format %q", format)
	}
	return &in, nil
}
