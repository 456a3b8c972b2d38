package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads a configuration file and overlays it on Defaults().
// The format is chosen by extension: .json, .yaml/.yml or .toml.
func Load(path string) (Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Configuration{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the format named by ext over Defaults(), then
// normalizes and validates the result.
func Parse(data []byte, ext string) (Configuration, error) {
	cfg := Defaults()

	switch strings.ToLower(ext) {
	case ".json", "":
		if len(bytes.TrimSpace(data)) > 0 {
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Configuration{}, fmt.Errorf("failed to decode json: %w", err)
			}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Configuration{}, fmt.Errorf("failed to decode yaml: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Configuration{}, fmt.Errorf("failed to decode toml: %w", err)
		}
	default:
		return Configuration{}, fmt.Errorf("unsupported config format %q", ext)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Configuration{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Resolve returns the configuration to use, applying the fallback chain:
//  1. explicitPath, when non-empty (must exist)
//  2. <dir>/import-sorter.json
//  3. Defaults()
//
// The returned string is the file that was loaded, or "" for defaults.
func Resolve(explicitPath, dir string) (Configuration, string, error) {
	if explicitPath != "" {
		cfg, err := Load(explicitPath)
		if err != nil {
			return Configuration{}, "", err
		}
		return cfg, explicitPath, nil
	}

	candidate := filepath.Join(dir, DefaultConfigurationFilePath)
	cfg, err := Load(candidate)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), "", nil
	}
	if err != nil {
		return Configuration{}, "", err
	}
	return cfg, candidate, nil
}
