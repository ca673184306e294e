package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StyleDefaults are the fallback subtitle style values applied when an
// export request omits a setting. They can be overridden with an optional
// YAML file next to the binary.
type StyleDefaults struct {
	Quality   string `yaml:"quality"`
	FontSize  string `yaml:"font_size"`
	FontColor string `yaml:"font_color"`
	Position  string `yaml:"position"`
}

// DefaultStyle returns the built-in subtitle style defaults.
func DefaultStyle() StyleDefaults {
	return StyleDefaults{
		Quality:   "medium",
		FontSize:  "medium",
		FontColor: "#ffffff",
		Position:  "bottom",
	}
}

// LoadStyleDefaults reads style defaults from path, falling back to the
// built-in defaults when the file does not exist. Fields missing from the
// file keep their built-in value.
func LoadStyleDefaults(path string) (StyleDefaults, error) {
	defaults := DefaultStyle()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("failed to read style config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return DefaultStyle(), fmt.Errorf("failed to parse style config %s: %w", path, err)
	}

	if defaults.Quality == "" {
		defaults.Quality = "medium"
	}
	if defaults.FontSize == "" {
		defaults.FontSize = "medium"
	}
	if defaults.FontColor == "" {
		defaults.FontColor = "#ffffff"
	}
	if defaults.Position == "" {
		defaults.Position = "bottom"
	}

	return defaults, nil
}
