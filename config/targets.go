package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// RemovalOverride drops matching elements before a field's text is read
type RemovalOverride struct {
	Selector    string `yaml:"selector"`
	ApplyToPath string `yaml:"apply_to_path"` // "text" or "time"
}

// SelectorOverride replaces individual selectors of a target.
// A non-empty RemoveElements list replaces the built-in removals.
type SelectorOverride struct {
	Container      string            `yaml:"container"`
	Text           string            `yaml:"text"`
	Time           string            `yaml:"time"`
	RemoveElements []RemovalOverride `yaml:"remove_elements"`
}

// TargetOverride holds the settings a targets file may change for one target.
// Zero values keep the built-in setting.
type TargetOverride struct {
	URL        string           `yaml:"url"`
	Selectors  SelectorOverride `yaml:"selectors"`
	MaxRetries int              `yaml:"max_retries"`
	Humanize   *bool            `yaml:"humanize"`
	UserAgent  string           `yaml:"user_agent"` // "random" picks a built-in one
	Recency    string           `yaml:"recency"`    // feed, profile or none
}

// LoadTargetOverrides reads a YAML file mapping target names to overrides.
// An empty path yields no overrides.
func LoadTargetOverrides(path string) (map[string]TargetOverride, error) {
	if path == "" {
		return map[string]TargetOverride{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}

	overrides := map[string]TargetOverride{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&overrides); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse targets file %s: %w", path, err)
	}
	for name, o := range overrides {
		if o.MaxRetries < 0 {
			return nil, fmt.Errorf("target %s: max_retries must not be negative", name)
		}
		for _, r := range o.Selectors.RemoveElements {
			if r.Selector == "" {
				return nil, fmt.Errorf("target %s: remove_elements entry without selector", name)
			}
			if r.ApplyToPath != "text" && r.ApplyToPath != "time" {
				return nil, fmt.Errorf("target %s: apply_to_path must be text or time, got %q", name, r.ApplyToPath)
			}
		}
	}
	return overrides, nil
}
