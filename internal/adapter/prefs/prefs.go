// Package prefs persists client display preferences as a small YAML file.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Glamour style names selected by the dark-mode flag
const (
	StyleDark  = "dark"
	StyleLight = "light"
)

// Prefs holds the persisted client preferences
type Prefs struct {
	DarkMode bool `yaml:"dark_mode"`
}

// Style returns the terminal rendering style for the preference
func (p Prefs) Style() string {
	if p.DarkMode {
		return StyleDark
	}
	return StyleLight
}

// Store reads and writes preferences at a fixed path
type Store struct {
	Path string
}

// NewStore creates a Store for the given file
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the preferences. A missing file yields the defaults (light mode).
func (s *Store) Load() (Prefs, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Prefs{}, nil
	}
	if err != nil {
		return Prefs{}, fmt.Errorf("failed to read preferences: %w", err)
	}

	var p Prefs
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Prefs{}, fmt.Errorf("failed to parse preferences %s: %w", s.Path, err)
	}
	return p, nil
}

// Save writes the preferences, creating the parent directory if needed
func (s *Store) Save(p Prefs) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}
