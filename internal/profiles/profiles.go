// Package profiles persists named parameter presets as JSON files, the way
// the segmentation form saves and restores its settings.
package profiles

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/cellseg-labs/cellseg/internal/engine"
	"github.com/cellseg-labs/cellseg/internal/imaging"
)

// DefaultDir is where profiles are stored unless overridden.
const DefaultDir = "profiles"

// Profile is a saved parameter set plus the display settings.
type Profile struct {
	Model             string  `json:"model"`
	Diameter          float64 `json:"diameter"`
	FlowThreshold     float64 `json:"flow_threshold"`
	CellprobThreshold float64 `json:"cellprob_threshold"`
	Chan              int     `json:"chan"`
	Chan2             int     `json:"chan2"`
	DisplayChannel    string  `json:"display_channel"`
	Colormap          string  `json:"colormap"`
}

// Params extracts the engine parameter set from a profile.
func (p Profile) Params() engine.Params {
	return engine.Params{
		Model:             p.Model,
		Diameter:          p.Diameter,
		FlowThreshold:     p.FlowThreshold,
		CellprobThreshold: p.CellprobThreshold,
		Chan:              p.Chan,
		Chan2:             p.Chan2,
	}
}

// Validate checks every field against the same ranges the form enforces.
func (p Profile) Validate() error {
	if err := p.Params().Validate(); err != nil {
		return err
	}
	if err := imaging.ValidateDisplayChannel(p.DisplayChannel); err != nil {
		return err
	}
	if _, err := imaging.GetColormap(p.Colormap); err != nil {
		return err
	}
	return nil
}

// Store reads and writes profiles under a directory.
type Store struct {
	dir string
}

// NewStore creates a profile store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SanitizeName reduces a profile name to a safe filename stem. An empty
// result means the name was unusable.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	return name
}

// Save validates and writes a profile, returning the sanitized name it was
// stored under.
func (s *Store) Save(name string, profile Profile) (string, error) {
	safe := SanitizeName(name)
	if safe == "" {
		return "", fmt.Errorf("invalid profile name %q", name)
	}
	if err := profile.Validate(); err != nil {
		return "", fmt.Errorf("invalid profile settings: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create profiles directory: %w", err)
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, safe+".json"), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write profile: %w", err)
	}
	return safe, nil
}

// Load reads a profile by name, validating its contents so a hand-edited
// file cannot smuggle out-of-range settings into the form.
func (s *Store) Load(name string) (*Profile, error) {
	safe := SanitizeName(name)
	if safe == "" {
		return nil, fmt.Errorf("invalid profile name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, safe+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("profile %q not found", safe)
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("invalid JSON in profile %q: %w", safe, err)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in profile %q: %w", safe, err)
	}
	return &profile, nil
}

// List returns the saved profile names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a saved profile.
func (s *Store) Delete(name string) error {
	safe := SanitizeName(name)
	if safe == "" {
		return fmt.Errorf("invalid profile name %q", name)
	}
	if err := os.Remove(filepath.Join(s.dir, safe+".json")); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("profile %q not found", safe)
		}
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// Default returns the profile matching the form's initial state.
func Default() Profile {
	params := engine.DefaultParams()
	return Profile{
		Model:             params.Model,
		Diameter:          params.Diameter,
		FlowThreshold:     params.FlowThreshold,
		CellprobThreshold: params.CellprobThreshold,
		Chan:              params.Chan,
		Chan2:             params.Chan2,
		DisplayChannel:    imaging.DisplayRGB,
		Colormap:          "tab20b",
	}
}
