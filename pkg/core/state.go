package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/versions"
)

// StateFileName is the selection file written into the generated directory
const StateFileName = "configuration.yaml"

// ErrNoState indicates no configuration has been selected yet
var ErrNoState = errors.New("no configuration selected; run setup first")

// State is the configuration selected by setup and reused by activate
type State struct {
	Configuration string         `yaml:"configuration"`
	VersionSpecs  versions.Specs `yaml:"version_specs"`
}

// LoadState reads the state from generatedDir
func LoadState(generatedDir string) (*State, error) {
	data, err := os.ReadFile(filepath.Join(generatedDir, StateFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoState
		}
		return nil, fmt.Errorf("reading state: %w", err)
	}

	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}
	if s.Configuration == "" {
		return nil, ErrNoState
	}
	return &s, nil
}

// SaveState writes s into generatedDir
func SaveState(generatedDir string, s *State) error {
	if err := os.MkdirAll(generatedDir, 0755); err != nil {
		return fmt.Errorf("creating generated directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	if err := os.WriteFile(filepath.Join(generatedDir, StateFileName), data, 0644); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}
