package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// MarkerName is the file an installer leaves in its output directory
const MarkerName = ".installed.yaml"

// Marker records what was installed into an output directory
type Marker struct {
	Version     string    `yaml:"version"`
	Kind        Kind      `yaml:"kind"`
	Source      string    `yaml:"source"`
	Checksum    string    `yaml:"checksum,omitempty"`
	InstalledAt time.Time `yaml:"installed_at"`
}

// ReadMarker loads the marker from dir
func ReadMarker(dir string) (*Marker, error) {
	data, err := os.ReadFile(filepath.Join(dir, MarkerName))
	if err != nil {
		return nil, err
	}

	var m Marker
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", MarkerName, err)
	}
	return &m, nil
}

// WriteMarker saves m into dir
func WriteMarker(dir string, m *Marker) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling marker: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, MarkerName), data, 0644); err != nil {
		return fmt.Errorf("writing marker: %w", err)
	}
	return nil
}
