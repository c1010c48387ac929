// Package versions resolves which installed version directory of a tool to
// use, given the version constraints of the active configuration.
package versions

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrNotInstalled indicates no matching version directory exists
var ErrNotInstalled = errors.New("no installed version found")

// VersionInfo pins a named tool or library to a version
type VersionInfo struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
}

// Specs are the version constraints carried by a configuration
type Specs struct {
	Tools     []VersionInfo            `yaml:"tools" json:"tools"`
	Libraries map[string][]VersionInfo `yaml:"libraries,omitempty" json:"libraries,omitempty"`
}

// Lookup returns the version pinned for name, if any
func Lookup(infos []VersionInfo, name string) (string, bool) {
	for _, info := range infos {
		if info.Name == name {
			return info.Version, true
		}
	}
	return "", false
}

// DirName returns the directory name used for version on disk ("v15.0.2")
func DirName(version string) string {
	return "v" + strings.TrimPrefix(version, "v")
}

// Resolve finds the version directory under root. root's base name is the
// tool name looked up in tools. A pinned version must exist; otherwise the
// highest version present is chosen. The returned version has no "v" prefix.
func Resolve(root string, tools []VersionInfo) (string, string, error) {
	name := filepath.Base(root)

	if version, ok := Lookup(tools, name); ok {
		dir := filepath.Join(root, DirName(version))
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return "", "", fmt.Errorf("%s %s (%s): %w", name, version, dir, ErrNotInstalled)
		}
		return dir, strings.TrimPrefix(version, "v"), nil
	}

	installed, err := Installed(root)
	if err != nil {
		return "", "", err
	}
	if len(installed) == 0 {
		return "", "", fmt.Errorf("%s (%s): %w", name, root, ErrNotInstalled)
	}

	latest := installed[len(installed)-1]
	return filepath.Join(root, DirName(latest)), latest, nil
}

// Installed lists the versions found under root, lowest first. Directories
// that are not named "v<semver>" are ignored.
func Installed(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}

	var found []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if canonical(entry.Name()) == "" {
			continue
		}
		found = append(found, strings.TrimPrefix(entry.Name(), "v"))
	}

	sort.Slice(found, func(i, j int) bool {
		return semver.Compare(canonical("v"+found[i]), canonical("v"+found[j])) < 0
	})
	return found, nil
}

// canonical returns a comparable semver for dir names like "v15.0.2", or ""
func canonical(name string) string {
	if !strings.HasPrefix(name, "v") || !semver.IsValid(name) {
		return ""
	}
	return semver.Canonical(name)
}

// Descend walks from dir into each named subdirectory in turn, stopping at
// the first one that does not exist. Version directories hold per-family and
// per-architecture trees ("v15.0.2/Linux/x64").
func Descend(dir string, names ...string) string {
	for _, name := range names {
		next := filepath.Join(dir, name)
		info, err := os.Stat(next)
		if err != nil || !info.IsDir() {
			break
		}
		dir = next
	}
	return dir
}
