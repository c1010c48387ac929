// Package shell defines the environment mutations an activated shell needs
// and renders them for a concrete shell dialect.
//
// Commands are plain data. Planners emit them in the order they must be
// applied; Render turns them into a script and Apply performs the ones that
// have a filesystem effect (symbolic links).
package shell

import (
	"fmt"
	"os"
)

// Command is a single environment mutation.
type Command interface {
	// Kind returns a short stable name for the command type
	Kind() string
}

// AugmentPath adds directories to PATH. Values are prepended in order unless
// AppendValues is set.
type AugmentPath struct {
	Values       []string
	AppendValues bool
}

// Augment adds values to a list-valued environment variable.
type Augment struct {
	Name         string
	Values       []string
	AppendValues bool
}

// Set replaces an environment variable.
type Set struct {
	Name   string
	Values []string
}

// SymbolicLink creates Link pointing at Target.
type SymbolicLink struct {
	Link           string
	Target         string
	IsDir          bool
	RemoveExisting bool // Replace whatever is at Link
	Relative       bool // Store Target relative to Link's directory
}

// NewAugmentPath creates a PATH prepend for values.
func NewAugmentPath(values ...string) AugmentPath {
	return AugmentPath{Values: values}
}

// NewAugment creates a prepend of values onto the variable name.
func NewAugment(name string, values ...string) Augment {
	return Augment{Name: name, Values: values}
}

func (AugmentPath) Kind() string  { return "augment_path" }
func (Augment) Kind() string      { return "augment" }
func (Set) Kind() string          { return "set" }
func (SymbolicLink) Kind() string { return "symbolic_link" }

// EnsureDir returns path, panicking when it is not an existing directory.
// Callers use it where a missing directory means the tools tree is corrupt.
func EnsureDir(path string) string {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		panic(fmt.Sprintf("directory does not exist: %s", path))
	}
	return path
}

// CreateTempDirectory creates a new scratch directory under base (the system
// temp directory when base is empty).
func CreateTempDirectory(base string) (string, error) {
	dir, err := os.MkdirTemp(base, "llvmboot-")
	if err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}
	return dir, nil
}
