// pkg/env/library.go
package env

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindLibrary searches for a library by name.
// Returns the first match found in the library search paths.
func (t *Toolchain) FindLibrary(name string) *Library {
	for _, dir := range t.LibraryPaths() {
		for _, ext := range GetLibraryExtensions() {
			// lib{name}{ext}, e.g. libc++.so
			filename := "lib" + name + ext
			fullPath := filepath.Join(dir, filename)
			if fileExists(fullPath) {
				return &Library{Name: name, Path: fullPath, Type: ext, IsStatic: isStatic(ext)}
			}

			// Versioned, e.g. libc++.so.1
			matches, _ := filepath.Glob(filepath.Join(dir, filename+".*"))
			if len(matches) > 0 {
				return &Library{Name: name, Path: matches[0], Type: ext, IsStatic: isStatic(ext)}
			}
		}
	}
	return nil
}

// HasLibrary checks if a library exists in the toolchain
func (t *Toolchain) HasLibrary(name string) bool {
	return t.FindLibrary(name) != nil
}

// FindAllLibraries returns every library in the library search paths
func (t *Toolchain) FindAllLibraries() []*Library {
	var libraries []*Library
	seen := make(map[string]bool)

	for _, dir := range t.LibraryPaths() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			name := entry.Name()
			for _, ext := range GetLibraryExtensions() {
				if !strings.HasSuffix(name, ext) && !strings.Contains(name, ext+".") {
					continue
				}

				fullPath := filepath.Join(dir, name)
				if seen[fullPath] {
					break
				}
				seen[fullPath] = true

				libraries = append(libraries, &Library{
					Name:     libraryName(name, ext),
					Path:     fullPath,
					Type:     ext,
					IsStatic: isStatic(ext),
				})
				break
			}
		}
	}

	return libraries
}

// ListLibraryNames returns the sorted names of every library found
func (t *Toolchain) ListLibraryNames() []string {
	seen := make(map[string]bool)
	var names []string

	for _, lib := range t.FindAllLibraries() {
		if !seen[lib.Name] {
			seen[lib.Name] = true
			names = append(names, lib.Name)
		}
	}

	sort.Strings(names)
	return names
}

// libraryName strips the lib prefix, the extension and any version suffix
func libraryName(filename, ext string) string {
	name := strings.TrimPrefix(filename, "lib")
	if i := strings.Index(name, ext); i >= 0 {
		name = name[:i]
	}
	return name
}
