// pkg/deps/fetch.go
package deps

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// Fetcher clones dependency repositories next to each other below Dir
type Fetcher struct {
	Dir      string    // Parent directory; each dependency lives in Dir/<Name>
	Progress io.Writer // git progress output (may be nil)
	Logger   *log.Logger
}

// Path is where dep is (or will be) cloned
func (f *Fetcher) Path(dep Dependency) string {
	return filepath.Join(f.Dir, dep.Name)
}

// Fetch clones every dependency that is not present yet and returns the
// repository paths in the order of list
func (f *Fetcher) Fetch(ctx context.Context, list []Dependency) ([]string, error) {
	paths := make([]string, 0, len(list))

	for _, dep := range list {
		dest := f.Path(dep)

		if _, err := os.Stat(dest); err == nil {
			f.logf("%s already exists at %s", dep.Name, dest)
			paths = append(paths, dest)
			continue
		}

		if err := f.clone(ctx, dep, dest); err != nil {
			return nil, err
		}
		paths = append(paths, dest)
	}

	return paths, nil
}

func (f *Fetcher) clone(ctx context.Context, dep Dependency, dest string) error {
	if dep.URI == "" {
		return fmt.Errorf("%s: no repository URI", dep.Name)
	}

	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", f.Dir, err)
	}

	// Clone next to dest so a failed clone never leaves a partial repository
	// where activation would find it.
	tempDir, err := os.MkdirTemp(f.Dir, "."+dep.Name+"-clone-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	f.logf("Cloning %s from %s", dep.Name, dep.URI)

	_, err = git.PlainCloneContext(ctx, tempDir, false, &git.CloneOptions{
		URL:          dep.URI,
		SingleBranch: true,
		Depth:        1,
		Progress:     f.Progress,
	})
	if err != nil {
		return fmt.Errorf("git clone %s failed: %w", dep.URI, err)
	}

	if err := os.Rename(tempDir, dest); err != nil {
		return fmt.Errorf("moving %s into place: %w", dep.Name, err)
	}

	f.logf("✓ Cloned %s into %s", dep.Name, dest)
	return nil
}

func (f *Fetcher) logf(format string, args ...any) {
	if f.Logger != nil {
		f.Logger.Printf(format, args...)
	}
}
