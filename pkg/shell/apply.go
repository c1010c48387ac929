package shell

import (
	"fmt"
	"os"
	"path/filepath"
)

// Apply performs the filesystem side of cmds. Environment commands only take
// effect in the shell that evaluates the rendered script and are skipped here.
func Apply(cmds []Command) error {
	for _, cmd := range cmds {
		link, ok := cmd.(SymbolicLink)
		if !ok {
			continue
		}
		if err := applyLink(link); err != nil {
			return err
		}
	}
	return nil
}

func applyLink(c SymbolicLink) error {
	if c.RemoveExisting {
		if info, err := os.Lstat(c.Link); err == nil {
			remove := os.Remove
			if info.IsDir() {
				remove = os.RemoveAll
			}
			if err := remove(c.Link); err != nil {
				return fmt.Errorf("removing existing link %s: %w", c.Link, err)
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("checking %s: %w", c.Link, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(c.Link), 0755); err != nil {
		return fmt.Errorf("creating link directory: %w", err)
	}

	target, err := linkTarget(c)
	if err != nil {
		return err
	}

	if err := os.Symlink(target, c.Link); err != nil {
		return fmt.Errorf("creating symlink %s -> %s: %w", c.Link, target, err)
	}
	return nil
}
