package installer

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/mholt/archiver/v3"
	"github.com/ulikunitz/xz"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/process"
)

// extractZip unpacks a zip archive, keeping its top-level folder
func extractZip(src, dest string) error {
	z := archiver.NewZip()
	z.OverwriteExisting = true
	z.MkdirAll = true

	if err := z.Unarchive(src, dest); err != nil {
		return fmt.Errorf("unpacking zip: %w", err)
	}
	return nil
}

// extractTarXz unpacks an xz-compressed tarball using native Go library
func extractTarXz(src, dest string, strip int) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	xzReader, err := xz.NewReader(f)
	if err != nil {
		return fmt.Errorf("creating xz reader: %w", err)
	}

	return untar(xzReader, dest, strip)
}

// extractTarZst unpacks a zstd-compressed tarball
func extractTarZst(src, dest string, strip int) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	decoder, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("creating zstd reader: %w", err)
	}
	defer decoder.Close()

	return untar(decoder, dest, strip)
}

// extractSevenZip unpacks a 7z archive with the external 7-Zip tool
func extractSevenZip(ctx context.Context, runner process.Runner, exe, src, dest string) error {
	result, err := runner.Run(ctx, process.Cmd{
		Args: []string{exe, "x", "-y", "-o" + dest, src},
	})
	if err != nil {
		return fmt.Errorf("running 7z: %w", err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("7z exited with %d:\n%s", result.ExitCode, result.Output)
	}
	return nil
}

// untar writes every entry of r below dest
func untar(r io.Reader, dest string, strip int) error {
	tr := tar.NewReader(r)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		rel := stripComponents(hdr.Name, strip)
		if rel == "" {
			continue
		}

		target := filepath.Join(dest, filepath.FromSlash(rel))
		if !within(target, dest) {
			return fmt.Errorf("tar entry escapes destination: %s", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("creating parent directory: %w", err)
			}

			perm := os.FileMode(0644)
			if hdr.Mode&0111 != 0 {
				perm = 0755
			}

			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
			if err != nil {
				return fmt.Errorf("creating file %s: %w", target, err)
			}
			_, err = io.Copy(out, tr)
			out.Close()
			if err != nil {
				return fmt.Errorf("writing file %s: %w", target, err)
			}

		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("creating parent directory: %w", err)
			}
			os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return fmt.Errorf("creating symlink: %w", err)
			}

		default:
			// Ignore other types
		}
	}
}

func stripComponents(name string, n int) string {
	name = strings.TrimPrefix(filepath.ToSlash(name), "./")
	parts := strings.Split(strings.Trim(name, "/"), "/")
	if len(parts) <= n {
		return ""
	}
	return strings.Join(parts[n:], "/")
}

// within reports whether path is dir or lies below it
func within(path, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
