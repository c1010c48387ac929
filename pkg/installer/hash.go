// hash.go
package installer

import (
	"fmt"
	"io"
	"os"

	"zombiezen.com/go/nix"
)

// ParseChecksum validates a checksum string such as "sha256:<hex>"
func ParseChecksum(s string) (nix.Hash, error) {
	h, err := nix.ParseHash(s)
	if err != nil {
		return nix.Hash{}, fmt.Errorf("parsing checksum %q: %w", s, err)
	}
	return h, nil
}

// FileChecksum computes the hash of filePath using the same algorithm as want
func FileChecksum(filePath string, want nix.Hash) (nix.Hash, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nix.Hash{}, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	hasher := nix.NewHasher(want.Type())
	if _, err := io.Copy(hasher, f); err != nil {
		return nix.Hash{}, fmt.Errorf("computing hash: %w", err)
	}

	return hasher.SumHash(), nil
}

// VerifyFile checks filePath against the expected checksum string
func VerifyFile(filePath, checksum string) error {
	want, err := ParseChecksum(checksum)
	if err != nil {
		return err
	}

	got, err := FileChecksum(filePath, want)
	if err != nil {
		return err
	}

	if got.String() != want.String() {
		return fmt.Errorf("%s: expected %s, got %s: %w", filePath, want, got, ErrChecksumMismatch)
	}
	return nil
}
