// Package installer downloads, verifies and unpacks tool payloads into their
// output directories, and reports whether an output directory holds the
// expected version.
package installer

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/process"
)

var (
	// ErrInstall indicates an installer could not complete
	ErrInstall = errors.New("installation failed")

	// ErrChecksumMismatch indicates a payload did not match its declared checksum
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// Kind identifies how a payload is obtained and unpacked
type Kind string

const (
	KindZip           Kind = "zip"      // downloaded .zip
	KindTarXz         Kind = "tar.xz"   // downloaded .tar.xz
	KindTarZst        Kind = "tar.zst"  // downloaded .tar.zst
	KindSevenZip      Kind = "7z"       // downloaded .7z, unpacked with the 7z tool
	KindLocalSevenZip Kind = "local-7z" // .7z already in the repository
	KindNSIS          Kind = "nsis"     // downloaded NSIS installer executable
)

// Kinds lists every supported kind
var Kinds = []Kind{KindZip, KindTarXz, KindTarZst, KindSevenZip, KindLocalSevenZip, KindNSIS}

// IsLocal reports whether the payload lives on disk instead of behind a URL
func (k Kind) IsLocal() bool {
	return k == KindLocalSevenZip
}

// Installer is the contract the setup and activation planners rely on
type Installer interface {
	// Install materializes the payload into OutputDir
	Install(ctx context.Context, opts InstallOptions) error

	// ShouldInstall reports whether OutputDir is missing or holds another
	// version. hint overrides the required version when non-nil.
	ShouldInstall(hint *string) Status

	// OutputDir is where the payload is unpacked
	OutputDir() string

	// SetOutputDir relocates the payload; only valid before Install
	SetOutputDir(dir string)

	// RequiredVersion is the version the payload provides
	RequiredVersion() string
}

// InstallOptions configures a single Install call
type InstallOptions struct {
	Force                bool  // Reinstall even when the expected version is present
	PromptForInteractive bool  // The payload has an interactive mode worth offering
	Interactive          *bool // nil = not specified by the user
	KeepArchive          bool  // Keep downloaded archives in the cache
}

// Status is the structured answer of ShouldInstall
type Status struct {
	Install bool
	Reason  string // Why Install is true; empty otherwise
}

// Spec declares a payload
type Spec struct {
	Kind            Kind
	Source          string // URL, or path for local kinds
	Checksum        string // "sha256:<hex>"; empty skips verification
	OutputDir       string
	Version         string
	StripComponents int // Leading path elements removed from tar entries
}

// Config holds configuration shared by all installers
type Config struct {
	// CachePath is where downloaded archives are kept
	CachePath string

	// Timeout for downloads
	Timeout time.Duration

	// Client performs downloads (created from Timeout when nil)
	Client *Client

	// Runner runs external unpackers and NSIS installers
	Runner process.Runner

	// SevenZip is the 7-Zip executable (default: 7z)
	SevenZip string

	// Debug enables debug logging
	Debug bool

	// Logger for custom logging
	Logger *log.Logger
}
