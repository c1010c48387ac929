// archive.go
package installer

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/davidbrownell/v4-Common-LLVM/pkg/process"
)

// Archive installs a single payload described by a Spec
type Archive struct {
	spec   Spec
	config *Config
	client *Client
	runner process.Runner
	logger *log.Logger
}

// New creates an installer for spec
func New(spec Spec, cfg *Config) (*Archive, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	if !knownKind(spec.Kind) {
		return nil, fmt.Errorf("unsupported installer kind: %q", spec.Kind)
	}
	if spec.Source == "" {
		return nil, fmt.Errorf("installer source is required")
	}
	if spec.OutputDir == "" {
		return nil, fmt.Errorf("installer output directory is required")
	}
	if spec.Checksum != "" {
		if _, err := ParseChecksum(spec.Checksum); err != nil {
			return nil, err
		}
	}

	if cfg.CachePath == "" {
		homeDir, _ := os.UserHomeDir()
		cfg.CachePath = filepath.Join(homeDir, ".cache", "llvmboot")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Minute
	}
	if cfg.SevenZip == "" {
		cfg.SevenZip = "7z"
	}

	client := cfg.Client
	if client == nil {
		client = NewClientWithTimeout(cfg.Timeout)
	}

	runner := cfg.Runner
	if runner == nil {
		runner = process.NewExecRunner(nil)
	}

	// Setup logger
	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[INSTALL] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Archive{
		spec:   spec,
		config: cfg,
		client: client,
		runner: runner,
		logger: logger,
	}, nil
}

func knownKind(k Kind) bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Spec returns the payload declaration
func (a *Archive) Spec() Spec {
	return a.spec
}

// OutputDir is where the payload is unpacked
func (a *Archive) OutputDir() string {
	return a.spec.OutputDir
}

// SetOutputDir relocates the payload
func (a *Archive) SetOutputDir(dir string) {
	a.spec.OutputDir = dir
}

// RequiredVersion is the version the payload provides
func (a *Archive) RequiredVersion() string {
	return a.spec.Version
}

// ShouldInstall compares the marker in OutputDir with the required version
func (a *Archive) ShouldInstall(hint *string) Status {
	required := a.spec.Version
	if hint != nil {
		required = *hint
	}

	if _, err := os.Stat(a.spec.OutputDir); os.IsNotExist(err) {
		return Status{Install: true, Reason: fmt.Sprintf("'%s' does not exist.", a.spec.OutputDir)}
	}

	marker, err := ReadMarker(a.spec.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return Status{Install: true, Reason: fmt.Sprintf("'%s' has not been installed.", a.spec.OutputDir)}
		}
		return Status{Install: true, Reason: fmt.Sprintf("'%s' is corrupt: %v", a.spec.OutputDir, err)}
	}

	if marker.Version != required {
		return Status{
			Install: true,
			Reason:  fmt.Sprintf("'%s' is installed in '%s' but '%s' is required.", marker.Version, a.spec.OutputDir, required),
		}
	}

	return Status{}
}

// Install downloads (if needed), verifies and unpacks the payload
func (a *Archive) Install(ctx context.Context, opts InstallOptions) error {
	if !opts.Force {
		if status := a.ShouldInstall(nil); !status.Install {
			a.logger.Printf("'%s' is already installed in %s", a.spec.Version, a.spec.OutputDir)
			return nil
		}
	}

	a.logger.Printf("Installing %s (%s) into %s", a.spec.Source, a.spec.Kind, a.spec.OutputDir)

	archivePath, downloaded, err := a.fetch(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}

	if err := a.install(ctx, archivePath, opts); err != nil {
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}

	if downloaded && !opts.KeepArchive {
		os.Remove(archivePath)
	}

	a.logger.Printf("✓ Installed '%s' into %s", a.spec.Version, a.spec.OutputDir)
	return nil
}

func (a *Archive) install(ctx context.Context, archivePath string, opts InstallOptions) error {
	if a.spec.Checksum != "" {
		if err := VerifyFile(archivePath, a.spec.Checksum); err != nil {
			return err
		}
	}

	// Local archives may live in their own output directory.
	if !within(archivePath, a.spec.OutputDir) {
		if err := os.RemoveAll(a.spec.OutputDir); err != nil {
			return fmt.Errorf("removing previous installation: %w", err)
		}
	}
	if err := os.MkdirAll(a.spec.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var err error
	switch a.spec.Kind {
	case KindZip:
		err = extractZip(archivePath, a.spec.OutputDir)
	case KindTarXz:
		err = extractTarXz(archivePath, a.spec.OutputDir, a.spec.StripComponents)
	case KindTarZst:
		err = extractTarZst(archivePath, a.spec.OutputDir, a.spec.StripComponents)
	case KindSevenZip, KindLocalSevenZip:
		err = extractSevenZip(ctx, a.runner, a.config.SevenZip, archivePath, a.spec.OutputDir)
	case KindNSIS:
		err = a.runNSIS(ctx, archivePath, opts)
	}
	if err != nil {
		return err
	}

	return WriteMarker(a.spec.OutputDir, &Marker{
		Version:     a.spec.Version,
		Kind:        a.spec.Kind,
		Source:      a.spec.Source,
		Checksum:    a.spec.Checksum,
		InstalledAt: time.Now().UTC(),
	})
}

// runNSIS runs an NSIS installer. It is silent unless the payload offers an
// interactive mode and the user asked for it.
func (a *Archive) runNSIS(ctx context.Context, exe string, opts InstallOptions) error {
	args := []string{exe}

	interactive := opts.PromptForInteractive && opts.Interactive != nil && *opts.Interactive
	if !interactive {
		args = append(args, "/S")
	}
	// /D must be last and unquoted
	args = append(args, "/D="+a.spec.OutputDir)

	result, err := a.runner.Run(ctx, process.Cmd{Args: args})
	if err != nil {
		return fmt.Errorf("running installer: %w", err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("installer exited with %d:\n%s", result.ExitCode, result.Output)
	}
	return nil
}

// fetch returns the local archive path, downloading it into the cache when needed
func (a *Archive) fetch(ctx context.Context) (string, bool, error) {
	if a.spec.Kind.IsLocal() {
		if _, err := os.Stat(a.spec.Source); err != nil {
			return "", false, fmt.Errorf("local archive: %w", err)
		}
		return a.spec.Source, false, nil
	}

	u, err := url.Parse(a.spec.Source)
	if err != nil {
		return "", false, fmt.Errorf("parsing source url: %w", err)
	}

	destPath := filepath.Join(a.config.CachePath, "downloads", path.Base(u.Path))

	if _, err := os.Stat(destPath); err == nil {
		if a.spec.Checksum == "" || VerifyFile(destPath, a.spec.Checksum) == nil {
			a.logger.Printf("Using cached %s", destPath)
			return destPath, true, nil
		}
		os.Remove(destPath)
	}

	if err := a.download(ctx, a.spec.Source, destPath); err != nil {
		return "", false, err
	}
	return destPath, true, nil
}

// download writes source to destPath through a temporary file
func (a *Archive) download(ctx context.Context, source, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	partPath := destPath + ".part"
	f, err := os.Create(partPath)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	a.logger.Printf("Downloading %s", source)
	n, err := a.client.Download(ctx, source, f)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(partPath) // Clean up partial
		return fmt.Errorf("downloading: %w", err)
	}

	if err := os.Rename(partPath, destPath); err != nil {
		return fmt.Errorf("finalizing download: %w", err)
	}

	a.logger.Printf("✓ Downloaded %d bytes to %s", n, destPath)
	return nil
}
