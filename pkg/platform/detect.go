// pkg/platform/detect.go
package platform

import (
	"fmt"
	"runtime"
)

// Family groups operating systems that share a shell and a tools layout.
type Family string

const (
	FamilyWindows Family = "Windows"
	FamilyLinux   Family = "Linux"
	FamilyBSD     Family = "BSD"
)

// Host represents the detected system the tools are installed on
type Host struct {
	Family Family // Windows, Linux, BSD
	Arch   string // x64, x86, arm64, arm
	GOOS   string // runtime.GOOS the family was derived from
}

// Detect detects the current host family and architecture
func Detect() (Host, error) {
	return FromGo(runtime.GOOS, runtime.GOARCH)
}

// FromGo maps a GOOS/GOARCH pair onto a Host
func FromGo(goos, goarch string) (Host, error) {
	h := Host{GOOS: goos}

	switch goos {
	case "windows":
		h.Family = FamilyWindows
	case "linux":
		h.Family = FamilyLinux
	case "darwin", "freebsd", "openbsd", "netbsd", "dragonfly":
		h.Family = FamilyBSD
	default:
		return Host{}, fmt.Errorf("unsupported operating system: %s", goos)
	}

	switch goarch {
	case "amd64":
		h.Arch = "x64"
	case "386":
		h.Arch = "x86"
	case "arm64":
		h.Arch = "arm64"
	case "arm":
		h.Arch = "arm"
	default:
		return Host{}, fmt.Errorf("unsupported architecture: %s", goarch)
	}

	return h, nil
}

// IsWindows reports whether the host belongs to the Windows family
func (h Host) IsWindows() bool {
	return h.Family == FamilyWindows
}

// ExecutableName appends the platform executable extension to name
func (h Host) ExecutableName(name string) string {
	if h.IsWindows() {
		return name + ".exe"
	}
	return name
}

// String returns a string representation of the host
func (h Host) String() string {
	return fmt.Sprintf("%s/%s", h.Family, h.Arch)
}
