package vcard

import (
	"fmt"
	"runtime"
)

// Version is the release of the vcard library and command.
const Version = "0.1.0"

// GetVersion returns Version.
func GetVersion() string {
	return Version
}

// VersionInfo describes the running build of vcard.
type VersionInfo struct {
	Version   string // Library release, e.g. "0.1.0"
	GitCommit string // Commit the binary was built from
	BuildTime string // UTC build timestamp
	GoVersion string // Go toolchain that built the binary
}

// String returns a one-line summary such as
// "vcard 0.1.0 (commit abc123, built 2026-01-02T03:04:05Z, go1.26.0)".
func (v VersionInfo) String() string {
	return fmt.Sprintf("vcard %s (commit %s, built %s, %s)", v.Version, v.GitCommit, v.BuildTime, v.GoVersion)
}

// GetVersionInfo reports the build of the library linked into the running
// program.
//
// Release builds of the vcard command stamp the commit and build time with
// -ldflags:
//
//	go build -ldflags="-X github.com/simonhull/vcard.gitCommit=$(git rev-parse --short HEAD) \
//	  -X github.com/simonhull/vcard.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/vcard
//
// Unstamped builds report "unknown" for both and take the Go version from
// the runtime.
func GetVersionInfo() VersionInfo {
	goVer := goVersion
	if goVer == "unknown" {
		goVer = runtime.Version()
	}
	return VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: goVer,
	}
}

// Stamped by -ldflags.
var (
	gitCommit = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)
