// Package version reports the build version of the service
package version

import "runtime/debug"

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Service   string `json:"service" example:"bookable-api"`
	Version   string `json:"version" example:"v0.3.1"`
	Commit    string `json:"commit" example:"4f1c2e9"`
	Date      string `json:"date" example:"2026-03-01T10:00:00Z"`
	GoVersion string `json:"go_version,omitempty" example:"go1.25.0"`
}

// Set at build time, e.g.
// -ldflags "-X 'bookable/internal/core/version.version=v0.3.1' -X 'bookable/internal/core/version.commit=4f1c2e9'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	readBuildInfo = debug.ReadBuildInfo // seam
)

// Info returns the build information. Commit and date fall back to the vcs
// stamp the go toolchain embeds when ldflags did not set them.
func Info() BuildInfo {
	bi := BuildInfo{Service: "bookable-api", Version: version, Commit: commit, Date: date}
	info, ok := readBuildInfo()
	if !ok {
		return bi
	}
	bi.GoVersion = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if bi.Commit == "none" {
				bi.Commit = s.Value
			}
		case "vcs.time":
			if bi.Date == "unknown" {
				bi.Date = s.Value
			}
		}
	}
	return bi
}
