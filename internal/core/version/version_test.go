package version

import (
	"runtime/debug"
	"testing"

	"bookable/internal/platform/testkit"
)

// not parallel: swaps the package seam
func TestInfo_FallsBackToVCS(t *testing.T) {
	testkit.Swap(t, &readBuildInfo, func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{GoVersion: "go1.25.0", Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-03-01T10:00:00Z"},
		}}, true
	})
	bi := Info()
	if bi.Service != "bookable-api" || bi.Version != "dev" {
		t.Fatalf("info = %+v", bi)
	}
	if bi.Commit != "abc123" || bi.Date != "2026-03-01T10:00:00Z" || bi.GoVersion != "go1.25.0" {
		t.Fatalf("vcs fallback not applied: %+v", bi)
	}
}

func TestInfo_NoBuildInfo(t *testing.T) {
	testkit.Swap(t, &readBuildInfo, func() (*debug.BuildInfo, bool) { return nil, false })
	if bi := Info(); bi.Commit != "none" || bi.GoVersion != "" {
		t.Fatalf("info = %+v", bi)
	}
}
