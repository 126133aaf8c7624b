package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Tests mutate package state and must not run in parallel.

func resetVersion(t *testing.T) {
	t.Helper()

	prevVersion, prevCommit, prevDate := Version, Commit, Date

	t.Cleanup(func() {
		Version, Commit, Date = prevVersion, prevCommit, prevDate
	})

	Version, Commit, Date = "dev", unknown, unknown
}

func TestApplyBuildInfo(t *testing.T) {
	resetVersion(t)

	applyBuildInfo(&debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	})

	assert.Equal(t, "v1.4.0", Version)
	assert.Equal(t, "abc123", Commit)
	assert.Equal(t, "2026-01-02T03:04:05Z", Date)
	assert.Equal(t, "v1.4.0 (commit: abc123, built: 2026-01-02T03:04:05Z)", String())
}

func TestApplyBuildInfo_KeepsLdflagsValues(t *testing.T) {
	resetVersion(t)

	Version, Commit = "v2.0.0", "deadbeef"

	applyBuildInfo(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})

	assert.Equal(t, "v2.0.0", Version)
	assert.Equal(t, "deadbeef", Commit)
	assert.Equal(t, unknown, Date)
}

func TestApplyBuildInfo_DevelStaysDev(t *testing.T) {
	resetVersion(t)

	applyBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

	assert.Equal(t, "dev", Version)
}
