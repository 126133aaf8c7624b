// Package version carries build metadata stamped in via -ldflags.
package version

import (
	"runtime/debug"
)

const unknown = "unknown"

// Build metadata. Release builds set these with
// -ldflags "-X github.com/Sumatoshi-tech/histogauss/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// InitBinaryVersion fills unset metadata from the module build info that
// `go install` embeds.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	applyBuildInfo(info)
}

func applyBuildInfo(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == unknown {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == unknown {
				Date = setting.Value
			}
		}
	}
}

// String formats the metadata as printed by `histogauss version`.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
