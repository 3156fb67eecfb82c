// Package version reports which grepdoc build produced an export.
package version

import (
	"runtime/debug"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Version is the release number printed by `grepdoc version` and --version.
const Version = "0.2.0"

// Overridden at link time: -ldflags "-X .../version.GitCommit=$(git rev-parse --short HEAD)"
var (
	GitCommit = "unknown"
	BuildDate = "development"
)

// Info returns the bare version number.
func Info() string {
	return Version
}

// FullInfo is the one-line banner of the version command.
func FullInfo() string {
	return "grepdoc " + Version + " (commit: " + GitCommit + ", built: " + BuildDate + ", build: " + BuildID() + ")"
}

var buildID = sync.OnceValue(computeBuildID)

// BuildID fingerprints the running binary so two exports can be traced to
// the same build even when GitCommit was not stamped.
func BuildID() string {
	return buildID()
}

func computeBuildID() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version + "-" + GitCommit
	}

	d := xxhash.New()
	d.WriteString(info.GoVersion)
	d.WriteString(info.Main.Path)
	d.WriteString(info.Main.Version)
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision", "vcs.modified", "vcs.time":
			d.WriteString(s.Key + "=" + s.Value)
		}
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
