// Package version holds build information injected with -ldflags.
package version

import (
	"fmt"
	"runtime"

	"github.com/aatumaykin/curlloop/internal/constants"
)

var (
	Version   = constants.DefaultVersion
	BuildTime = constants.DefaultBuildTime
	GitCommit = constants.DefaultGitCommit
	GoVersion = constants.DefaultGoVersion
)

func SetInfo(v, bt, gc, gv string) {
	if v != "" {
		Version = v
	}
	if bt != "" {
		BuildTime = bt
	}
	if gc != "" {
		GitCommit = gc
	}
	if gv != "" {
		GoVersion = gv
	}
}

// String returns the multi-line output of the version command.
func String() string {
	goVersion := GoVersion
	if goVersion == constants.DefaultGoVersion {
		goVersion = runtime.Version()
	}
	return fmt.Sprintf("%s %s\nCommit: %s\nBuilt: %s\nGo: %s",
		constants.AppName, Version, GitCommit, BuildTime, goVersion)
}

// FormatStartupMessage returns the line logged when serve starts.
func FormatStartupMessage() string {
	return fmt.Sprintf("%s %s (built %s)", constants.AppName, Version, BuildTime)
}
