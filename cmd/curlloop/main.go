package main

import (
	"os"

	"github.com/aatumaykin/curlloop/internal/version"
)

// Set with -ldflags "-X main.Version=... -X main.GitCommit=...".
// Empty values keep the defaults from internal/constants.
var (
	Version   string
	BuildTime string
	GitCommit string
	GoVersion string
)

func init() {
	version.SetInfo(Version, BuildTime, GitCommit, GoVersion)
	rootCmd.Version = version.Version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
