package constants

// Build information reported by `curlloop version` when the binary is built
// without -ldflags overrides.
const (
	DefaultVersion   = "0.1.0-dev"
	DefaultBuildTime = "unknown"
	DefaultGitCommit = "unknown"
	DefaultGoVersion = "unknown"
)
