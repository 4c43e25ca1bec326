// Package version holds build metadata injected at link time.
package version

// Set via -ldflags at build time.
var (
	// Version is the release version.
	Version = "0.1.0"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"

	// GitCommit is the source commit hash.
	GitCommit = "unknown"
)
