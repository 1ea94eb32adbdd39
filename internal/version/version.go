package version

import "fmt"

var (
	// Version is the assistant release; overridden via ldflags for tagged builds.
	Version = "0.1.0"
	// Commit is the short git SHA recorded at build time, "none" for local builds.
	Commit = "none"
	// BuildTime is the UTC timestamp recorded at build time.
	BuildTime = "unknown"
)

// Short returns just the release number.
func Short() string {
	return Version
}

// Full renders the release together with its commit and build timestamp.
func Full() string {
	return fmt.Sprintf("care-assistant %s (commit %s, built %s)", Version, Commit, BuildTime)
}
