// Package version holds build metadata injected by the linker.
package version

// Populated via -ldflags by the mage Build target.
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)
