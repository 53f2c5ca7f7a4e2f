// Package buildinfo exposes version details stamped in at link time.
package buildinfo

// Set with -ldflags "-X github.com/cleared-dev/stmtstats/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
