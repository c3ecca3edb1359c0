// Package buildinfo carries the version stamped into the kontor binary.
package buildinfo

import "fmt"

// Set via -ldflags "-X" at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the version line printed by --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}

// Generator names this program in export headers, e.g. "kontor 1.2.0".
func Generator() string {
	return "kontor " + Version
}
