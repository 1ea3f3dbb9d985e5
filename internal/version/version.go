// Package version holds the build-time version variables for the sgposture
// binary. The zero values are used for local builds; release builds inject
// the real values via -ldflags.
package version

import "fmt"

// Overridden by ldflags at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns the formatted version string printed by sgposture version.
func Info() string {
	return fmt.Sprintf(
		"sgposture version %s\ncommit: %s\nbuilt: %s\n",
		Version,
		Commit,
		Date,
	)
}
