// Package version holds build-time version information, overridden via
// -ldflags at release time.
package version

var (
	Version   = "dev"
	BuildDate = "unknown"
)

// String returns the human-readable version line.
func String() string {
	return Version + " (built " + BuildDate + ")"
}
