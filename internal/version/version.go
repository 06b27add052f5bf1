// Package version carries the build metadata stamped into the console
// binary.
package version

// Overridden by the release build through -ldflags "-X ...".
var (
	// Version is the console release; development builds keep the default.
	Version = "0.1.0"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// GitCommit is the source revision the binary was built from.
	GitCommit = "unknown"
)
