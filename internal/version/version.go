// Package version provides version information for convsuppress.
package version

import (
	"fmt"
	"runtime"
)

// Build information set by ldflags during build.
var (
	Version   = "dev"
	Commit    = "unknown"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

// Info returns formatted version information.
func Info() string {
	return fmt.Sprintf("convsuppress %s (commit: %s, built: %s, %s)",
		Version, Commit, Date, GoVersion)
}
