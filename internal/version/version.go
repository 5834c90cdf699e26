// Package version records the library release version.
package version

import (
	"fmt"
	"runtime"
)

// Version is the library release, overridable at build time via ldflags.
var Version = "0.1.0"

// Info returns the version together with the runtime platform.
func Info() string {
	return fmt.Sprintf("vivainsights %s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}
