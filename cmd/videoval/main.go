// videoval - CLI client for the ego/exo video validation service.
package main

import (
	"os"

	"github.com/egoexo-val/videoval/internal/cli"
	"github.com/egoexo-val/videoval/internal/version"
)

// Version information, overridden by ldflags in release builds.
var (
	Version   = "v0.4.0"
	BuildTime = "unknown"
)

func main() {
	version.Version = Version
	version.BuildTime = BuildTime
	cli.Version = Version
	cli.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
