package main

import (
	"runtime"

	"github.com/bnema/geobadge/internal/cli/cmd"
	"github.com/bnema/geobadge/internal/domain/build"
	"github.com/bnema/geobadge/internal/infrastructure/config"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	config.LoadDotEnv()

	cmd.SetBuildInfo(build.Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	})

	cmd.Execute()
}
