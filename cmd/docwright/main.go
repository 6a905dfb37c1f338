package main

import (
	"os"

	"github.com/docwright-ai/docwright/internal/cli"
)

// Build metadata, injected by the linker at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
