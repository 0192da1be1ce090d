package main

import (
	"os"

	"github.com/trebuchet-org/fundme/internal/cli"
	"github.com/trebuchet-org/fundme/internal/config"
)

// Set by -ldflags at release time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
