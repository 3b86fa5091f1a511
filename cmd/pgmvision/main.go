package main

import "github.com/ironsheep/pgm-vision/internal/cli"

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cli.Execute(cli.BuildInfo{Version: Version, BuildTime: BuildTime, GitCommit: GitCommit})
}
