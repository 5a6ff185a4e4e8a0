package main

import (
	"os"

	"github.com/mrsinham/docencap/cmd/docencap/cmd"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	if err := cmd.NewRoot(version).Execute(); err != nil {
		os.Exit(1)
	}
}
