package main

import (
	"os"
	"runtime/debug"

	"github.com/dotcommander/mishap/internal/commands"
)

// version is set via ldflags: -X main.version=v1.0.0
var version = "dev"

func main() {
	if err := commands.Execute(resolveVersion()); err != nil {
		os.Exit(1)
	}
}

// resolveVersion falls back to the module version recorded by
// `go install github.com/dotcommander/mishap/cmd/mishap@vX` when no
// ldflags were given.
func resolveVersion() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return version
	}
	return info.Main.Version
}
