// Package buildinfo reports which psvm build is running.
//
// Release builds stamp the variables through ldflags:
//
//	go build -ldflags "-X github.com/paritytech/psvm/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/paritytech/psvm/pkg/buildinfo.Commit=$(git rev-parse HEAD)"
//
// Binaries installed with `go install` carry no ldflags; for those the module
// version and VCS revision recorded by the toolchain are used instead.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var fill sync.Once

func load() {
	fill.Do(func() {
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if Commit == "none" {
					Commit = s.Value
				}
			case "vcs.time":
				if Date == "unknown" {
					Date = s.Value
				}
			}
		}
	})
}

// Current returns the effective version.
func Current() string {
	load()
	return Version
}

// String returns the multi-line description printed by `psvm version`.
func String() string {
	load()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// UserAgent returns the User-Agent sent to crates.io and GitHub. crates.io
// rejects requests without one.
func UserAgent() string {
	return fmt.Sprintf("psvm/%s (https://github.com/paritytech/psvm)", Current())
}
