// Package buildinfo reports which portindex build is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/portindex/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/portindex/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/portindex/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built with go install carry no ldflags; for those the module
// version and VCS settings recorded by the toolchain are used instead.
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

type buildInfo struct{ version, commit, date string }

var resolve = sync.OnceValue(func() buildInfo {
	version, commit, date := Version, Commit, Date
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return buildInfo{version, commit, date}
	}
	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == "none" {
				commit = s.Value
			}
		case "vcs.time":
			if date == "unknown" {
				date = s.Value
			}
		}
	}
	return buildInfo{version, commit, date}
})

// Info returns the version, commit and build date.
func Info() (version, commit, date string) {
	b := resolve()
	return b.version, b.commit, b.date
}

// String returns the build information, one field per line.
func String() string {
	v, c, d := Info()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", v, c, d)
}

// Template returns the cobra version template.
func Template() string {
	v, c, d := Info()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", v, c, d)
}

// UserAgent returns the User-Agent sent to the registry and the GitHub API,
// e.g. "portindex/v1.0.0".
func UserAgent() string {
	v, _, _ := Info()
	return "portindex/" + v
}
