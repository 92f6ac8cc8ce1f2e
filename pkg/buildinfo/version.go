// Package buildinfo reports which pixelgraph build is running.
//
// Release builds stamp Version, Commit and Date through ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/pixelgraph/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/pixelgraph/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/pixelgraph/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Builds without ldflags, such as go install, fall back to the VCS
// settings the Go toolchain embeds in the binary.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info describes a build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go"`
	Modified  bool   `json:"modified,omitempty"`
}

// Get returns the running binary's build info.
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return resolve(bi)
}

// resolve fills in whatever ldflags left at its default from bi.
func resolve(bi *debug.BuildInfo) Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
	if bi == nil {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String formats i one field per line.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "version: %s\ncommit: %s", i.Version, i.Commit)
	if i.Modified {
		b.WriteString(" (modified)")
	}
	fmt.Fprintf(&b, "\nbuilt: %s\ngo: %s", i.Date, i.GoVersion)
	return b.String()
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + Get().String() + "\n"
}
