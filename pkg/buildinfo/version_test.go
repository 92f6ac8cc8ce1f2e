package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	vcs := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/matzehuels/pixelgraph", Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name    string
		stamped bool
		bi      *debug.BuildInfo
		want    Info
	}{
		{"no build info", false, nil, Info{Version: "dev", Commit: "none", Date: "unknown"}},
		{"devel module", false, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			Info{Version: "dev", Commit: "none", Date: "unknown"}},
		{"from vcs", false, vcs, Info{Version: "v0.3.0", Commit: "abc123", Date: "2026-01-02T03:04:05Z", Modified: true}},
		{"ldflags win", true, vcs, Info{Version: "v1.0.0", Commit: "fff", Date: "2026-10-01", Modified: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.stamped {
				stamp(t, "v1.0.0", "fff", "2026-10-01")
			}
			tt.want.GoVersion = runtime.Version()
			if got := resolve(tt.bi); got != tt.want {
				t.Errorf("resolve = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestInfoString(t *testing.T) {
	i := Info{Version: "v1.0.0", Commit: "abc", Date: "today", GoVersion: "go1.24.0", Modified: true}
	want := "version: v1.0.0\ncommit: abc (modified)\nbuilt: today\ngo: go1.24.0"
	if got := i.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestTemplate(t *testing.T) {
	stamp(t, "v2.0.0", "def", "2026-10-19")
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} version: v2.0.0\ncommit: def") || !strings.HasSuffix(got, "\n") {
		t.Errorf("Template() = %q", got)
	}
}
