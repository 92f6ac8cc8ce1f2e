package cli

import (
	"strings"
	"testing"
)

func TestGraphArgumentsCompleteGraphFiles(t *testing.T) {
	for _, sub := range []string{"render", "eval", "dot", "convert", "watch", "serve"} {
		t.Run(sub, func(t *testing.T) {
			out, err := runCLI(t, "__complete", sub, "")
			if err != nil {
				t.Fatalf("__complete: %v", err)
			}
			lines := strings.Split(strings.TrimSpace(out), "\n")
			// Last line is the directive; 8 filters by file extension.
			if got := lines[len(lines)-1]; got != ":8" {
				t.Errorf("directive = %q, want :8", got)
			}
			if got := strings.Join(lines[:len(lines)-1], ","); got != "json,toml,hcl" {
				t.Errorf("extensions = %q", got)
			}
		})
	}
}

func TestCompletionScripts(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := runCLI(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, "pixelgraph") {
			t.Errorf("%s script does not mention pixelgraph", shell)
		}
	}
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell accepted")
	}
}
