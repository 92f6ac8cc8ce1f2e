package pipeline

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
)

func TestExampleGraphs(t *testing.T) {
	tests := []struct {
		file    string
		written []string
		stalled []string
	}{
		{"sunset.hcl", []string{"view"}, nil},
		{"marble.toml", []string{"view"}, nil},
		{"feedback.json", []string{"ok"}, []string{"loop-a", "loop-b", "view"}},
	}
	runner := NewRunner(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			res, err := runner.Execute(context.Background(), Options{
				GraphPath: filepath.Join("..", "..", "examples", tt.file),
			})
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			for _, id := range tt.written {
				if _, ok := res.Artifacts[id]; !ok {
					t.Errorf("no artifact for %s", id)
				}
			}
			if !slices.Equal(res.Stalled(), tt.stalled) {
				t.Errorf("Stalled = %v, want %v", res.Stalled(), tt.stalled)
			}
			if len(res.Failures()) != 0 {
				t.Errorf("Failures = %v", res.Failures())
			}
		})
	}
}
