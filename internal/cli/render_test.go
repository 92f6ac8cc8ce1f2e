package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/raster"
)

const sceneJSON = `{
  "nodes": [
    {"id": "bg", "kind": "solid", "params": {"width": 4, "height": 2, "color": "#c80000"}},
    {"id": "noise", "kind": "perlin", "params": {"width": 4, "height": 2, "scale": 2, "seed": 3}},
    {"id": "mix", "kind": "combine", "params": {"mode": "multiply"}},
    {"id": "view", "kind": "display"},
    {"id": "broken", "kind": "solid", "params": {"width": 0, "height": 2}}
  ],
  "edges": [
    {"source": "bg", "target": "mix", "targetHandle": "a"},
    {"source": "noise", "target": "mix", "targetHandle": "b"},
    {"source": "mix", "target": "view", "targetHandle": "in"}
  ]
}`

// writeScene writes sceneJSON into a temp dir and isolates the cache.
func writeScene(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv(envRedisURL, "")
	path := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(path, []byte(sceneJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		targets []string
		want    map[string]string
		wantErr bool
	}{
		{"single beside input", "", []string{"view"}, map[string]string{"view": "art/scene.png"}, false},
		{"many beside input", "", []string{"a", "b"}, map[string]string{"a": "art/scene_a.png", "b": "art/scene_b.png"}, false},
		{"explicit file", "out.png", []string{"view"}, map[string]string{"view": "out.png"}, false},
		{"explicit file upper case", "OUT.PNG", []string{"view"}, map[string]string{"view": "OUT.PNG"}, false},
		{"directory", "out", []string{"view"}, map[string]string{"view": "out/scene_view.png"}, false},
		{"file with many targets", "out.png", []string{"a", "b"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputPaths("art/scene.json", tt.output, tt.targets)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !perrors.Is(err, perrors.ErrCodeInvalidInput) {
					t.Errorf("code = %s, want INVALID_INPUT", perrors.GetCode(err))
				}
				return
			}
			for id, want := range tt.want {
				if got[id] != filepath.FromSlash(want) {
					t.Errorf("path[%s] = %q, want %q", id, got[id], want)
				}
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	scene := writeScene(t)
	if _, err := runCLI(t, "render", scene); err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := os.Open(filepath.Join(filepath.Dir(scene), "scene.png"))
	if err != nil {
		t.Fatalf("default output missing: %v", err)
	}
	defer f.Close()
	buf, err := raster.DecodePNG(f)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width != 4 || buf.Height != 2 {
		t.Errorf("size = %dx%d, want 4x2", buf.Width, buf.Height)
	}
}

func TestRenderCommandNodesAndScale(t *testing.T) {
	scene := writeScene(t)
	out := filepath.Join(filepath.Dir(scene), "out")

	if _, err := runCLI(t, "render", scene, "--node", "bg,noise", "--scale", "2", "-o", out, "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, id := range []string{"bg", "noise"} {
		data, err := os.ReadFile(filepath.Join(out, "scene_"+id+".png"))
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		buf, err := raster.DecodePNG(bytes.NewReader(data))
		if err != nil {
			t.Fatal(err)
		}
		if buf.Width != 8 || buf.Height != 4 {
			t.Errorf("%s size = %dx%d, want 8x4", id, buf.Width, buf.Height)
		}
	}
}

func TestRenderCommandFailedTargetIsNotAnError(t *testing.T) {
	scene := writeScene(t)
	if _, err := runCLI(t, "render", scene, "--node", "broken"); err != nil {
		t.Fatalf("render of failing node returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(scene), "scene.png")); !os.IsNotExist(err) {
		t.Error("failing node wrote an image")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	scene := writeScene(t)
	tests := []struct {
		name string
		args []string
		code perrors.Code
	}{
		{"missing file", []string{"render", filepath.Join(filepath.Dir(scene), "nope.json")}, perrors.ErrCodeFileNotFound},
		{"unknown node", []string{"render", scene, "--node", "ghost"}, perrors.ErrCodeNotFound},
		{"bad scale", []string{"render", scene, "--scale=-1"}, perrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !perrors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestEvalCommand(t *testing.T) {
	scene := writeScene(t)
	if _, err := runCLI(t, "eval", scene); err != nil {
		t.Fatalf("eval: %v", err)
	}
}

func TestDotCommandStdout(t *testing.T) {
	scene := writeScene(t)
	out, err := runCLI(t, "dot", scene)
	if err != nil {
		t.Fatalf("dot: %v", err)
	}
	for _, want := range []string{"digraph G", `"bg" -> "mix" [label="a"]`, `"mix" -> "view" [label="in"]`} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
}

func TestDotCommandEvalMarksAbsent(t *testing.T) {
	scene := writeScene(t)
	out, err := runCLI(t, "dot", scene, "--eval")
	if err != nil {
		t.Fatalf("dot: %v", err)
	}
	if !strings.Contains(out, "dashed") {
		t.Errorf("failed node not drawn dashed:\n%s", out)
	}
}

func TestDotCommandSVGFile(t *testing.T) {
	scene := writeScene(t)
	if _, err := runCLI(t, "dot", scene, "--format", "svg"); err != nil {
		t.Fatalf("dot: %v", err)
	}
	data, err := os.ReadFile(strings.TrimSuffix(scene, ".json") + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("output is not SVG")
	}
}

func TestValidateDiagramFormat(t *testing.T) {
	for _, f := range []string{"dot", "svg", "png"} {
		if err := validateDiagramFormat(f); err != nil {
			t.Errorf("validateDiagramFormat(%q) = %v", f, err)
		}
	}
	if err := validateDiagramFormat("pdf"); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("validateDiagramFormat(pdf) = %v", err)
	}
}
