package nodelink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/pixelgraph/pkg/eval"
	"github.com/matzehuels/pixelgraph/pkg/graph"
	"github.com/matzehuels/pixelgraph/pkg/kernel"
	"github.com/matzehuels/pixelgraph/pkg/raster"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, n := range []graph.Node{
		{ID: "bg", Params: graph.SolidParams{Width: 4, Height: 2, Color: raster.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 255}}},
		{ID: "noise", Params: graph.PerlinParams{Width: 4, Height: 2, Scale: 8, Seed: 42}},
		{ID: "mix", Params: graph.CombineParams{Mode: kernel.BlendOverlay, Opacity: 0.5}},
		{ID: "view", Params: graph.DisplayParams{}, Label: "Preview"},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []graph.Edge{
		{ID: "e1", Source: "bg", Target: "mix", TargetPort: graph.PortA},
		{ID: "e2", Source: "noise", Target: "mix", TargetPort: graph.PortB},
		{ID: "e3", Source: "mix", Target: "view", TargetPort: graph.PortIn},
	} {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testGraph(t), nil, Options{})

	for _, want := range []string{
		"digraph G",
		"rankdir=LR",
		`"bg" [label="bg\nsolid"`,
		`"view" [label="Preview\ndisplay"]`,
		`"bg" -> "mix" [label="a"]`,
		`"noise" -> "mix" [label="b"]`,
		`"mix" -> "view" [label="in"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "dashed") {
		t.Error("topology-only DOT should not mark absent outputs")
	}
}

func TestToDOT_SolidFill(t *testing.T) {
	dot := ToDOT(testGraph(t), nil, Options{})
	if !strings.Contains(dot, `fillcolor="#336699", fontcolor=white`) {
		t.Errorf("solid node not filled with its colour:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	g := testGraph(t)
	outputs := eval.Evaluate(g.Snapshot())
	dot := ToDOT(g, outputs, Options{Detailed: true})

	for _, want := range []string{"scale 8, seed 42", "overlay @ 0.5", "out: 4x2", "#336699"} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q", want)
		}
	}
}

func TestToDOT_AbsentOutputs(t *testing.T) {
	g := testGraph(t)
	outputs := eval.Outputs{"bg": raster.New(1, 1), "noise": nil, "mix": nil, "view": nil}
	dot := ToDOT(g, outputs, Options{Detailed: true})

	if got := strings.Count(dot, "dashed"); got != 3 {
		t.Errorf("dashed nodes = %d, want 3\n%s", got, dot)
	}
	if !strings.Contains(dot, "out: none") {
		t.Error("detailed label missing absent marker")
	}
}

func TestFmtAttrs(t *testing.T) {
	tests := []struct {
		name    string
		node    graph.Node
		missing bool
		want    int
	}{
		{"regular", graph.Node{ID: "v", Params: graph.DisplayParams{}}, false, 1},
		{"solid", graph.Node{ID: "s", Params: graph.SolidParams{Color: raster.White}}, false, 3},
		{"missing", graph.Node{ID: "v", Params: graph.DisplayParams{}}, true, 4},
		{"missing solid", graph.Node{ID: "s", Params: graph.SolidParams{}}, true, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := fmtAttrs(tt.node, "x", tt.missing)
			if len(attrs) != tt.want {
				t.Errorf("fmtAttrs() = %v, want %d attrs", attrs, tt.want)
			}
		})
	}
}

func TestContrast(t *testing.T) {
	if contrast(raster.Black) != "white" || contrast(raster.White) != "black" {
		t.Error("contrast picks the wrong text colour")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(testGraph(t), nil, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(`not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
