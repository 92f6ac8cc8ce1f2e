package graph

import (
	"errors"
	"math"
	"testing"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/kernel"
	"github.com/matzehuels/pixelgraph/pkg/raster"
)

func solid(id string) Node {
	return Node{ID: id, Params: SolidParams{Width: 2, Height: 2, Color: raster.White}}
}

func combine(id string) Node {
	return Node{ID: id, Params: CombineParams{Mode: kernel.BlendAdd, Opacity: 1}}
}

// exampleGraph builds src-a, src-b -> mix -> out.
func exampleGraph(t *testing.T) *Graph {
	t.Helper()
	g := New()
	for _, n := range []Node{solid("src-a"), solid("src-b"), combine("mix"), {ID: "out", Params: DisplayParams{}}} {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	for _, e := range []Edge{
		{ID: "e1", Source: "src-a", Target: "mix", TargetPort: PortA},
		{ID: "e2", Source: "src-b", Target: "mix", TargetPort: PortB},
		{ID: "e3", Source: "mix", Target: "out", TargetPort: PortIn},
	} {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s): %v", e.ID, err)
		}
	}
	return g
}

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		wantErr error
	}{
		{"valid", solid("x"), nil},
		{"empty id", Node{Params: DisplayParams{}}, ErrInvalidNodeID},
		{"duplicate", solid("existing"), ErrDuplicateNodeID},
		{"nil params", Node{ID: "y"}, ErrMissingParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			_ = g.AddNode(solid("existing"))
			if err := g.AddNode(tt.node); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddNode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{"valid", Edge{ID: "n", Source: "src-a", Target: "mix", TargetPort: PortB}, nil},
		{"empty id", Edge{Source: "src-a", Target: "mix", TargetPort: PortA}, ErrInvalidEdgeID},
		{"duplicate id", Edge{ID: "e1", Source: "src-a", Target: "mix", TargetPort: PortA}, ErrDuplicateEdgeID},
		{"unknown source", Edge{ID: "n", Source: "ghost", Target: "mix", TargetPort: PortA}, ErrUnknownSourceNode},
		{"unknown target", Edge{ID: "n", Source: "src-a", Target: "ghost", TargetPort: PortA}, ErrUnknownTargetNode},
		{"generator has no ports", Edge{ID: "n", Source: "mix", Target: "src-a", TargetPort: PortIn}, ErrUnknownPort},
		{"wrong port name", Edge{ID: "n", Source: "src-a", Target: "out", TargetPort: PortA}, ErrUnknownPort},
		{"cycle is allowed", Edge{ID: "n", Source: "out", Target: "mix", TargetPort: PortB}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := exampleGraph(t)
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddEdge() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRemoveNodeDropsIncidentEdges(t *testing.T) {
	g := exampleGraph(t)
	removed, err := g.RemoveNode("mix")
	if err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if len(removed) != 3 {
		t.Errorf("removed %d edges, want 3", len(removed))
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 0 {
		t.Errorf("after remove: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
	if _, ok := g.Node("out"); !ok {
		t.Error("index lost node after removal")
	}
	if _, err := g.RemoveNode("mix"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("second RemoveNode error = %v, want ErrNodeNotFound", err)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := exampleGraph(t)
	e, err := g.RemoveEdge("e2")
	if err != nil {
		t.Fatalf("RemoveEdge: %v", err)
	}
	if e.Source != "src-b" {
		t.Errorf("removed edge = %+v", e)
	}
	ids := []string{}
	for _, e := range g.Edges() {
		ids = append(ids, e.ID)
	}
	if len(ids) != 2 || ids[0] != "e1" || ids[1] != "e3" {
		t.Errorf("remaining edges = %v, want [e1 e3]", ids)
	}
	if _, err := g.RemoveEdge("e2"); !errors.Is(err, ErrEdgeNotFound) {
		t.Errorf("error = %v, want ErrEdgeNotFound", err)
	}
}

func TestUpdateParams(t *testing.T) {
	g := exampleGraph(t)
	snapNodes, _ := g.Snapshot()

	old, err := g.UpdateParams("mix", CombineParams{Mode: kernel.BlendScreen, Opacity: 0.5})
	if err != nil {
		t.Fatalf("UpdateParams: %v", err)
	}
	if old.Params.(CombineParams).Mode != kernel.BlendAdd {
		t.Errorf("returned node has params %+v, want previous record", old.Params)
	}
	n, _ := g.Node("mix")
	if n.Params.(CombineParams).Mode != kernel.BlendScreen {
		t.Errorf("node params = %+v, want screen", n.Params)
	}
	if snapNodes[2].Params.(CombineParams).Mode != kernel.BlendAdd {
		t.Error("snapshot changed after UpdateParams")
	}

	if _, err := g.UpdateParams("mix", DisplayParams{}); !errors.Is(err, ErrKindChange) {
		t.Errorf("kind change error = %v, want ErrKindChange", err)
	}
	if _, err := g.UpdateParams("ghost", DisplayParams{}); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("unknown node error = %v, want ErrNodeNotFound", err)
	}
	if _, err := g.UpdateParams("mix", nil); !errors.Is(err, ErrMissingParams) {
		t.Errorf("nil params error = %v, want ErrMissingParams", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := exampleGraph(t)
	c := g.Clone()
	if _, err := c.RemoveNode("src-a"); err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 4 || g.EdgeCount() != 3 {
		t.Errorf("original changed: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
	if _, ok := c.Node("mix"); !ok {
		t.Error("clone index broken")
	}
}

func TestIncomingOutgoingSinks(t *testing.T) {
	g := exampleGraph(t)
	if in := g.Incoming("mix"); len(in) != 2 || in[0].ID != "e1" {
		t.Errorf("Incoming(mix) = %+v", in)
	}
	if out := g.Outgoing("src-a"); len(out) != 1 || out[0].Target != "mix" {
		t.Errorf("Outgoing(src-a) = %+v", out)
	}
	if sinks := g.Sinks(); len(sinks) != 1 || sinks[0].ID != "out" {
		t.Errorf("Sinks() = %+v", sinks)
	}
	if d := g.NodesOfKind(KindDisplay); len(d) != 1 || d[0].ID != "out" {
		t.Errorf("NodesOfKind(display) = %+v", d)
	}
}

func TestValidate(t *testing.T) {
	g := exampleGraph(t)
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	if err := g.AddEdge(Edge{ID: "back", Source: "out", Target: "mix", TargetPort: PortB}); err != nil {
		t.Fatal(err)
	}
	if err := g.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Validate() = %v, want ErrGraphHasCycle", err)
	}

	self := New()
	_ = self.AddNode(Node{ID: "d", Params: DisplayParams{}})
	_ = self.AddEdge(Edge{ID: "loop", Source: "d", Target: "d", TargetPort: PortIn})
	if err := self.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("self loop: Validate() = %v, want ErrGraphHasCycle", err)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"solid ok", SolidParams{Width: 1, Height: 1}, false},
		{"solid zero width", SolidParams{Width: 0, Height: 1}, true},
		{"solid too large", SolidParams{Width: MaxDimension + 1, Height: 1}, true},
		{"gradient ok", GradientParams{Width: 4, Height: 4, Direction: kernel.Vertical}, false},
		{"gradient bad direction", GradientParams{Width: 4, Height: 4, Direction: "diagonal"}, true},
		{"perlin ok", PerlinParams{Width: 4, Height: 4, Scale: 1}, false},
		{"perlin zero scale", PerlinParams{Width: 4, Height: 4, Scale: 0}, true},
		{"combine ok", CombineParams{Mode: kernel.BlendOverlay, Opacity: 7}, false},
		{"combine infinite opacity", CombineParams{Mode: kernel.BlendAdd, Opacity: math.Inf(1)}, false},
		{"combine nan opacity", CombineParams{Mode: kernel.BlendAdd, Opacity: math.NaN()}, false},
		{"combine empty mode", CombineParams{Opacity: 1}, true},
		{"combine unknown mode", CombineParams{Mode: "burn", Opacity: 1}, true},
		{"display", DisplayParams{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !perrors.Is(err, perrors.ErrCodeInvalidParam) {
				t.Errorf("code = %v, want INVALID_PARAM", perrors.GetCode(err))
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	for _, k := range Kinds {
		p, err := Defaults(k)
		if err != nil {
			t.Fatalf("Defaults(%s): %v", k, err)
		}
		if p.Kind() != k {
			t.Errorf("Defaults(%s).Kind() = %s", k, p.Kind())
		}
		if err := p.Validate(); err != nil {
			t.Errorf("Defaults(%s) invalid: %v", k, err)
		}
	}
	if _, err := Defaults("blur"); !perrors.Is(err, perrors.ErrCodeUnknownKind) {
		t.Errorf("Defaults(blur) error = %v, want UNKNOWN_KIND", err)
	}
	if _, err := ParseKind("blur"); err == nil {
		t.Error("ParseKind(blur) succeeded")
	}
}

func TestPorts(t *testing.T) {
	tests := []struct {
		params Params
		want   []string
	}{
		{SolidParams{}, nil},
		{GradientParams{}, nil},
		{PerlinParams{}, nil},
		{CombineParams{}, []string{"a", "b"}},
		{DisplayParams{}, []string{"in"}},
	}
	for _, tt := range tests {
		got := tt.params.Ports()
		if len(got) != len(tt.want) {
			t.Errorf("%s ports = %v, want %v", tt.params.Kind(), got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s ports = %v, want %v", tt.params.Kind(), got, tt.want)
			}
		}
	}
}
