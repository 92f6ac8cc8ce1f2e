package eval_test

import (
	"fmt"

	"github.com/matzehuels/pixelgraph/pkg/eval"
	"github.com/matzehuels/pixelgraph/pkg/graph"
	"github.com/matzehuels/pixelgraph/pkg/kernel"
	"github.com/matzehuels/pixelgraph/pkg/raster"
)

func ExampleEvaluate() {
	nodes := []graph.Node{
		{ID: "bg", Params: graph.SolidParams{Width: 4, Height: 4, Color: raster.RGBA{R: 100, G: 100, B: 100, A: 255}}},
		{ID: "fg", Params: graph.SolidParams{Width: 4, Height: 4, Color: raster.RGBA{R: 50, G: 0, B: 200, A: 255}}},
		{ID: "mix", Params: graph.CombineParams{Mode: kernel.BlendDifference, Opacity: 1}},
		{ID: "view", Params: graph.DisplayParams{}},
	}
	edges := []graph.Edge{
		{ID: "e1", Source: "bg", Target: "mix", TargetPort: graph.PortA},
		{ID: "e2", Source: "fg", Target: "mix", TargetPort: graph.PortB},
		{ID: "e3", Source: "mix", Target: "view", TargetPort: graph.PortIn},
	}

	out := eval.Evaluate(nodes, edges)
	fmt.Println(out["view"].At(0, 0))
	// Output:
	// {50 100 100 255}
}

func ExampleRun_cycle() {
	nodes := []graph.Node{
		{ID: "a", Params: graph.CombineParams{Mode: kernel.BlendAdd, Opacity: 1}},
		{ID: "b", Params: graph.DisplayParams{}},
	}
	edges := []graph.Edge{
		{ID: "ab", Source: "a", Target: "b", TargetPort: graph.PortIn},
		{ID: "ba", Source: "b", Target: "a", TargetPort: graph.PortA},
	}

	res := eval.Run(nodes, edges)
	fmt.Println("stalled:", res.Stalled)
	fmt.Println("a:", res.Status("a"), "b:", res.Status("b"))
	// Output:
	// stalled: [a b]
	// a: stalled b: stalled
}
