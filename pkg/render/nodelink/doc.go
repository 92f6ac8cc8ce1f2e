// Package nodelink renders pixelgraph graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz: one
// box per node, one arrow per edge, with the target port written on the
// arrow. It is how the CLI shows the topology of a graph file without
// looking at any pixels.
//
// # Usage
//
// Convert a graph to DOT, then render to SVG:
//
//	res := eval.Run(g.Snapshot())
//	dot := nodelink.ToDOT(g, res.Outputs, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// Passing evaluated outputs marks nodes without an output with a dashed
// grey box. Pass nil to draw the bare topology.
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include the node's key parameters
//     and the size of its output.
//
// # DOT Format
//
// The generated DOT uses left-to-right layout (rankdir=LR) so that data
// flows the same way it does in a node editor. Solid nodes are filled with
// their colour.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no Graphviz installation is needed.
package nodelink
