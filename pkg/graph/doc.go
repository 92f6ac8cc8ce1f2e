// Package graph defines the node-graph data model evaluated by pixelgraph.
//
// # Overview
//
// A [Graph] is an ordered list of [Node] values and an ordered list of [Edge]
// values. A node carries a [Params] record whose concrete type determines
// the node's kind:
//
//	SolidParams     solid      fills with one colour
//	GradientParams  gradient   linear two-colour ramp
//	PerlinParams    perlin     seeded gradient noise
//	CombineParams   combine    blends port "b" onto port "a"
//	DisplayParams   display    passes port "in" through
//
// Params is sealed: only the types above implement it, so consumers can
// dispatch with an exhaustive type switch.
//
// # Immutability
//
// Nodes are plain values. [Graph.Nodes], [Graph.Edges] and [Graph.Snapshot]
// return copies, and a parameter edit replaces the node record through
// [Graph.UpdateParams] rather than mutating it in place. An evaluation
// therefore always sees a consistent snapshot even while an editing session
// keeps changing the graph.
//
// # Ports and Edges
//
// An edge runs from a source node's single output to a named input port of
// its target. [Graph.AddEdge] checks that both endpoints exist and that the
// target kind declares the port. More than one edge may end at the same
// port; the first in edge order is the one the evaluator uses.
//
// # Validation
//
// [Graph.Validate] reports dangling edges and cycles. It is a diagnostic:
// the evaluator accepts any graph and maps nodes on a cycle to no output.
//
//	if err := g.Validate(); errors.Is(err, graph.ErrGraphHasCycle) {
//	    log.Warn("graph has a cycle; affected nodes will be empty")
//	}
//
// Parameter ranges are checked by [Params.Validate], which returns errors
// with code INVALID_PARAM from pkg/errors.
package graph
