package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrMissingParams is returned by [Graph.AddNode] and [Graph.UpdateParams]
	// when the node carries no parameter record.
	ErrMissingParams = errors.New("node has no params")

	// ErrNodeNotFound is returned when an operation names a node that does
	// not exist.
	ErrNodeNotFound = errors.New("node not found")

	// ErrKindChange is returned by [Graph.UpdateParams] when the new params
	// belong to a different kind than the node's current params.
	ErrKindChange = errors.New("params kind does not match node kind")

	// ErrInvalidEdgeID is returned by [Graph.AddEdge] when the edge ID is empty.
	ErrInvalidEdgeID = errors.New("edge ID must not be empty")

	// ErrDuplicateEdgeID is returned by [Graph.AddEdge] when an edge with the
	// same ID already exists.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrEdgeNotFound is returned by [Graph.RemoveEdge] for an unknown edge ID.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownPort is returned by [Graph.AddEdge] when the target node's
	// kind has no input port with the edge's TargetPort name.
	ErrUnknownPort = errors.New("unknown target port")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node or port that doesn't exist.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a directed cycle
	// exists. The evaluator accepts cyclic graphs; this is a diagnostic only.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Node is one operation in the graph. Nodes are values: changing a node's
// parameters means replacing the record through [Graph.UpdateParams].
type Node struct {
	ID     string
	Params Params
	Label  string // Display label (defaults to ID)
}

// Kind returns the kind of the node's params, or "" when Params is nil.
func (n Node) Kind() Kind {
	if n.Params == nil {
		return ""
	}
	return n.Params.Kind()
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge connects the output of Source to the named input port of Target.
type Edge struct {
	ID         string
	Source     string
	Target     string
	TargetPort string
}

// Graph is an ordered collection of nodes and edges.
//
// Node and edge order is insertion order and is preserved by every
// operation; the evaluator relies on edge order to pick the first edge
// feeding a port. Graph does not reject cycles.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// use without external synchronization.
type Graph struct {
	nodes []Node
	edges []Edge
	index map[string]int // node ID -> position in nodes
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddNode appends a node. Returns ErrInvalidNodeID for an empty ID,
// ErrDuplicateNodeID if the ID is taken, or ErrMissingParams if Params is nil.
// Parameter values are not range-checked here; out-of-range values surface
// as per-node failures during evaluation.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Params == nil {
		return ErrMissingParams
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return nil
}

// AddEdge appends an edge between two existing nodes. The target's kind must
// declare TargetPort as an input. Several edges may feed the same port; the
// first one in edge order wins during evaluation.
func (g *Graph) AddEdge(e Edge) error {
	if e.ID == "" {
		return ErrInvalidEdgeID
	}
	if slices.ContainsFunc(g.edges, func(x Edge) bool { return x.ID == e.ID }) {
		return ErrDuplicateEdgeID
	}
	if _, ok := g.index[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	target, ok := g.Node(e.Target)
	if !ok {
		return ErrUnknownTargetNode
	}
	if !HasPort(target.Params, e.TargetPort) {
		return ErrUnknownPort
	}
	g.edges = append(g.edges, e)
	return nil
}

// RemoveNode deletes a node together with every edge that touches it and
// returns the removed edges.
func (g *Graph) RemoveNode(id string) ([]Edge, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	g.nodes = slices.Delete(g.nodes, i, i+1)
	g.reindex()

	var removed []Edge
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		if e.Source == id || e.Target == id {
			removed = append(removed, e)
			return true
		}
		return false
	})
	return removed, nil
}

// RemoveEdge deletes the edge with the given ID.
func (g *Graph) RemoveEdge(id string) (Edge, error) {
	i := slices.IndexFunc(g.edges, func(e Edge) bool { return e.ID == id })
	if i < 0 {
		return Edge{}, ErrEdgeNotFound
	}
	e := g.edges[i]
	g.edges = slices.Delete(g.edges, i, i+1)
	return e, nil
}

// UpdateParams replaces the params of node id and returns the previous node
// record. The kind of a node is fixed at creation: ErrKindChange is
// returned if p belongs to another kind.
func (g *Graph) UpdateParams(id string, p Params) (Node, error) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, ErrNodeNotFound
	}
	if p == nil {
		return Node{}, ErrMissingParams
	}
	old := g.nodes[i]
	if old.Kind() != p.Kind() {
		return Node{}, ErrKindChange
	}
	g.nodes[i] = Node{ID: old.ID, Params: p, Label: old.Label}
	return old, nil
}

// Node returns the node with the given ID and true, or the zero Node and
// false if not found.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Edge returns the edge with the given ID and true, or false if not found.
func (g *Graph) Edge(id string) (Edge, bool) {
	i := slices.IndexFunc(g.edges, func(e Edge) bool { return e.ID == id })
	if i < 0 {
		return Edge{}, false
	}
	return g.edges[i], true
}

// Nodes returns a copy of all nodes in insertion order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Snapshot returns independent copies of the node and edge lists, suitable
// for handing to the evaluator while the graph continues to change.
func (g *Graph) Snapshot() ([]Node, []Edge) { return g.Nodes(), g.Edges() }

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes: slices.Clone(g.nodes),
		edges: slices.Clone(g.edges),
	}
	c.reindex()
	return c
}

// Incoming returns the edges whose target is id, in edge order.
func (g *Graph) Incoming(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// Outgoing returns the edges whose source is id, in edge order.
func (g *Graph) Outgoing(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// Sinks returns the nodes with no outgoing edges, in node order.
func (g *Graph) Sinks() []Node {
	var sinks []Node
	for _, n := range g.nodes {
		if !slices.ContainsFunc(g.edges, func(e Edge) bool { return e.Source == n.ID }) {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// NodesOfKind returns the nodes of the given kind, in node order.
func (g *Graph) NodesOfKind(k Kind) []Node {
	var out []Node
	for _, n := range g.nodes {
		if n.Kind() == k {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks graph integrity and returns nil if valid. It verifies that
// every edge connects existing nodes through a declared port, then that the
// graph is acyclic.
//
// Returns ErrInvalidEdgeEndpoint or ErrGraphHasCycle. Neither condition
// prevents evaluation: nodes on a cycle simply produce no output.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		target, okT := g.Node(e.Target)
		_, okS := g.index[e.Source]
		if !okS || !okT || !HasPort(target.Params, e.TargetPort) {
			return ErrInvalidEdgeEndpoint
		}
	}
	return g.detectCycles()
}

func (g *Graph) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	outgoing := make(map[string][]string, len(g.nodes))
	for _, e := range g.edges {
		outgoing[e.Source] = append(outgoing[e.Source], e.Target)
	}

	color := make(map[string]int, len(g.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[id] = black
	}

	for _, n := range g.nodes {
		if color[n.ID] == white {
			dfs(n.ID)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

func (g *Graph) reindex() {
	g.index = make(map[string]int, len(g.nodes))
	for i, n := range g.nodes {
		g.index[n.ID] = i
	}
}
