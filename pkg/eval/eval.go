package eval

import (
	"time"

	"github.com/matzehuels/pixelgraph/pkg/graph"
	"github.com/matzehuels/pixelgraph/pkg/observability"
	"github.com/matzehuels/pixelgraph/pkg/raster"
)

// Evaluate computes the output of every node and returns only the output
// mapping. See [Run] for the full result.
func Evaluate(nodes []graph.Node, edges []graph.Edge, opts ...Option) Outputs {
	return Run(nodes, edges, opts...).Outputs
}

// Run evaluates nodes and edges to a fixed point.
//
// Run never mutates its arguments and keeps no state between calls. Nodes
// sharing an ID with an earlier node in the slice are ignored.
func Run(nodes []graph.Node, edges []graph.Edge, opts ...Option) *Result {
	cfg := newConfig(opts)
	hooks := observability.Eval()
	start := time.Now()

	pending := dedupe(nodes)
	incoming := make(map[string][]graph.Edge, len(pending))
	for _, e := range edges {
		incoming[e.Target] = append(incoming[e.Target], e)
	}

	res := &Result{
		Outputs:  make(Outputs, len(pending)),
		Failures: make(map[string]error),
	}
	hooks.OnEvalStart(cfg.ctx, len(pending), len(edges))

	for len(pending) > 0 {
		res.Passes++
		var next []graph.Node
		for _, n := range pending {
			if !ready(incoming[n.ID], res.Outputs) {
				next = append(next, n)
				continue
			}
			nodeStart := time.Now()
			buf, err := evaluateNode(n, inputs{edges: incoming[n.ID], outputs: res.Outputs})
			took := time.Since(nodeStart)

			res.Outputs[n.ID] = buf
			if err != nil {
				res.Failures[n.ID] = err
				cfg.logger.Debug("node failed", "id", n.ID, "kind", n.Kind(), "err", err)
			} else {
				cfg.logger.Debug("node evaluated", "id", n.ID, "kind", n.Kind(), "empty", buf == nil, "took", took)
			}
			hooks.OnNodeEvaluated(cfg.ctx, n.ID, string(n.Kind()), took, err)
		}
		if len(next) == len(pending) {
			break
		}
		pending = next
	}

	for _, n := range pending {
		res.Outputs[n.ID] = nil
		res.Stalled = append(res.Stalled, n.ID)
	}
	if len(res.Stalled) > 0 {
		cfg.logger.Debug("nodes never became ready", "stalled", res.Stalled)
	}

	res.Duration = time.Since(start)
	hooks.OnEvalComplete(cfg.ctx, res.Passes, len(res.Stalled), len(res.Failures), res.Duration)
	cfg.logger.Debug("evaluation complete",
		"nodes", len(res.Outputs), "passes", res.Passes,
		"failed", len(res.Failures), "stalled", len(res.Stalled), "took", res.Duration)
	return res
}

// ready reports whether every incoming edge's source has been computed.
// Edges from nodes that are not part of the evaluation never become ready.
func ready(in []graph.Edge, outputs Outputs) bool {
	for _, e := range in {
		if _, done := outputs[e.Source]; !done {
			return false
		}
	}
	return true
}

func dedupe(nodes []graph.Node) []graph.Node {
	seen := make(map[string]bool, len(nodes))
	out := make([]graph.Node, 0, len(nodes))
	for _, n := range nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out
}

// inputs resolves a node's named ports against the partial output map.
type inputs struct {
	edges   []graph.Edge
	outputs Outputs
}

// port returns the output of the first edge feeding name, or nil.
func (in inputs) port(name string) *raster.Buffer {
	for _, e := range in.edges {
		if e.TargetPort == name {
			return in.outputs[e.Source]
		}
	}
	return nil
}
