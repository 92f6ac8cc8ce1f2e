// Package eval evaluates a node graph into one pixel buffer per node.
//
// # Algorithm
//
// [Run] (and its thin wrapper [Evaluate]) performs fixed-point, repeated-pass
// evaluation over an immutable snapshot of nodes and edges:
//
//  1. Incoming edges are indexed per target node, keeping edge order.
//  2. Each pass walks the still-pending nodes in node order. A node is ready
//     once every incoming edge's source already has an entry in the output
//     map. An entry of nil (no output) counts as computed, so absence
//     propagates downstream instead of blocking it.
//  3. A ready node is dispatched on the concrete type of its params to the
//     matching kernel. Each input port resolves to the first edge, in edge
//     order, whose TargetPort matches; an unconnected port is nil.
//  4. Passes repeat until one makes no progress.
//  5. Nodes still pending at that point sit on or behind a cycle. They are
//     mapped to nil without being evaluated and reported in
//     [Result.Stalled].
//
// The result is independent of the order in which nodes are listed: readiness
// depends only on dependencies, and port resolution only on edge order.
//
// # Failure Isolation
//
// A node whose params are out of range, whose kernel returns an error, or
// whose evaluation panics is mapped to nil and its error is recorded in
// [Result.Failures]. Evaluation carries on with the rest of the graph; Run
// never returns an error and never panics, and the output map always holds
// exactly one entry per distinct node ID.
//
// # Ownership
//
// Every non-nil buffer in the output map is freshly allocated by this call.
// Display nodes clone their input rather than aliasing it, so callers may
// modify one entry without affecting another. Nodes and edges are only read.
//
// # Observability
//
// Pass [WithLogger] for per-node debug logging and [WithContext] to give
// registered [observability.EvalHooks] a request context.
package eval
