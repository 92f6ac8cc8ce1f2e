// Package pkg holds the libraries behind pixelgraph, a node-graph image
// compositor.
//
// # Overview
//
// A graph is a set of nodes, each one image operation, joined by edges that
// feed one node's output into a named input port of another. Evaluating the
// graph produces an image (or nothing) for every node.
//
//  1. [raster] - the RGBA pixel buffer and PNG export
//  2. [kernel] - pure image operations: solid, gradient, Perlin, combine
//  3. [graph] - nodes, edges, per-kind params and graph editing
//  4. [eval] - the fixed-point evaluator
//  5. [io] - JSON, TOML and HCL graph files
//  6. [pipeline] - load, evaluate and encode with caching
//  7. [cache], [session] - storage for artifacts and editing sessions
//  8. [render/nodelink] - Graphviz diagrams of the topology
//
// # Data flow
//
//	graph file (json/toml/hcl)
//	         ↓
//	    [io] decode into [graph.Graph]
//	         ↓
//	    [eval] run kernels until no node is ready
//	         ↓
//	    [pipeline] encode target outputs as PNG, cached
//
// Node problems never fail an evaluation: a node with bad params records a
// failure, a node whose inputs never arrive stalls, and both simply have no
// output. Everything downstream sees an absent input.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{GraphPath: "scene.json"})
//	if err != nil {
//	    return err
//	}
//	for id, png := range res.Artifacts {
//	    os.WriteFile(id+".png", png, 0o644)
//	}
package pkg
