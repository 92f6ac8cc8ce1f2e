// Package io reads and writes node graphs as JSON, TOML or HCL files.
//
// # Overview
//
// All three formats describe the same thing: an ordered list of nodes, each
// with an id, a kind, an optional label and kind-specific params, and an
// ordered list of edges from a source node to a named port of a target node.
// Decoding always produces a [graph.Graph]; encoding always writes every
// param explicitly so that equal graphs encode identically.
//
// # JSON
//
//	{
//	  "nodes": [
//	    {"id": "grad", "kind": "gradient", "params": {"from": "#000000", "to": [255, 255, 255]}},
//	    {"id": "noise", "kind": "perlin", "params": {"scale": 16, "seed": 42}},
//	    {"id": "mix", "kind": "combine", "params": {"mode": "overlay", "opacity": 0.8}},
//	    {"id": "view", "kind": "display", "label": "Preview"}
//	  ],
//	  "edges": [
//	    {"id": "e1", "source": "grad", "target": "mix", "targetHandle": "a"},
//	    {"id": "e2", "source": "noise", "target": "mix", "targetHandle": "b"},
//	    {"id": "e3", "source": "mix", "target": "view", "targetHandle": "in"}
//	  ]
//	}
//
// # TOML
//
// Nodes are [[node]] tables with a [node.params] sub-table; edges are
// [[edge]] tables with the same keys as JSON.
//
// # HCL
//
// Nodes are blocks labelled with kind and id, params are attributes, and
// edges use a "port" attribute:
//
//	node "perlin" "noise" {
//	  scale = 16
//	  seed  = 42
//	}
//
//	edge {
//	  source = "noise"
//	  target = "mix"
//	  port   = "b"
//	}
//
// # Params
//
// Omitted params take the defaults from [graph.Defaults]. Colours accept
// "#rgb", "#rrggbb", "#rrggbbaa" or a list of three or four integers.
// Values are not range-checked here: a zero noise scale loads fine and
// fails only that node at evaluation time. Syntax problems, unknown kinds,
// unknown blend modes and directions, and graph errors (duplicate IDs,
// dangling edges, unknown ports) are reported with the offending node or
// edge in the message and a pkg/errors code.
//
// # Files
//
// [Load] and [Save] pick the format from the file extension.
package io
