package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/pixelgraph/pkg/graph"
)

// ReadJSON decodes a JSON graph from r.
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [
//	    {"id": "bg", "kind": "solid", "params": {"color": "#336699"}},
//	    {"id": "view", "kind": "display"}
//	  ],
//	  "edges": [{"id": "e1", "source": "bg", "target": "view", "targetHandle": "in"}]
//	}
//
// Omitted params take the kind's defaults and unknown keys are an
// INVALID_FORMAT error, as in the other formats. Errors are wrapped with context
// describing which node or edge caused the problem; use errors.Is to check
// for the graph package's sentinel errors.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var doc document
	if err := decodeStrict(r, &doc); err != nil {
		return nil, err
	}
	return doc.toGraph()
}

// WriteJSON encodes g as indented JSON. The output can be re-read with
// [ReadJSON] and is byte-stable for equal graphs.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the canonical JSON encoding of g.
func MarshalJSON(g *graph.Graph) ([]byte, error) {
	data, err := json.Marshal(fromGraph(g))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}
