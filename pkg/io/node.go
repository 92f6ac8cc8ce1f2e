package io

import (
	"encoding/json"
	"io"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/graph"
)

// DecodeNode reads a single node in the JSON graph shape:
//
//	{"id": "noise", "kind": "perlin", "label": "Clouds", "params": {"scale": 16}}
//
// The ID may be empty; callers that need one generate it.
func DecodeNode(r io.Reader) (graph.Node, error) {
	var doc nodeDoc
	if err := decodeStrict(r, &doc); err != nil {
		return graph.Node{}, err
	}
	if doc.ID != "" {
		if err := perrors.ValidateID(doc.ID); err != nil {
			return graph.Node{}, err
		}
	}
	p, err := doc.Params.toParams(doc.Kind)
	if err != nil {
		return graph.Node{}, err
	}
	return graph.Node{ID: doc.ID, Params: p, Label: doc.Label}, nil
}

// DecodeEdge reads a single edge in the JSON graph shape:
//
//	{"id": "e1", "source": "noise", "target": "mix", "targetHandle": "b"}
func DecodeEdge(r io.Reader) (graph.Edge, error) {
	var doc edgeDoc
	if err := decodeStrict(r, &doc); err != nil {
		return graph.Edge{}, err
	}
	return graph.Edge{ID: doc.ID, Source: doc.Source, Target: doc.Target, TargetPort: doc.TargetHandle}, nil
}

// PatchParams reads a JSON params object and overlays it onto base. Fields
// absent from the input keep base's values, so {"seed": 7} only reseeds a
// perlin node.
func PatchParams(base graph.Params, r io.Reader) (graph.Params, error) {
	var doc paramsDoc
	if err := decodeStrict(r, &doc); err != nil {
		return nil, err
	}
	return doc.applyTo(base)
}

// EncodeParams returns the JSON object form of p.
func EncodeParams(p graph.Params) ([]byte, error) {
	return json.Marshal(paramsFrom(p))
}

func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode json")
	}
	return nil
}
