package io

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/graph"
)

// ReadTOML decodes a TOML graph from r. Nodes are [[node]] tables with an
// optional [node.params] sub-table, and edges are [[edge]] tables:
//
//	[[node]]
//	id = "bg"
//	kind = "solid"
//	[node.params]
//	color = "#336699"
//
//	[[edge]]
//	source = "bg"
//	target = "view"
//	targetHandle = "in"
//
// Keys that belong to no field are reported as an INVALID_FORMAT error.
func ReadTOML(r io.Reader) (*graph.Graph, error) {
	var doc document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidFormat, "decode toml: unknown key %q", undecoded[0].String())
	}
	return doc.toGraph()
}

// WriteTOML encodes g as TOML.
func WriteTOML(g *graph.Graph, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(fromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
