package io

import (
	"fmt"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/graph"
	"github.com/matzehuels/pixelgraph/pkg/kernel"
)

// document is the shared on-disk shape of a graph for JSON and TOML.
type document struct {
	Nodes []nodeDoc `json:"nodes" toml:"node"`
	Edges []edgeDoc `json:"edges" toml:"edge"`
}

type nodeDoc struct {
	ID     string    `json:"id" toml:"id"`
	Kind   string    `json:"kind" toml:"kind"`
	Label  string    `json:"label,omitempty" toml:"label,omitempty"`
	Params paramsDoc `json:"params" toml:"params"`
}

type edgeDoc struct {
	ID           string `json:"id,omitempty" toml:"id,omitempty"`
	Source       string `json:"source" toml:"source"`
	Target       string `json:"target" toml:"target"`
	TargetHandle string `json:"targetHandle" toml:"targetHandle"`
}

// paramsDoc is the union of every kind's fields. Pointer fields distinguish
// "absent, use the default" from an explicit zero.
type paramsDoc struct {
	Width     *int     `json:"width,omitempty" toml:"width,omitempty"`
	Height    *int     `json:"height,omitempty" toml:"height,omitempty"`
	Color     *Color   `json:"color,omitempty" toml:"color,omitempty"`
	From      *Color   `json:"from,omitempty" toml:"from,omitempty"`
	To        *Color   `json:"to,omitempty" toml:"to,omitempty"`
	Direction string   `json:"direction,omitempty" toml:"direction,omitempty"`
	Scale     *int     `json:"scale,omitempty" toml:"scale,omitempty"`
	Seed      *uint32  `json:"seed,omitempty" toml:"seed,omitempty"`
	Mode      string   `json:"mode,omitempty" toml:"mode,omitempty"`
	Opacity   *float64 `json:"opacity,omitempty" toml:"opacity,omitempty"`
}

// toGraph builds a graph from a decoded document. Edges without an ID get
// "e<n>" where n is their 1-based position.
func (d document) toGraph() (*graph.Graph, error) {
	g := graph.New()
	for _, n := range d.Nodes {
		if n.ID != "" {
			if err := perrors.ValidateID(n.ID); err != nil {
				return nil, err
			}
		}
		p, err := n.Params.toParams(n.Kind)
		if err != nil {
			code := perrors.GetCode(err)
			if code == "" {
				code = perrors.ErrCodeInvalidFormat
			}
			return nil, perrors.Wrap(code, err, "node %s", n.ID)
		}
		if err := g.AddNode(graph.Node{ID: n.ID, Params: p, Label: n.Label}); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidGraph, err, "node %s", n.ID)
		}
	}
	for i, e := range d.Edges {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("e%d", i+1)
		}
		edge := graph.Edge{ID: id, Source: e.Source, Target: e.Target, TargetPort: e.TargetHandle}
		if err := g.AddEdge(edge); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidGraph, err, "edge %s (%s -> %s.%s)", id, e.Source, e.Target, e.TargetHandle)
		}
	}
	return g, nil
}

// fromGraph converts g into a document. Every field of each kind is written
// explicitly so that equal graphs always encode identically.
func fromGraph(g *graph.Graph) document {
	nodes, edges := g.Snapshot()
	d := document{
		Nodes: make([]nodeDoc, len(nodes)),
		Edges: make([]edgeDoc, len(edges)),
	}
	for i, n := range nodes {
		d.Nodes[i] = nodeDoc{ID: n.ID, Kind: string(n.Kind()), Label: n.Label, Params: paramsFrom(n.Params)}
	}
	for i, e := range edges {
		d.Edges[i] = edgeDoc{ID: e.ID, Source: e.Source, Target: e.Target, TargetHandle: e.TargetPort}
	}
	return d
}

func (p paramsDoc) toParams(kind string) (graph.Params, error) {
	k, err := graph.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	def, err := graph.Defaults(k)
	if err != nil {
		return nil, err
	}
	return p.applyTo(def)
}

// applyTo overlays the fields present in p onto base. Fields that do not
// belong to base's kind are ignored.
func (p paramsDoc) applyTo(base graph.Params) (graph.Params, error) {
	switch v := base.(type) {
	case graph.SolidParams:
		setInt(&v.Width, p.Width)
		setInt(&v.Height, p.Height)
		if p.Color != nil {
			v.Color = p.Color.RGBA()
		}
		return v, nil
	case graph.GradientParams:
		setInt(&v.Width, p.Width)
		setInt(&v.Height, p.Height)
		if p.From != nil {
			v.From = p.From.RGBA()
		}
		if p.To != nil {
			v.To = p.To.RGBA()
		}
		if p.Direction != "" {
			dir, err := kernel.ParseDirection(p.Direction)
			if err != nil {
				return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "direction")
			}
			v.Direction = dir
		}
		return v, nil
	case graph.PerlinParams:
		setInt(&v.Width, p.Width)
		setInt(&v.Height, p.Height)
		setInt(&v.Scale, p.Scale)
		if p.Seed != nil {
			v.Seed = *p.Seed
		}
		return v, nil
	case graph.CombineParams:
		if p.Mode != "" {
			mode, err := kernel.ParseBlendMode(p.Mode)
			if err != nil {
				return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "mode")
			}
			v.Mode = mode
		}
		if p.Opacity != nil {
			v.Opacity = kernel.ClampOpacity(*p.Opacity)
		}
		return v, nil
	case graph.DisplayParams:
		return v, nil
	}
	return nil, perrors.New(perrors.ErrCodeUnknownKind, "unsupported params type %T", base)
}

func paramsFrom(p graph.Params) paramsDoc {
	switch v := p.(type) {
	case graph.SolidParams:
		c := Color(v.Color)
		return paramsDoc{Width: &v.Width, Height: &v.Height, Color: &c}
	case graph.GradientParams:
		from, to := Color(v.From), Color(v.To)
		return paramsDoc{Width: &v.Width, Height: &v.Height, From: &from, To: &to, Direction: string(v.Direction)}
	case graph.PerlinParams:
		return paramsDoc{Width: &v.Width, Height: &v.Height, Scale: &v.Scale, Seed: &v.Seed}
	case graph.CombineParams:
		// NaN and infinities have no JSON form; store the value the kernel
		// will actually use.
		o := kernel.ClampOpacity(v.Opacity)
		return paramsDoc{Mode: string(v.Mode), Opacity: &o}
	}
	return paramsDoc{}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
