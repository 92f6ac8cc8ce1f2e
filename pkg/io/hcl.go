package io

import (
	"fmt"
	"io"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/graph"
	"github.com/matzehuels/pixelgraph/pkg/kernel"
)

// hclFile is the top-level schema of an HCL graph file.
type hclFile struct {
	Nodes []*hclNode `hcl:"node,block"`
	Edges []*hclEdge `hcl:"edge,block"`
}

// hclNode is a `node "<kind>" "<id>" { ... }` block.
type hclNode struct {
	Kind      string         `hcl:"kind,label"`
	ID        string         `hcl:"id,label"`
	Label     *string        `hcl:"label,optional"`
	Width     *int           `hcl:"width,optional"`
	Height    *int           `hcl:"height,optional"`
	Color     hcl.Expression `hcl:"color,optional"`
	From      hcl.Expression `hcl:"from,optional"`
	To        hcl.Expression `hcl:"to,optional"`
	Direction *string        `hcl:"direction,optional"`
	Scale     *int           `hcl:"scale,optional"`
	Seed      *int64         `hcl:"seed,optional"`
	Mode      *string        `hcl:"mode,optional"`
	Opacity   *float64       `hcl:"opacity,optional"`
}

// hclEdge is an `edge { ... }` block.
type hclEdge struct {
	ID     *string `hcl:"id,optional"`
	Source string  `hcl:"source"`
	Target string  `hcl:"target"`
	Port   string  `hcl:"port"`
}

// ReadHCL decodes an HCL graph from r. filename is used in diagnostics.
//
//	node "solid" "bg" {
//	  color = "#336699"
//	}
//
//	node "display" "view" {}
//
//	edge {
//	  source = "bg"
//	  target = "view"
//	  port   = "in"
//	}
//
// Colours may be hex strings or lists such as [51, 102, 153, 255].
func ReadHCL(r io.Reader, filename string) (*graph.Graph, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, diags, "parse hcl")
	}

	var root hclFile
	if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, diags, "decode hcl")
	}

	var doc document
	for _, n := range root.Nodes {
		nd, err := n.toDoc()
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "node %s", n.ID)
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	for _, e := range root.Edges {
		ed := edgeDoc{Source: e.Source, Target: e.Target, TargetHandle: e.Port}
		if e.ID != nil {
			ed.ID = *e.ID
		}
		doc.Edges = append(doc.Edges, ed)
	}
	return doc.toGraph()
}

func (n *hclNode) toDoc() (nodeDoc, error) {
	nd := nodeDoc{ID: n.ID, Kind: n.Kind}
	if n.Label != nil {
		nd.Label = *n.Label
	}
	p := paramsDoc{Width: n.Width, Height: n.Height, Scale: n.Scale, Opacity: n.Opacity}
	if n.Direction != nil {
		p.Direction = *n.Direction
	}
	if n.Mode != nil {
		p.Mode = *n.Mode
	}
	if n.Seed != nil {
		if *n.Seed < 0 || *n.Seed > math.MaxUint32 {
			return nodeDoc{}, fmt.Errorf("seed %d out of range", *n.Seed)
		}
		seed := uint32(*n.Seed)
		p.Seed = &seed
	}

	var err error
	if p.Color, err = colorExpr("color", n.Color); err != nil {
		return nodeDoc{}, err
	}
	if p.From, err = colorExpr("from", n.From); err != nil {
		return nodeDoc{}, err
	}
	if p.To, err = colorExpr("to", n.To); err != nil {
		return nodeDoc{}, err
	}
	nd.Params = p
	return nd, nil
}

// colorExpr evaluates an optional colour attribute. A missing attribute
// yields nil.
func colorExpr(name string, expr hcl.Expression) (*Color, error) {
	if expr == nil {
		return nil, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: %w", name, diags)
	}
	if v.IsNull() {
		return nil, nil
	}

	if v.Type() == cty.String {
		rgba, err := ParseColor(v.AsString())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		c := Color(rgba)
		return &c, nil
	}

	list, err := convert.Convert(v, cty.List(cty.Number))
	if err != nil {
		return nil, fmt.Errorf("%s: colour must be a hex string or number list", name)
	}
	var ints []int64
	if err := gocty.FromCtyValue(list, &ints); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	rgba, err := colorFromInts(ints)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	c := Color(rgba)
	return &c, nil
}

// WriteHCL encodes g as HCL using the block layout accepted by [ReadHCL].
func WriteHCL(g *graph.Graph, w io.Writer) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	nodes, edges := g.Snapshot()
	for _, n := range nodes {
		body := root.AppendNewBlock("node", []string{string(n.Kind()), n.ID}).Body()
		if n.Label != "" {
			body.SetAttributeValue("label", cty.StringVal(n.Label))
		}
		writeParams(body, n.Params)
		root.AppendNewline()
	}
	for _, e := range edges {
		body := root.AppendNewBlock("edge", nil).Body()
		body.SetAttributeValue("id", cty.StringVal(e.ID))
		body.SetAttributeValue("source", cty.StringVal(e.Source))
		body.SetAttributeValue("target", cty.StringVal(e.Target))
		body.SetAttributeValue("port", cty.StringVal(e.TargetPort))
		root.AppendNewline()
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func writeParams(body *hclwrite.Body, p graph.Params) {
	size := func(w, h int) {
		body.SetAttributeValue("width", cty.NumberIntVal(int64(w)))
		body.SetAttributeValue("height", cty.NumberIntVal(int64(h)))
	}
	switch v := p.(type) {
	case graph.SolidParams:
		size(v.Width, v.Height)
		body.SetAttributeValue("color", cty.StringVal(FormatColor(v.Color)))
	case graph.GradientParams:
		size(v.Width, v.Height)
		body.SetAttributeValue("from", cty.StringVal(FormatColor(v.From)))
		body.SetAttributeValue("to", cty.StringVal(FormatColor(v.To)))
		body.SetAttributeValue("direction", cty.StringVal(string(v.Direction)))
	case graph.PerlinParams:
		size(v.Width, v.Height)
		body.SetAttributeValue("scale", cty.NumberIntVal(int64(v.Scale)))
		body.SetAttributeValue("seed", cty.NumberUIntVal(uint64(v.Seed)))
	case graph.CombineParams:
		body.SetAttributeValue("mode", cty.StringVal(string(v.Mode)))
		body.SetAttributeValue("opacity", cty.NumberFloatVal(kernel.ClampOpacity(v.Opacity)))
	}
}
