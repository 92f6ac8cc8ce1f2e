package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pixelgraph/pkg/eval"
	"github.com/matzehuels/pixelgraph/pkg/graph"
	pgio "github.com/matzehuels/pixelgraph/pkg/io"
	"github.com/matzehuels/pixelgraph/pkg/raster"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes key parameters and output sizes in node labels.
	// When false, only the label and kind are shown.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// When outputs is non-nil, nodes whose output is absent are rendered with
// dashed outlines and grey fill.
func ToDOT(g *graph.Graph, outputs eval.Outputs, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := fmtLabel(n, outputs, opts.Detailed)
		attrs := fmtAttrs(n, label, absent(outputs, n.ID))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Target, e.TargetPort)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func absent(outputs eval.Outputs, id string) bool {
	return outputs != nil && outputs[id] == nil
}

func fmtLabel(n graph.Node, outputs eval.Outputs, detailed bool) string {
	head := n.DisplayLabel() + "\n" + string(n.Kind())
	if !detailed {
		return head
	}

	parts := paramSummary(n.Params)
	if outputs != nil {
		if b := outputs[n.ID]; b != nil {
			parts = append(parts, fmt.Sprintf("out: %dx%d", b.Width, b.Height))
		} else {
			parts = append(parts, "out: none")
		}
	}
	if len(parts) == 0 {
		return head
	}
	return head + "\n" + strings.Join(parts, "\n")
}

// paramSummary lists the parameters worth showing in a box.
func paramSummary(p graph.Params) []string {
	switch p := p.(type) {
	case graph.SolidParams:
		return []string{fmt.Sprintf("%dx%d", p.Width, p.Height), pgio.FormatColor(p.Color)}
	case graph.GradientParams:
		return []string{
			fmt.Sprintf("%dx%d %s", p.Width, p.Height, p.Direction),
			pgio.FormatColor(p.From) + " -> " + pgio.FormatColor(p.To),
		}
	case graph.PerlinParams:
		return []string{fmt.Sprintf("%dx%d", p.Width, p.Height), fmt.Sprintf("scale %d, seed %d", p.Scale, p.Seed)}
	case graph.CombineParams:
		return []string{fmt.Sprintf("%s @ %g", p.Mode, p.Opacity)}
	}
	return nil
}

func fmtAttrs(n graph.Node, label string, missing bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if missing {
		return append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	if p, ok := n.Params.(graph.SolidParams); ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", pgio.FormatColor(p.Color)), "fontcolor="+contrast(p.Color))
	}
	return attrs
}

// contrast picks black or white text for a fill colour.
func contrast(c raster.RGBA) string {
	if 299*int(c.R)+587*int(c.G)+114*int(c.B) < 128*1000 {
		return "white"
	}
	return "black"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(dot, func(ctx context.Context, gv *graphviz.Graphviz, g *graphviz.Graph) error {
		return gv.Render(ctx, g, graphviz.SVG, &buf)
	}); err != nil {
		return nil, err
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz. A scale of 2.0
// produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	var out []byte
	if err := render(dot, func(ctx context.Context, gv *graphviz.Graphviz, g *graphviz.Graph) error {
		img, err := gv.RenderImage(ctx, g)
		if err != nil {
			return err
		}
		out, err = raster.PNG(raster.FromImage(img), scale)
		return err
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func render(dot string, fn func(context.Context, *graphviz.Graphviz, *graphviz.Graph) error) error {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if err := fn(ctx, gv, g); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
