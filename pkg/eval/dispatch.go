package eval

import (
	"fmt"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/graph"
	"github.com/matzehuels/pixelgraph/pkg/kernel"
	"github.com/matzehuels/pixelgraph/pkg/raster"
)

// evaluateNode runs the kernel for n. Panics are converted to INTERNAL_ERROR
// failures so one node can never abort the evaluation.
func evaluateNode(n graph.Node, in inputs) (buf *raster.Buffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = perrors.New(perrors.ErrCodeInternal, "node %s panicked: %v", n.ID, r)
		}
	}()

	if n.Params == nil {
		return nil, perrors.New(perrors.ErrCodeUnknownKind, "node %s has no params", n.ID)
	}
	if err := n.Params.Validate(); err != nil {
		return nil, fmt.Errorf("node %s: %w", n.ID, err)
	}

	switch p := n.Params.(type) {
	case graph.SolidParams:
		return kernel.Solid(p.Width, p.Height, p.Color), nil
	case graph.GradientParams:
		return kernel.Gradient(p.Width, p.Height, p.From, p.To, p.Direction), nil
	case graph.PerlinParams:
		b, err := kernel.Perlin(p.Width, p.Height, p.Scale, p.Seed)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		return b, nil
	case graph.CombineParams:
		return kernel.Combine(in.port(graph.PortA), in.port(graph.PortB), p.Mode, p.Opacity), nil
	case graph.DisplayParams:
		return in.port(graph.PortIn).Clone(), nil
	}
	return nil, perrors.New(perrors.ErrCodeUnknownKind, "node %s: no kernel for %T", n.ID, n.Params)
}
