package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/eval"
	"github.com/matzehuels/pixelgraph/pkg/pipeline"
	"github.com/matzehuels/pixelgraph/pkg/render/nodelink"
)

// Diagram formats accepted by the dot command.
const (
	diagramDOT = "dot"
	diagramSVG = "svg"
	diagramPNG = "png"
)

// dotOpts holds the command-line flags for the dot command.
type dotOpts struct {
	output   string  // output file; empty writes DOT to stdout or SVG/PNG next to the graph
	format   string  // dot, svg or png
	detailed bool    // include params and output sizes in labels
	evaluate bool    // evaluate first and mark nodes without output
	scale    float64 // PNG resolution factor
}

// dotCommand creates the dot command, which draws the graph topology.
func (c *CLI) dotCommand() *cobra.Command {
	opts := dotOpts{format: diagramDOT, scale: 2.0}

	cmd := &cobra.Command{
		Use:   "dot <graph>",
		Short: "Draw the graph topology as DOT, SVG or PNG",
		Long: `Convert a graph file into a node-link diagram.

DOT output goes to stdout unless -o is given. SVG and PNG are rendered with
Graphviz and written next to the graph file by default.

With --eval the graph is evaluated first and nodes without an output are
drawn dashed.`,
		Example: `  pixelgraph dot scene.json | dot -Tpng > topology.png
  pixelgraph dot scene.toml --format svg --detailed --eval`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDot(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "diagram format: dot, svg, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show params and output sizes")
	cmd.Flags().BoolVar(&opts.evaluate, "eval", false, "evaluate and mark nodes without output")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution factor")

	return cmd
}

func validateDiagramFormat(f string) error {
	switch f {
	case diagramDOT, diagramSVG, diagramPNG:
		return nil
	}
	return perrors.New(perrors.ErrCodeInvalidInput, "invalid format: %s (must be 'dot', 'svg' or 'png')", f)
}

func (c *CLI) runDot(ctx context.Context, stdout io.Writer, input string, opts dotOpts) error {
	logger := loggerFromContext(ctx)
	opts.format = strings.ToLower(opts.format)
	if err := validateDiagramFormat(opts.format); err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, logger)
	g, err := runner.Load(ctx, pipeline.Options{GraphPath: input, Logger: logger})
	if err != nil {
		return err
	}

	var outputs eval.Outputs
	if opts.evaluate {
		outputs = eval.Run(g.Nodes(), g.Edges(), eval.WithContext(ctx), eval.WithLogger(logger)).Outputs
	}
	dot := nodelink.ToDOT(g, outputs, nodelink.Options{Detailed: opts.detailed})

	var data []byte
	switch opts.format {
	case diagramDOT:
		data = []byte(dot)
		if opts.output == "" {
			_, err := io.WriteString(stdout, dot)
			return err
		}
	case diagramSVG:
		logger.Debug("rendering diagram", "format", "svg")
		data, err = nodelink.RenderSVG(dot)
	case diagramPNG:
		logger.Debug("rendering diagram", "format", "png", "scale", opts.scale)
		data, err = nodelink.RenderPNG(dot, opts.scale)
	}
	if err != nil {
		return fmt.Errorf("render diagram: %w", err)
	}

	path := opts.output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.format
	}
	if err := writeOutput(path, data); err != nil {
		return err
	}
	printSuccess("Wrote %s diagram", opts.format)
	printFile(path)
	return nil
}
