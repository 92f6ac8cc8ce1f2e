package cli

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	pgio "github.com/matzehuels/pixelgraph/pkg/io"
)

// convertCommand creates the convert command, which rewrites a graph file
// in another format.
func (c *CLI) convertCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "convert <graph> [output]",
		Short: "Rewrite a graph file as JSON, TOML or HCL",
		Long: `Decode a graph file and encode it again in another format.

The output format follows the output file's extension. Without an output
file the graph is written to stdout in the format given by --format.

Converted files hold every parameter explicitly, so defaults that were
omitted in the source are spelled out in the result.`,
		Example: `  pixelgraph convert scene.json scene.hcl
  pixelgraph convert scene.toml --format json`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			var output string
			if len(args) == 2 {
				output = args[1]
			}
			return runConvert(cmd.Context(), cmd.OutOrStdout(), args[0], output, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(pgio.FormatJSON), "stdout format: json, toml, hcl")

	return cmd
}

func runConvert(ctx context.Context, stdout io.Writer, input, output, format string) error {
	logger := loggerFromContext(ctx)

	g, err := pgio.Load(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded graph", "path", input, "nodes", g.NodeCount(), "edges", g.EdgeCount())

	if output == "" {
		f := pgio.Format(strings.ToLower(format))
		if !slices.Contains(pgio.Formats, f) {
			return perrors.New(perrors.ErrCodeInvalidInput, "invalid format: %s (must be 'json', 'toml' or 'hcl')", format)
		}
		return pgio.Write(g, stdout, f)
	}

	if err := pgio.Save(g, output); err != nil {
		return err
	}
	printSuccess("Converted %d nodes and %d edges", g.NodeCount(), g.EdgeCount())
	printFile(output)
	return nil
}
