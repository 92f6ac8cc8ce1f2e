package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pixelgraph/pkg/eval"
	"github.com/matzehuels/pixelgraph/pkg/pipeline"
)

// evalCommand creates the eval command, which prints the status of every
// node without writing any image.
func (c *CLI) evalCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "eval <graph>",
		Short: "Evaluate a graph and print the status of every node",
		Long: `Evaluate a graph file and print a table with one row per node: its kind,
whether it produced an image, the image size, and why it failed or stalled.

The command exits successfully even when nodes fail; node problems are part
of the report, not errors.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEval(cmd.Context(), args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runEval(ctx context.Context, input string, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	g, cached, err := runner.LoadWithCacheInfo(ctx, pipeline.Options{GraphPath: input, Logger: logger})
	if err != nil {
		return err
	}
	res := eval.Run(g.Nodes(), g.Edges(), eval.WithContext(ctx), eval.WithLogger(logger))

	printStats(g.NodeCount(), g.EdgeCount(), cached)
	fmt.Println(statusTable(statusRows(g, res)))
	printDetail("%s", summaryLine(res))
	return nil
}
