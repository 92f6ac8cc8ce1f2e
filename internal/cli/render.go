package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single target) or directory
	nodes   []string // target node IDs; empty means display nodes or sinks
	scale   float64  // resample factor for exported PNGs
	noCache bool     // disable the artifact cache
	refresh bool     // ignore cached entries but write new ones
}

// renderCommand creates the render command, which evaluates a graph and
// writes one PNG per target node.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render <graph>",
		Short: "Evaluate a graph and write PNGs of its outputs",
		Long: `Evaluate a graph file and write a PNG for every target node.

By default the targets are the display nodes, or every sink when the graph
has no display node. Use --node to pick targets explicitly.

With a single target, -o may name the PNG file. Otherwise -o names the
output directory and files are called <graph>_<node>.png.`,
		Example: `  pixelgraph render scene.json
  pixelgraph render scene.toml --node noise -o noise.png --scale 4
  pixelgraph render scene.hcl -o out/ --refresh`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single target) or directory")
	cmd.Flags().StringSliceVarP(&opts.nodes, "node", "n", nil, "target node ID (repeatable or comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "resample factor for exported images")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinner(ctx, "Rendering "+filepath.Base(input))
	spin.Start()
	result, err := runner.Execute(ctx, pipeline.Options{
		GraphPath: input,
		Targets:   opts.nodes,
		Scale:     opts.scale,
		Refresh:   opts.refresh,
		Logger:    logger,
		OnStage:   spin.SetStage,
	})
	spin.Stop()
	if err != nil {
		return err
	}

	paths, err := outputPaths(input, opts.output, result.Targets)
	if err != nil {
		return err
	}

	written := make([]string, 0, len(result.Artifacts))
	for _, id := range result.Targets {
		data, ok := result.Artifacts[id]
		if !ok {
			continue
		}
		path := paths[id]
		if err := writeOutput(path, data); err != nil {
			return err
		}
		written = append(written, path)
	}

	printRenderSummary(result, written)
	prog.done(fmt.Sprintf("Rendered %d outputs", len(written)))
	return nil
}

// printRenderSummary reports written files, then skipped targets with the
// reason they have no output.
func printRenderSummary(result *pipeline.Result, written []string) {
	if len(written) > 0 {
		printSuccess("Rendered %d of %d targets", len(written), len(result.Targets))
	} else {
		printWarning("No target produced an output")
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.EncodeHit)
	for _, p := range written {
		printFile(p)
	}

	for _, id := range result.Skipped {
		printWarning("%s has no output (%s)", id, describeStatus(result, id))
	}

	failed := make([]string, 0, len(result.Eval.Failures))
	for id := range result.Eval.Failures {
		failed = append(failed, id)
	}
	sort.Strings(failed)
	for _, id := range failed {
		printDetail("%s: %s", id, perrors.UserMessage(result.Eval.Failures[id]))
	}
}

func describeStatus(result *pipeline.Result, id string) string {
	if err := result.Eval.Err(id); err != nil {
		return perrors.UserMessage(err)
	}
	return string(result.Eval.Status(id))
}

// outputPaths maps each target to the file it is written to.
func outputPaths(input, output string, targets []string) (map[string]string, error) {
	paths := make(map[string]string, len(targets))
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

	if strings.EqualFold(filepath.Ext(output), "."+pipeline.FormatPNG) {
		if len(targets) != 1 {
			return nil, perrors.New(perrors.ErrCodeInvalidInput,
				"-o %s names a single file but there are %d targets; pass a directory", output, len(targets))
		}
		paths[targets[0]] = output
		return paths, nil
	}

	dir := output
	if dir == "" {
		dir = filepath.Dir(input)
	}
	for _, id := range targets {
		name := base + "_" + id + ".png"
		if len(targets) == 1 && output == "" {
			name = base + ".png"
		}
		paths[id] = filepath.Join(dir, name)
	}
	return paths, nil
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
