// Package pipeline provides the load → evaluate → encode pipeline for
// pixelgraph.
//
// The CLI, the preview server and the watch view all go through this package
// so that graph loading, cache keys and PNG export behave the same
// everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode a graph file (JSON, TOML or HCL), or take a graph that is
//     already in memory
//  2. Evaluate: Run the fixed-point evaluator over a snapshot of the graph
//  3. Encode: Export the buffers of the target nodes as PNG
//
// Decoded graphs and encoded artifacts are cached. Graph entries are keyed by
// the hash of the source bytes; artifacts by the hash of the canonical JSON
// encoding of the graph, so editing a file in a way that does not change the
// graph keeps its artifacts warm.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    GraphPath: "scene.hcl",
//	    Scale:     2,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["view"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/eval"
	"github.com/matzehuels/pixelgraph/pkg/graph"
	"github.com/matzehuels/pixelgraph/pkg/raster"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Server and Watch
// =============================================================================

const (
	// DefaultScale leaves exported images at their native size.
	DefaultScale = 1.0

	// MaxScale bounds the export resampling factor.
	MaxScale = 16.0

	// MaxExportPixels bounds the area of one exported image after scaling.
	// A generator at the largest allowed size can be exported at scale 1
	// but not enlarged.
	MaxExportPixels = graph.MaxDimension * graph.MaxDimension

	// FormatPNG is the only artifact format.
	FormatPNG = "png"
)

// Stage names one step of a pipeline run.
type Stage string

// Pipeline stages, in execution order.
const (
	StageLoad     Stage = "load"
	StageEvaluate Stage = "evaluate"
	StageEncode   Stage = "encode"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// GraphPath is the graph file to load. Ignored when Graph is set.
	GraphPath string `json:"graph_path,omitempty"`

	// Graph is an already loaded graph, e.g. the current session state.
	Graph *graph.Graph `json:"-"`

	// Targets are the node IDs to export. Empty means every display node,
	// or every sink when the graph has no display node.
	Targets []string `json:"targets,omitempty"`

	// Scale resamples exported images. 0 means DefaultScale.
	Scale float64 `json:"scale,omitempty"`

	// Refresh bypasses cache reads. Results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives progress messages (not serialized).
	Logger *log.Logger `json:"-"`

	// OnStage, when set, is called as each stage begins.
	OnStage func(Stage) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the evaluated graph.
	Graph *graph.Graph

	// GraphHash is the hash of the graph's canonical JSON encoding.
	GraphHash string

	// Eval is the full evaluation result (outputs, failures, stalls).
	Eval *eval.Result

	// Targets are the node IDs that were selected for export.
	Targets []string

	// Artifacts maps target node IDs to PNG bytes. Targets without an
	// output have no entry and are listed in Skipped.
	Artifacts map[string][]byte

	// Skipped lists targets that produced no output.
	Skipped []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Outputs returns the evaluated buffer of every node.
func (r *Result) Outputs() eval.Outputs { return r.Eval.Outputs }

// Failures returns the per-node errors of the evaluation.
func (r *Result) Failures() map[string]error { return r.Eval.Failures }

// Stalled returns the nodes that never became ready.
func (r *Result) Stalled() []string { return r.Eval.Stalled }

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Passes     int
	LoadTime   time.Duration
	EvalTime   time.Duration
	EncodeTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit      bool // Whether the decoded graph came from cache
	ArtifactHits int  // Number of artifacts served from cache
	EncodeHit    bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Graph == nil {
		if err := perrors.ValidateGraphPath(o.GraphPath); err != nil {
			return err
		}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if err := ValidateScale(o.Scale); err != nil {
		return err
	}
	for _, id := range o.Targets {
		if err := perrors.ValidateID(id); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateScale checks that an export scale is usable.
func ValidateScale(scale float64) error {
	if !(scale > 0 && scale <= MaxScale) {
		return perrors.New(perrors.ErrCodeInvalidInput, "invalid scale %g (must be in (0, %g])", scale, MaxScale)
	}
	return nil
}

// ValidateExportSize checks that a w x h buffer exported at scale stays
// within [MaxExportPixels].
func ValidateExportSize(w, h int, scale float64) error {
	sw, sh := raster.ScaledSize(w, h, scale)
	if sw*sh > MaxExportPixels {
		return perrors.New(perrors.ErrCodeInvalidInput,
			"export of %dx%d at scale %g is %dx%d, over the %d pixel limit", w, h, scale, sw, sh, MaxExportPixels)
	}
	return nil
}

func (o *Options) enterStage(s Stage) {
	if o.OnStage != nil {
		o.OnStage(s)
	}
}

// Source describes where the graph comes from, for logs and hooks.
func (o *Options) Source() string {
	if o.Graph != nil {
		return "memory"
	}
	return o.GraphPath
}

// DefaultTargets returns the nodes exported when no targets are given:
// every display node, or every sink when there is none.
func DefaultTargets(g *graph.Graph) []string {
	nodes := g.NodesOfKind(graph.KindDisplay)
	if len(nodes) == 0 {
		nodes = g.Sinks()
	}
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// resolveTargets checks explicit targets against g, or falls back to
// [DefaultTargets].
func resolveTargets(g *graph.Graph, targets []string) ([]string, error) {
	if len(targets) == 0 {
		return DefaultTargets(g), nil
	}
	for _, id := range targets {
		if _, ok := g.Node(id); !ok {
			return nil, perrors.Wrap(perrors.ErrCodeNotFound, graph.ErrNodeNotFound, "target %s", id)
		}
	}
	return targets, nil
}
