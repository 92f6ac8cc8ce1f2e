package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pixelgraph/pkg/cache"
	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/eval"
	"github.com/matzehuels/pixelgraph/pkg/graph"
	pgio "github.com/matzehuels/pixelgraph/pkg/io"
	"github.com/matzehuels/pixelgraph/pkg/observability"
	"github.com/matzehuels/pixelgraph/pkg/raster"
)

// Runner encapsulates pipeline execution with caching.
// The CLI and the preview server both use it so caching behaves the same.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → evaluate → encode pipeline with caching.
//
// Node-level problems (bad parameters, cycles, missing inputs) do not fail
// the run: they show up in Result.Eval and in Result.Skipped. Execute only
// returns an error when the graph cannot be loaded or a target does not
// exist.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Load
	opts.enterStage(StageLoad)
	loadStart := time.Now()
	g, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.LoadHit = loadHit

	result.GraphHash, err = GraphHash(g)
	if err != nil {
		return nil, fmt.Errorf("hash graph: %w", err)
	}

	targets, err := resolveTargets(g, opts.Targets)
	if err != nil {
		return nil, err
	}
	result.Targets = targets

	opts.Logger.Info("loaded graph",
		"source", opts.Source(),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cached", loadHit,
		"duration", result.Stats.LoadTime)

	// Stage 2: Evaluate
	opts.enterStage(StageEvaluate)
	nodes, edges := g.Snapshot()
	result.Eval = eval.Run(nodes, edges, eval.WithContext(ctx), eval.WithLogger(opts.Logger))
	result.Stats.EvalTime = result.Eval.Duration
	result.Stats.Passes = result.Eval.Passes

	opts.Logger.Info("evaluated graph",
		"produced", result.Eval.Produced(),
		"failed", len(result.Eval.Failures),
		"stalled", len(result.Eval.Stalled),
		"duration", result.Stats.EvalTime)
	for id, ferr := range result.Eval.Failures {
		opts.Logger.Warn("node failed", "id", id, "err", perrors.UserMessage(ferr))
	}

	// Stage 3: Encode
	opts.enterStage(StageEncode)
	encodeStart := time.Now()
	hits, err := r.encode(ctx, result, opts)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	result.Stats.EncodeTime = time.Since(encodeStart)
	result.CacheInfo.ArtifactHits = hits
	result.CacheInfo.EncodeHit = len(result.Artifacts) > 0 && hits == len(result.Artifacts)

	opts.Logger.Info("encoded outputs",
		"targets", len(targets),
		"written", len(result.Artifacts),
		"skipped", len(result.Skipped),
		"duration", result.Stats.EncodeTime)

	return result, nil
}

// LoadWithCacheInfo returns the graph named by opts and whether it was
// decoded from the cache. In-memory graphs are returned as a clone and
// never cached.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*graph.Graph, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if opts.Graph != nil {
		return opts.Graph.Clone(), false, nil
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnLoadStart(ctx, opts.GraphPath)

	g, hit, err := r.load(ctx, opts)

	count := 0
	if g != nil {
		count = g.NodeCount()
	}
	hooks.OnLoadComplete(ctx, opts.GraphPath, count, time.Since(start), err)
	return g, hit, err
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*graph.Graph, error) {
	g, _, err := r.LoadWithCacheInfo(ctx, opts)
	return g, err
}

func (r *Runner) load(ctx context.Context, opts Options) (*graph.Graph, bool, error) {
	format, err := pgio.FormatFromPath(opts.GraphPath)
	if err != nil {
		return nil, false, err
	}
	src, err := os.ReadFile(opts.GraphPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "graph file %s", opts.GraphPath)
		}
		return nil, false, fmt.Errorf("read %s: %w", opts.GraphPath, err)
	}

	cacheKey := r.Keyer.GraphKey(cache.Hash(src))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if g, err := pgio.ReadJSON(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, cacheKey)
				return g, true, nil
			}
			// If deserialization fails, fall through to decode the source
		}
		observability.Cache().OnCacheMiss(ctx, cacheKey)
	}

	g, err := pgio.Read(bytes.NewReader(src), format, opts.GraphPath)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", opts.GraphPath, err)
	}

	if data, err := pgio.MarshalJSON(g); err == nil {
		r.store(ctx, cacheKey, data, cache.GraphTTL)
	}
	return g, false, nil
}

// encode exports every target with an output as PNG, reusing cached
// artifacts when possible. It returns the number of cache hits.
func (r *Runner) encode(ctx context.Context, result *Result, opts Options) (int, error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnEncodeStart(ctx, result.Targets)

	hits := 0
	var err error
	for _, id := range result.Targets {
		buf := result.Eval.Outputs[id]
		if buf.Empty() {
			result.Skipped = append(result.Skipped, id)
			opts.Logger.Warn("no output to export", "node", id, "status", result.Eval.Status(id))
			continue
		}

		if err = ValidateExportSize(buf.Width, buf.Height, opts.Scale); err != nil {
			err = fmt.Errorf("node %s: %w", id, err)
			break
		}

		cacheKey := r.Keyer.ArtifactKey(result.GraphHash, cache.ArtifactKeyOpts{
			NodeID: id,
			Scale:  opts.Scale,
			Format: FormatPNG,
		})
		if !opts.Refresh {
			if data, hit, cerr := r.Cache.Get(ctx, cacheKey); cerr == nil && hit {
				observability.Cache().OnCacheHit(ctx, cacheKey)
				result.Artifacts[id] = data
				hits++
				continue
			}
			observability.Cache().OnCacheMiss(ctx, cacheKey)
		}

		var data []byte
		data, err = raster.PNG(buf, opts.Scale)
		if err != nil {
			err = fmt.Errorf("node %s: %w", id, err)
			break
		}
		result.Artifacts[id] = data
		r.store(ctx, cacheKey, data, cache.ArtifactTTL)
	}

	hooks.OnEncodeComplete(ctx, result.Targets, time.Since(start), err)
	return hits, err
}

// store writes to the cache. Cache failures are logged, never fatal.
func (r *Runner) store(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// GraphHash returns the content hash used to key artifacts of g.
func GraphHash(g *graph.Graph) (string, error) {
	data, err := pgio.MarshalJSON(g)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
