// Package cli implements the pixelgraph command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pixelgraph/pkg/buildinfo"
	"github.com/matzehuels/pixelgraph/pkg/cache"
	"github.com/matzehuels/pixelgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pixelgraph"

	// envRedisURL selects a shared Redis artifact cache instead of the
	// local file cache, e.g. redis://localhost:6379/0.
	envRedisURL = "PIXELGRAPH_REDIS_URL"

	// envMongoURI is the default connection string for --store mongo.
	envMongoURI = "PIXELGRAPH_MONGO_URI"

	// redisConnectTimeout bounds the initial Redis ping.
	redisConnectTimeout = 5 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Pixelgraph evaluates node graphs of image operations",
		Long: `Pixelgraph composes images from a graph of nodes: solid fills, gradients and
Perlin noise feed blend nodes, and display nodes mark what to look at.
Graphs are read from JSON, TOML or HCL files.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.evalCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache picks the artifact cache: none, Redis when PIXELGRAPH_REDIS_URL
// is set, otherwise the file cache. An unusable cache directory disables
// caching instead of failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if url := os.Getenv(envRedisURL); url != "" {
		ctx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx, url, appName+":")
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "url", url)
		return rc, nil
	}
	fc, err := cache.NewFileCache(cacheDir())
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/pixelgraph/).
func cacheDir() string {
	return cache.DefaultDir()
}
