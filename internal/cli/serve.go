package cli

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/pipeline"
	"github.com/matzehuels/pixelgraph/pkg/session"

	"github.com/matzehuels/pixelgraph/internal/server"
)

// Session store backends accepted by --store.
const (
	storeMemory = "memory"
	storeFile   = "file"
	storeRedis  = "redis"
	storeMongo  = "mongo"
)

// storeConnectTimeout bounds connecting to a remote session store.
const storeConnectTimeout = 10 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr       string        // listen address
	store      string        // session store backend
	sessionID  string        // resume this stored session instead of loading a file
	redisURL   string        // redis store URL
	mongoURI   string        // mongo store URI
	sessionTTL time.Duration // redis session expiry
	noCache    bool          // disable the artifact cache
}

// serveCommand creates the serve command, which exposes one editing session
// over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:     "localhost:8080",
		store:    storeMemory,
		redisURL: os.Getenv(envRedisURL),
		mongoURI: os.Getenv(envMongoURI),
	}

	cmd := &cobra.Command{
		Use:   "serve [graph]",
		Short: "Serve a live preview of a graph over HTTP",
		Long: `Start an HTTP server holding one editing session.

The session starts from a graph file, or from a stored session with
--session. Clients add and remove nodes and edges, patch params and fetch
PNGs of any node. Every edit creates a new revision and is saved to the
session store.

Stores:
  memory  nothing survives a restart (default)
  file    JSON files under the user config directory
  redis   $` + envRedisURL + ` or --redis-url
  mongo   $` + envMongoURI + ` or --mongo-uri`,
		Example: `  pixelgraph serve scene.json
  pixelgraph serve scene.toml --addr :9000 --store file
  pixelgraph serve --store redis --session 6f1c...`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runServe(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.store, "store", opts.store, "session store: memory, file, redis, mongo")
	cmd.Flags().StringVar(&opts.sessionID, "session", "", "resume a stored session by ID")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", opts.redisURL, "redis URL for --store redis")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", opts.mongoURI, "mongo URI for --store mongo")
	cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", 0, "expire idle redis sessions (0 keeps them)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, opts serveOpts) error {
	logger := loggerFromContext(ctx)
	if input == "" && opts.sessionID == "" {
		return perrors.New(perrors.ErrCodeInvalidInput, "pass a graph file or --session")
	}

	store, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	sess, err := openSession(ctx, runner, store, input, opts.sessionID)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, sess); err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Session: sess,
		Store:   store,
		Runner:  runner,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	printSuccess("Serving session %s", sess.ID)
	printKeyValue("Address", "http://"+displayAddr(opts.addr))
	printKeyValue("Store", opts.store)
	printKeyValue("Revision", strconv.FormatUint(sess.Revision(), 10))

	return srv.ListenAndServe(ctx, opts.addr)
}

// openSession resumes a stored session or starts one from a graph file.
func openSession(ctx context.Context, runner *pipeline.Runner, store session.Store, input, id string) (*session.Session, error) {
	if id != "" {
		if err := session.ValidateID(id); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "session %q", id)
		}
		sess, err := store.Get(ctx, id)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeNotFound, err, "session %s", id)
		}
		return sess, nil
	}
	g, err := runner.Load(ctx, pipeline.Options{GraphPath: input})
	if err != nil {
		return nil, err
	}
	return session.New(g), nil
}

// openStore connects the session store named by opts.store.
func openStore(ctx context.Context, opts serveOpts) (session.Store, error) {
	switch opts.store {
	case storeMemory:
		return session.NewMemoryStore(), nil
	case storeFile:
		return session.NewFileStore("")
	case storeRedis:
		if opts.redisURL == "" {
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "--store redis needs --redis-url or $%s", envRedisURL)
		}
		ctx, cancel := context.WithTimeout(ctx, storeConnectTimeout)
		defer cancel()
		return session.NewRedisStore(ctx, opts.redisURL, opts.sessionTTL)
	case storeMongo:
		if opts.mongoURI == "" {
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "--store mongo needs --mongo-uri or $%s", envMongoURI)
		}
		ctx, cancel := context.WithTimeout(ctx, storeConnectTimeout)
		defer cancel()
		return session.NewMongoStore(ctx, opts.mongoURI)
	}
	return nil, perrors.New(perrors.ErrCodeInvalidInput,
		"invalid store: %s (must be 'memory', 'file', 'redis' or 'mongo')", opts.store)
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
