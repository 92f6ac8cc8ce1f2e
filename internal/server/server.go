// Package server implements the pixelgraph HTTP preview server.
//
// The server holds one editing session. Reads evaluate a snapshot of the
// current revision; mutations go through session commands, bump the
// revision and are persisted to the configured store.
//
// # Routes
//
//	GET    /healthz              liveness and current revision
//	GET    /graph                graph document plus revision
//	GET    /outputs              per-node evaluation status
//	GET    /graph.svg            node-link diagram of the graph
//	GET    /nodes/{id}.png       PNG of a node's output (?scale=2)
//	POST   /nodes                add a node
//	PUT    /nodes/{id}/params    patch a node's params
//	DELETE /nodes/{id}           remove a node and its edges
//	POST   /edges                connect two nodes
//	DELETE /edges/{id}           remove an edge
//
// Every response carries the revision it was computed from in the
// X-Pixelgraph-Revision header.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pixelgraph/pkg/observability"
	"github.com/matzehuels/pixelgraph/pkg/pipeline"
	"github.com/matzehuels/pixelgraph/pkg/session"
)

// RevisionHeader carries the session revision a response was built from.
const RevisionHeader = "X-Pixelgraph-Revision"

// Config configures a Server.
type Config struct {
	// Session is the session being edited. Required.
	Session *session.Session

	// Store persists the session after every mutation. Optional.
	Store session.Store

	// Runner encodes PNG previews. Defaults to an uncached runner.
	Runner *pipeline.Runner

	// Logger receives request logs. Defaults to a discard logger.
	Logger *log.Logger
}

// Server serves one session over HTTP.
type Server struct {
	sess   *session.Session
	store  session.Store
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router

	httpServer *http.Server
}

// New builds a server and its routes.
func New(cfg Config) (*Server, error) {
	if cfg.Session == nil {
		return nil, errors.New("server: session is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	s := &Server{
		sess:   cfg.Session,
		store:  cfg.Store,
		runner: cfg.Runner,
		logger: cfg.Logger,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/graph", s.handleGraph)
	r.Get("/graph.svg", s.handleGraphSVG)
	r.Get("/outputs", s.handleOutputs)

	r.Route("/nodes", func(r chi.Router) {
		r.Post("/", s.handleAddNode)
		r.Get("/{file}", s.handleNodePNG)
		r.Delete("/{file}", s.handleRemoveNode)
		r.Put("/{file}/params", s.handleSetParams)
	})
	r.Route("/edges", func(r chi.Router) {
		r.Post("/", s.handleConnect)
		r.Delete("/{id}", s.handleDisconnect)
	})
	return r
}

// observe logs each request and reports it to the server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		took := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), took)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", took,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "address", fmt.Sprintf("http://%s", displayAddr(addr)), "session", s.sess.ID)
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down preview server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
