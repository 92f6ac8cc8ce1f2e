// Package session provides editing sessions over a pixelgraph graph.
//
// A [Session] owns one graph and a revision counter. Every successful
// command (add or remove a node, connect or disconnect an edge, replace a
// node's params) bumps the revision by exactly one. Consumers never get
// callbacks: they poll the revision and re-evaluate a snapshot when it has
// moved, which is how the preview server and the watch view stay current.
//
// # Storage
//
// Sessions can be persisted through a [Store]:
//   - [MemoryStore]: in-process map for tests and single-instance servers
//   - [FileStore]: one JSON file per session for CLI use
//   - [RedisStore]: shared storage for multi-instance servers
//   - [MongoStore]: one document per session
//
// Stores exchange [Record] values, which carry the graph in its canonical
// JSON encoding.
//
// # Usage
//
//	s := session.New(g)
//	rev, err := s.SetParams("bg", graph.SolidParams{Width: 64, Height: 64, Color: raster.White})
//	if err != nil {
//	    return err
//	}
//	res, rev := s.Evaluate()
//	_ = store.Set(ctx, s)
package session

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/eval"
	"github.com/matzehuels/pixelgraph/pkg/graph"
	pgio "github.com/matzehuels/pixelgraph/pkg/io"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidID is returned for session IDs that are not UUIDs.
	ErrInvalidID = errors.New("invalid session id")
)

// Session is a mutable graph with a revision counter.
// It is safe for concurrent use.
type Session struct {
	// ID is a random UUID assigned at creation.
	ID string

	mu        sync.RWMutex
	graph     *graph.Graph
	revision  uint64
	updatedAt time.Time
}

// New creates a session holding a copy of g. A nil g starts empty.
func New(g *graph.Graph) *Session {
	if g == nil {
		g = graph.New()
	} else {
		g = g.Clone()
	}
	return &Session{
		ID:        uuid.NewString(),
		graph:     g,
		updatedAt: time.Now().UTC(),
	}
}

// ValidateID checks that id looks like a session ID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// NewNodeID returns a fresh node ID prefixed with the kind, e.g.
// "perlin-1b9d6bcd".
func NewNodeID(kind graph.Kind) string {
	return string(kind) + "-" + shortID()
}

// NewEdgeID returns a fresh edge ID.
func NewEdgeID() string { return "e-" + shortID() }

func shortID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// =============================================================================
// Reads
// =============================================================================

// Revision returns the current revision. It starts at 0.
func (s *Session) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// UpdatedAt returns the time of the last successful command.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Graph returns a copy of the current graph and its revision.
func (s *Session) Graph() (*graph.Graph, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.Clone(), s.revision
}

// Snapshot returns copies of the node and edge lists with their revision.
func (s *Session) Snapshot() ([]graph.Node, []graph.Edge, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nodes, edges := s.graph.Snapshot()
	return nodes, edges, s.revision
}

// Evaluate evaluates a snapshot of the graph. The lock is not held while
// evaluating, so commands issued meanwhile produce a newer revision rather
// than blocking.
func (s *Session) Evaluate(opts ...eval.Option) (*eval.Result, uint64) {
	nodes, edges, rev := s.Snapshot()
	return eval.Run(nodes, edges, opts...), rev
}

// =============================================================================
// Commands
// =============================================================================

// AddNode appends n. An empty n.ID is replaced with [NewNodeID].
func (s *Session) AddNode(n graph.Node) (uint64, error) {
	if n.ID == "" && n.Params != nil {
		n.ID = NewNodeID(n.Kind())
	}
	if n.ID != "" {
		if err := perrors.ValidateID(n.ID); err != nil {
			return s.Revision(), err
		}
	}
	return s.apply(func(g *graph.Graph) error {
		return wrap(g.AddNode(n), "add node %s", n.ID)
	})
}

// RemoveNode deletes the node and every edge touching it.
func (s *Session) RemoveNode(id string) (uint64, error) {
	return s.apply(func(g *graph.Graph) error {
		_, err := g.RemoveNode(id)
		return wrap(err, "remove node %s", id)
	})
}

// Connect adds an edge. An empty e.ID is replaced with [NewEdgeID].
func (s *Session) Connect(e graph.Edge) (uint64, error) {
	if e.ID == "" {
		e.ID = NewEdgeID()
	}
	if err := perrors.ValidateID(e.ID); err != nil {
		return s.Revision(), err
	}
	return s.apply(func(g *graph.Graph) error {
		return wrap(g.AddEdge(e), "connect %s", e.ID)
	})
}

// Disconnect removes the edge with the given ID.
func (s *Session) Disconnect(edgeID string) (uint64, error) {
	return s.apply(func(g *graph.Graph) error {
		_, err := g.RemoveEdge(edgeID)
		return wrap(err, "disconnect %s", edgeID)
	})
}

// SetParams replaces the params of node id. The kind cannot change.
// Params are not validated here: invalid values surface as a failure of
// that node when the session is evaluated.
func (s *Session) SetParams(id string, p graph.Params) (uint64, error) {
	return s.apply(func(g *graph.Graph) error {
		_, err := g.UpdateParams(id, p)
		return wrap(err, "set params %s", id)
	})
}

// PatchParams replaces the params of node id with fn's result. fn receives
// the current params and runs under the session lock, so concurrent patches
// of one node never lose each other's fields. An error from fn is returned
// unchanged and leaves the revision alone.
func (s *Session) PatchParams(id string, fn func(graph.Params) (graph.Params, error)) (uint64, error) {
	return s.apply(func(g *graph.Graph) error {
		n, ok := g.Node(id)
		if !ok {
			return wrap(graph.ErrNodeNotFound, "set params %s", id)
		}
		p, err := fn(n.Params)
		if err != nil {
			return err
		}
		_, err = g.UpdateParams(id, p)
		return wrap(err, "set params %s", id)
	})
}

// Replace swaps in a copy of g, e.g. after the backing file changed.
func (s *Session) Replace(g *graph.Graph) uint64 {
	rev, _ := s.apply(func(cur *graph.Graph) error {
		*cur = *g.Clone()
		return nil
	})
	return rev
}

// apply runs fn on the live graph under the write lock and bumps the
// revision when fn succeeds.
func (s *Session) apply(fn func(*graph.Graph) error) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.graph); err != nil {
		return s.revision, err
	}
	s.revision++
	s.updatedAt = time.Now().UTC()
	return s.revision, nil
}

// wrap attaches an error code to graph sentinel errors.
func wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	code := perrors.ErrCodeInvalidGraph
	if errors.Is(err, graph.ErrNodeNotFound) || errors.Is(err, graph.ErrEdgeNotFound) {
		code = perrors.ErrCodeNotFound
	}
	return perrors.Wrap(code, err, format, args...)
}

// =============================================================================
// Persistence
// =============================================================================

// Record is the storable form of a session.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Revision  uint64    `json:"revision" bson:"revision"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	Graph     string    `json:"graph" bson:"graph"` // canonical JSON graph document
}

// Record captures the current state for storage.
func (s *Session) Record() (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := pgio.MarshalJSON(s.graph)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", s.ID, err)
	}
	return &Record{
		ID:        s.ID,
		Revision:  s.revision,
		UpdatedAt: s.updatedAt,
		Graph:     string(data),
	}, nil
}

// FromRecord rebuilds a session from storage.
func FromRecord(rec *Record) (*Session, error) {
	if err := ValidateID(rec.ID); err != nil {
		return nil, err
	}
	g, err := pgio.ReadJSON(bytes.NewReader([]byte(rec.Graph)))
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", rec.ID, err)
	}
	return &Session{
		ID:        rec.ID,
		graph:     g,
		revision:  rec.Revision,
		updatedAt: rec.UpdatedAt,
	}, nil
}
