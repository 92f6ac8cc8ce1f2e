package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	perrors "github.com/matzehuels/pixelgraph/pkg/errors"
	"github.com/matzehuels/pixelgraph/pkg/eval"
	"github.com/matzehuels/pixelgraph/pkg/graph"
	pgio "github.com/matzehuels/pixelgraph/pkg/io"
	"github.com/matzehuels/pixelgraph/pkg/pipeline"
	"github.com/matzehuels/pixelgraph/pkg/render/nodelink"
	"github.com/matzehuels/pixelgraph/pkg/session"
)

// maxBodyBytes bounds request bodies for node, edge and params payloads.
const maxBodyBytes = 1 << 20

// =============================================================================
// Reads
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Revision(), map[string]any{
		"status":   "ok",
		"session":  s.sess.ID,
		"revision": s.sess.Revision(),
	})
}

type graphResponse struct {
	Session  string          `json:"session"`
	Revision uint64          `json:"revision"`
	Graph    json.RawMessage `json:"graph"`
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g, rev := s.sess.Graph()
	data, err := pgio.MarshalJSON(g)
	if err != nil {
		s.writeError(w, r, rev, err)
		return
	}
	writeJSON(w, http.StatusOK, rev, graphResponse{Session: s.sess.ID, Revision: rev, Graph: data})
}

func (s *Server) handleGraphSVG(w http.ResponseWriter, r *http.Request) {
	g, rev := s.sess.Graph()
	res := eval.Run(g.Nodes(), g.Edges(), eval.WithContext(r.Context()), eval.WithLogger(s.logger))
	svg, err := nodelink.RenderSVG(nodelink.ToDOT(g, res.Outputs, nodelink.Options{Detailed: true}))
	if err != nil {
		s.writeError(w, r, rev, perrors.Wrap(perrors.ErrCodeInternal, err, "render diagram"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	setRevision(w, rev)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

type nodeStatus struct {
	ID     string      `json:"id"`
	Kind   string      `json:"kind"`
	Status eval.Status `json:"status"`
	Width  int         `json:"width,omitempty"`
	Height int         `json:"height,omitempty"`
	Error  string      `json:"error,omitempty"`
	Code   string      `json:"code,omitempty"`
}

type outputsResponse struct {
	Revision uint64       `json:"revision"`
	Passes   int          `json:"passes"`
	Nodes    []nodeStatus `json:"nodes"`
}

func (s *Server) handleOutputs(w http.ResponseWriter, r *http.Request) {
	nodes, edges, rev := s.sess.Snapshot()
	res := eval.Run(nodes, edges, eval.WithContext(r.Context()), eval.WithLogger(s.logger))

	out := outputsResponse{Revision: rev, Passes: res.Passes, Nodes: make([]nodeStatus, 0, len(nodes))}
	for _, n := range nodes {
		st := nodeStatus{ID: n.ID, Kind: string(n.Kind()), Status: res.Status(n.ID)}
		if buf := res.Outputs[n.ID]; buf != nil {
			st.Width, st.Height = buf.Width, buf.Height
		}
		if err := res.Err(n.ID); err != nil {
			st.Error = perrors.UserMessage(err)
			st.Code = string(perrors.GetCode(err))
		}
		out.Nodes = append(out.Nodes, st)
	}
	writeJSON(w, http.StatusOK, rev, out)
}

// handleNodePNG serves GET /nodes/{id}.png.
func (s *Server) handleNodePNG(w http.ResponseWriter, r *http.Request) {
	id, ok := strings.CutSuffix(chi.URLParam(r, "file"), ".png")
	if !ok || id == "" {
		s.writeError(w, r, s.sess.Revision(), perrors.New(perrors.ErrCodeNotFound, "no such resource %q", chi.URLParam(r, "file")))
		return
	}
	scale := pipeline.DefaultScale
	if raw := r.URL.Query().Get("scale"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.writeError(w, r, s.sess.Revision(), perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid scale %q", raw))
			return
		}
		scale = v
	}

	g, rev := s.sess.Graph()
	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Graph:   g,
		Targets: []string{id},
		Scale:   scale,
		Logger:  s.logger,
	})
	if err != nil {
		s.writeError(w, r, rev, err)
		return
	}
	data, ok := res.Artifacts[id]
	if !ok {
		err := perrors.New(perrors.ErrCodeNotFound, "node %s has no output", id)
		if ferr := res.Eval.Err(id); ferr != nil {
			err = perrors.New(perrors.ErrCodeNotFound, "node %s has no output: %s", id, perrors.UserMessage(ferr))
		}
		s.writeError(w, r, rev, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	setRevision(w, rev)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Mutations
// =============================================================================

type mutationResponse struct {
	ID       string `json:"id,omitempty"`
	Revision uint64 `json:"revision"`
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	n, err := pgio.DecodeNode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, s.sess.Revision(), err)
		return
	}
	if n.ID == "" {
		n.ID = session.NewNodeID(n.Kind())
	}
	rev, err := s.sess.AddNode(n)
	if err != nil {
		s.writeError(w, r, rev, err)
		return
	}
	s.persist(r)
	writeJSON(w, http.StatusCreated, rev, mutationResponse{ID: n.ID, Revision: rev})
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "file")
	rev, err := s.sess.RemoveNode(id)
	if err != nil {
		s.writeError(w, r, rev, err)
		return
	}
	s.persist(r)
	writeJSON(w, http.StatusOK, rev, mutationResponse{ID: id, Revision: rev})
}

func (s *Server) handleSetParams(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "file")
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, s.sess.Revision(), perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	rev, err := s.sess.PatchParams(id, func(cur graph.Params) (graph.Params, error) {
		return pgio.PatchParams(cur, bytes.NewReader(body))
	})
	if err != nil {
		s.writeError(w, r, rev, err)
		return
	}
	s.persist(r)
	writeJSON(w, http.StatusOK, rev, mutationResponse{ID: id, Revision: rev})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	e, err := pgio.DecodeEdge(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, s.sess.Revision(), err)
		return
	}
	if e.ID == "" {
		e.ID = session.NewEdgeID()
	}
	rev, err := s.sess.Connect(e)
	if err != nil {
		s.writeError(w, r, rev, err)
		return
	}
	s.persist(r)
	writeJSON(w, http.StatusCreated, rev, mutationResponse{ID: e.ID, Revision: rev})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rev, err := s.sess.Disconnect(id)
	if err != nil {
		s.writeError(w, r, rev, err)
		return
	}
	s.persist(r)
	writeJSON(w, http.StatusOK, rev, mutationResponse{ID: id, Revision: rev})
}

// persist saves the session after a successful mutation. A store failure
// is logged, not returned: the edit has already been applied in memory.
func (s *Server) persist(r *http.Request) {
	if s.store == nil {
		return
	}
	if err := s.store.Set(r.Context(), s.sess); err != nil {
		s.logger.Warn("failed to persist session", "session", s.sess.ID, "error", err)
	}
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, rev uint64, err error) {
	status := perrors.HTTPStatus(err)
	code := perrors.GetCode(err)
	if code == "" {
		code = perrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, rev, errorResponse{Error: perrors.UserMessage(err), Code: string(code)})
}

func writeJSON(w http.ResponseWriter, status int, rev uint64, v any) {
	w.Header().Set("Content-Type", "application/json")
	setRevision(w, rev)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func setRevision(w http.ResponseWriter, rev uint64) {
	w.Header().Set(RevisionHeader, strconv.FormatUint(rev, 10))
}
