package eval

import (
	"slices"
	"time"

	"github.com/matzehuels/pixelgraph/pkg/raster"
)

// Outputs maps every node ID to its buffer. A nil value means the node has
// no output.
type Outputs map[string]*raster.Buffer

// Result is the full outcome of one evaluation.
type Result struct {
	Outputs  Outputs
	Failures map[string]error // node ID -> why it produced no output
	Stalled  []string         // nodes never evaluated, in node order
	Passes   int
	Duration time.Duration
}

// Status summarises what happened to a single node.
type Status string

const (
	// StatusOK means the node produced a buffer.
	StatusOK Status = "ok"
	// StatusEmpty means the node ran but had nothing to produce, such as a
	// combine or display node whose inputs are all absent.
	StatusEmpty Status = "empty"
	// StatusFailed means the node's params or kernel failed.
	StatusFailed Status = "failed"
	// StatusStalled means the node never became ready (cycle or dangling edge).
	StatusStalled Status = "stalled"
	// StatusUnknown is returned for IDs that were not part of the evaluation.
	StatusUnknown Status = "unknown"
)

// Status reports the outcome for node id.
func (r *Result) Status(id string) Status {
	buf, ok := r.Outputs[id]
	switch {
	case !ok:
		return StatusUnknown
	case r.Failures[id] != nil:
		return StatusFailed
	case slices.Contains(r.Stalled, id):
		return StatusStalled
	case buf == nil:
		return StatusEmpty
	}
	return StatusOK
}

// Err returns the failure recorded for id, or nil.
func (r *Result) Err(id string) error { return r.Failures[id] }

// Produced returns the number of nodes with a non-nil buffer.
func (r *Result) Produced() int {
	n := 0
	for _, b := range r.Outputs {
		if b != nil {
			n++
		}
	}
	return n
}
