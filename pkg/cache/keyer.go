package cache

import "strconv"

// Keyer builds cache keys.
type Keyer interface {
	// GraphKey returns the key for a decoded graph, given the hash of the
	// source file's bytes.
	GraphKey(sourceHash string) string

	// ArtifactKey returns the key for an encoded node image, given the hash
	// of the graph's canonical encoding.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts identifies one artifact of a graph.
type ArtifactKeyOpts struct {
	NodeID string  `json:"node"`
	Scale  float64 `json:"scale"`
	Format string  `json:"format"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey returns "graph:<sourceHash>".
func (DefaultKeyer) GraphKey(sourceHash string) string {
	return "graph:" + sourceHash
}

// ArtifactKey hashes the graph hash together with opts.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return digest("artifact", graphHash, opts.NodeID, strconv.FormatFloat(opts.Scale, 'g', -1, 64), opts.Format)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
