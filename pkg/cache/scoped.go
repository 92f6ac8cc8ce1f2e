package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The preview server uses it to keep artifacts of different sessions apart
// when several share one Redis instance.
//
// Example usage:
//
//	sessionKeyer := NewScopedKeyer(NewDefaultKeyer(), "session:"+id+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GraphKey generates a prefixed key for decoded graph caching.
func (k *ScopedKeyer) GraphKey(sourceHash string) string {
	return k.prefix + k.inner.GraphKey(sourceHash)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
