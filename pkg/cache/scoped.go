package cache

// ScopedKeyer wraps a Keyer with a prefix so several services can share
// one backend without colliding.
//
// Example usage:
//
//	// Keys written by the HTTP API
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
//
//	// Keys written by the CLI
//	cliKeyer := NewDefaultKeyer()
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

// ReportKey generates a prefixed key for report caching.
func (k *ScopedKeyer) ReportKey(boardDigest, corp string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(boardDigest, corp, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(boardDigest, corp string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(boardDigest, corp, opts)
}
