package cache

// ScopedKeyer wraps a Keyer with a prefix, giving each tenant or
// environment its own namespace in a shared cache.
//
//	ci := NewScopedKeyer(NewDefaultKeyer(), "ci:")
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

// ResultKey generates a prefixed result key.
func (k *ScopedKeyer) ResultKey(instanceHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(instanceHash, opts)
}

// BoundsKey generates a prefixed bounds key.
func (k *ScopedKeyer) BoundsKey(instanceHash string, rotation bool) string {
	return k.prefix + k.inner.BoundsKey(instanceHash, rotation)
}
