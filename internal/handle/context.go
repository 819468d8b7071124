// Package handle provides row accessors over the core engine: unchecked
// handles that delegate directly, checked handles that add type dispatch
// guards, and a Context that tracks every issued native reference so it can
// be invalidated when the backing version is torn down.
package handle

import (
	"errors"
	"sync"
)

// ErrStaleHandle is returned by any operation on a handle issued before the
// context's last invalidation. Failing fast here is what keeps a stale handle
// from ever touching reclaimed rows.
var ErrStaleHandle = errors.New("stale handle: context has been invalidated")

// RefKind tags the kind of native object a reference tracks.
type RefKind int

const (
	RefRow RefKind = iota
	RefLinkView
)

// Reference is one tracked native object. Holding the target keeps the
// backing object reachable until the reference is released and swept.
type Reference struct {
	kind     RefKind
	epoch    uint64
	target   any
	released bool
}

// Kind returns the reference's kind tag.
func (r *Reference) Kind() RefKind {
	return r.kind
}

// Context is the process-wide lifecycle tracker for native references. It
// carries a monotonically increasing epoch; handles record the epoch they
// were issued under and fail with ErrStaleHandle once it advances.
type Context struct {
	mu    sync.Mutex
	epoch uint64
	refs  map[*Reference]struct{}
}

func NewContext() *Context {
	return &Context{refs: make(map[*Reference]struct{})}
}

// Epoch returns the current epoch.
func (c *Context) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// AddReference registers a native object for lifecycle tracking and returns
// its reference, stamped with the current epoch.
func (c *Context) AddReference(kind RefKind, target any) *Reference {
	c.mu.Lock()
	defer c.mu.Unlock()
	ref := &Reference{kind: kind, epoch: c.epoch, target: target}
	c.refs[ref] = struct{}{}
	return ref
}

// Release marks a reference collectible. The reaper removes it on its next
// sweep; the target stays reachable until then.
func (c *Context) Release(ref *Reference) {
	if ref == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ref.released = true
}

// Invalidate advances the epoch. Every handle issued before the call becomes
// stale; their references remain tracked until swept.
func (c *Context) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
}

// Sweep drops released and stale references and returns how many were removed.
func (c *Context) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	swept := 0
	for ref := range c.refs {
		if ref.released || ref.epoch < c.epoch {
			delete(c.refs, ref)
			swept++
		}
	}
	return swept
}

// Live returns the number of tracked references.
func (c *Context) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.refs)
}
