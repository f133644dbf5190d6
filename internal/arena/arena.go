// Package arena implements the scoped-resource substrate used by the core:
// a hierarchical context tree where freeing a root releases the whole
// subtree, running deferred actions in registration order before any raw
// allocations are released.
package arena

import "github.com/aledsdavies/opal/internal/invariant"

// Action is a deferred callback registered against a Context, run with its
// associated data when the context (or an ancestor) is freed.
type Action func(data any)

type deferred struct {
	fn   Action
	data any
}

// Context is a node in the scoped arena. The zero value is not usable; use
// New or NewChild.
type Context struct {
	parent   *Context
	children []*Context
	deferred []deferred
	freed    bool
}

// New allocates a root context with no parent.
func New() *Context {
	return &Context{}
}

// NewChild allocates a context whose lifetime is bound to parent: parent's
// teardown reclaims it. Registering against a nil parent is a no-op for the
// caller that wants to "leak on purpose" — NewChild(nil) simply returns a
// fresh root.
func NewChild(parent *Context) *Context {
	child := &Context{parent: parent}
	if parent == nil {
		return child
	}
	invariant.Precondition(!parent.freed, "cannot create child of a freed context")
	parent.children = append(parent.children, child)
	return child
}

// RegisterAction enqueues fn(data) to run when ctx is freed. Registering
// against a nil context is a no-op.
func (ctx *Context) RegisterAction(fn Action, data any) {
	if ctx == nil {
		return
	}
	invariant.Precondition(!ctx.freed, "cannot register against a freed context")
	invariant.NotNil(fn, "fn")
	ctx.deferred = append(ctx.deferred, deferred{fn: fn, data: data})
}

// RegisterFree is shorthand for registering a release callback against a
// single resource, mirroring halloc's "register a free-style release".
func (ctx *Context) RegisterFree(release func(), resource any) {
	ctx.RegisterAction(func(any) { release() }, resource)
}

// Free runs this context's deferred actions in registration order, then
// recursively frees every child (in registration order), then marks this
// context freed. Only root contexts are meant to be freed explicitly —
// freeing a non-root is permitted (it does not panic) but leaves the parent
// holding a stale child pointer, so callers should free from the root.
// Freeing a nil context, or a context already freed, is a no-op.
func Free(ctx *Context) {
	if ctx == nil || ctx.freed {
		return
	}
	for _, d := range ctx.deferred {
		d.fn(d.data)
	}
	for _, child := range ctx.children {
		Free(child)
	}
	ctx.deferred = nil
	ctx.children = nil
	ctx.freed = true
}

// IsFreed reports whether ctx has already been freed.
func (ctx *Context) IsFreed() bool {
	return ctx == nil || ctx.freed
}
