// Package interp implements C5: the tree-walking interpreter, its
// execution Context, Options, and error taxonomy (spec.md §4.5, §6, §7).
// Grounded on funxy's internal/evaluator tree-walking visitor
// (internal/evaluator/eval.go-style switch-over-node-kind dispatch),
// generalized to JEXL's short-circuit/ternary/Elvis/safe-navigation/
// antish/try-catch-finally/cancellable-evaluation semantics.
package interp

import "github.com/jexlang/jexl/internal/values"

// Context is the host-supplied variable namespace a script runs against
// (spec.md §3 "Context"). An antish (dotted) name reaches the Context as
// one whole key such as "a.b.c"; the interpreter builds that key and the
// Context does no splitting of its own.
type Context interface {
	Get(name string) (values.Value, bool)
	Set(name string, v values.Value) error
	Has(name string) bool
}

// MapContext is the common read-write Context backed by a plain map.
type MapContext struct {
	vars map[string]values.Value
}

// NewMapContext builds a MapContext, optionally seeded from initial.
func NewMapContext(initial map[string]values.Value) *MapContext {
	m := &MapContext{vars: make(map[string]values.Value, len(initial))}
	for k, v := range initial {
		m.vars[k] = v
	}
	return m
}

func (c *MapContext) Get(name string) (values.Value, bool) {
	v, ok := c.vars[name]
	return v, ok
}

func (c *MapContext) Set(name string, v values.Value) error {
	c.vars[name] = v
	return nil
}

func (c *MapContext) Has(name string) bool {
	_, ok := c.vars[name]
	return ok
}

// Raw exposes the backing map for callers that need to enumerate it (e.g.
// Engine.get_variables cross-checking which names were actually bound).
func (c *MapContext) Raw() map[string]values.Value { return c.vars }

// ReadonlyContext wraps a Context and rejects every write (spec.md §4.5
// "Context.set fails under a read-only context").
type ReadonlyContext struct {
	Inner Context
}

func NewReadonlyContext(inner Context) *ReadonlyContext {
	return &ReadonlyContext{Inner: inner}
}

func (c *ReadonlyContext) Get(name string) (values.Value, bool) { return c.Inner.Get(name) }
func (c *ReadonlyContext) Has(name string) bool                 { return c.Inner.Has(name) }
func (c *ReadonlyContext) Set(name string, v values.Value) error {
	return &ContextError{Name: name, Reason: "context is read-only"}
}

// ObjectContext adapts a pair of host-supplied functions as a Context,
// letting a host back variables with its own storage instead of building a
// MapContext. No reflection is involved: Get_ answers every lookup (and
// Has), and a nil Set_ makes every assignment fail with a ContextError.
type ObjectContext struct {
	Get_ func(name string) (values.Value, bool)
	Set_ func(name string, v values.Value) error
}

func (c *ObjectContext) Get(name string) (values.Value, bool) { return c.Get_(name) }
func (c *ObjectContext) Has(name string) bool {
	_, ok := c.Get_(name)
	return ok
}
func (c *ObjectContext) Set(name string, v values.Value) error {
	if c.Set_ == nil {
		return &ContextError{Name: name, Reason: "context does not support assignment"}
	}
	return c.Set_(name, v)
}
