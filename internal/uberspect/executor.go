package uberspect

import (
	"reflect"

	"github.com/jexlang/jexl/internal/introspect"
	"github.com/jexlang/jexl/internal/values"
)

// Getter, Setter and Invoker are the executor handles spec.md §4.3 pairs
// with an AST node's ExecutorCache. Each records the operand's runtime
// class (checked by IsCacheable) and its key or method name; Invoke
// dispatches through PropertyGet/PropertySet/MethodCall again, so the
// property or method is resolved anew on every call.
type Getter struct {
	u      *Uberspect
	class  reflect.Type
	key    values.Value
	method *introspect.Method
}

// Setter mirrors Getter for property-write sites.
type Setter struct {
	u     *Uberspect
	class reflect.Type
	key   values.Value
}

// Invoker mirrors Getter for method-call sites. It records the class and
// method name only; the overload is picked from the actual arguments of
// each Invoke.
type Invoker struct {
	u      *Uberspect
	class  reflect.Type
	name   string
	method *introspect.Method
}

// IsCacheable reports whether this executor may be reused for another
// operand, i.e. whether the operand's dynamic type matches what the
// executor was resolved against.
func (g *Getter) IsCacheable(obj values.Value) bool {
	o, ok := obj.(values.Object)
	if !ok {
		return false
	}
	return reflect.TypeOf(o.Native) == g.class
}

// Invoke reads the property through PropertyGet.
func (g *Getter) Invoke(obj values.Value) (values.Value, error) {
	return g.u.PropertyGet(obj, g.key)
}

// TryInvoke attempts Invoke but reports ok=false instead of erroring when
// the operand's class no longer matches (spec.md §4.3 "try_invoke").
func (g *Getter) TryInvoke(obj values.Value) (values.Value, bool, error) {
	if !g.IsCacheable(obj) {
		return nil, false, nil
	}
	v, err := g.Invoke(obj)
	return v, true, err
}

func (s *Setter) IsCacheable(obj values.Value) bool {
	o, ok := obj.(values.Object)
	if !ok {
		return false
	}
	return reflect.TypeOf(o.Native) == s.class
}

func (s *Setter) Invoke(obj, val values.Value) error {
	return s.u.PropertySet(obj, s.key, val)
}

func (inv *Invoker) IsCacheable(obj values.Value) bool {
	o, ok := obj.(values.Object)
	if !ok {
		return false
	}
	return reflect.TypeOf(o.Native) == inv.class
}

func (inv *Invoker) Invoke(obj values.Value, args []values.Value) (values.Value, error) {
	return inv.u.MethodCall(obj, inv.name, args)
}

// MakeGetter builds a Getter for obj.key, recording obj's class so
// IsCacheable can compare later operands against it; nothing is resolved
// until Invoke.
func (u *Uberspect) MakeGetter(obj values.Value, key values.Value) *Getter {
	g := &Getter{u: u, key: key}
	if o, ok := obj.(values.Object); ok {
		g.class = reflect.TypeOf(o.Native)
	}
	return g
}

// MakeSetter builds a cacheable Setter for obj.key.
func (u *Uberspect) MakeSetter(obj values.Value, key values.Value) *Setter {
	s := &Setter{u: u, key: key}
	if o, ok := obj.(values.Object); ok {
		s.class = reflect.TypeOf(o.Native)
	}
	return s
}

// MakeInvoker builds a cacheable Invoker for obj.name(...).
func (u *Uberspect) MakeInvoker(obj values.Value, name string) *Invoker {
	inv := &Invoker{u: u, name: name}
	if o, ok := obj.(values.Object); ok {
		inv.class = reflect.TypeOf(o.Native)
	}
	return inv
}

// Sandbox builds an Uberspect restricted by perms, implementing spec.md
// §4.2/§6's sandbox layer as a thin decorator over a fresh Introspector: the
// interpreter holds the same *Uberspect pointer type whether sandboxed or
// not, and permission checks happen per-lookup in PropertyGet/PropertySet/
// MethodCall via Introspector.AllowMethod/AllowField.
func Sandbox(perms *introspect.Permissions) *Uberspect {
	return New(introspect.New(perms))
}
