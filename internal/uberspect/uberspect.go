// Package uberspect implements C3: the single surface the interpreter uses
// to read/write properties and invoke methods on host objects, built atop
// the C2 Introspector's cached reflection (spec.md §4.3). Grounded on
// funxy's host_access.go reflect-dispatch pattern and yaegi's interp.go
// method/field lookup, generalized to the Map→index→bean→field→duck→
// IndexedContainer precedence chain spec.md §4.3 specifies (resolving the
// Open Question in favor of bean getters before IndexedContainer, since
// that matches every host-object example in the pack).
package uberspect

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/jexlang/jexl/internal/introspect"
	"github.com/jexlang/jexl/internal/values"
)

// Uberspect is the C3 service. It is safe for concurrent use.
type Uberspect struct {
	ins *introspect.Introspector
}

// New builds an Uberspect atop the given Introspector.
func New(ins *introspect.Introspector) *Uberspect {
	return &Uberspect{ins: ins}
}

// Introspector exposes the underlying C2 service, e.g. so the interpreter
// can snapshot its version counter for cache invalidation.
func (u *Uberspect) Introspector() *introspect.Introspector { return u.ins }

// NotFoundError signals that no property/method/field was resolvable; the
// interpreter maps it to spec.md §7's PropertyError/MethodError depending
// on the operation that raised it.
type NotFoundError struct {
	Kind string // "property", "method", "constructor"
	Name string
	On   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no such %s %q on %s", e.Kind, e.Name, e.On)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// PropertyGet implements spec.md §4.3's get-property precedence: Map →
// List/array integer index → bean getter → public field → duck get(key) →
// IndexedContainer.
func (u *Uberspect) PropertyGet(obj values.Value, key values.Value) (values.Value, error) {
	switch o := obj.(type) {
	case *values.Map:
		v, ok := o.Get(key)
		if !ok {
			return values.NULL, nil
		}
		return v, nil
	case *values.Set:
		if o.Contains(key) {
			return values.Bool(true), nil
		}
		return values.Bool(false), nil
	case values.Array:
		idx, ok := asIndex(key)
		if !ok {
			return nil, &NotFoundError{Kind: "property", Name: key.String(), On: "array"}
		}
		if idx < 0 || idx >= len(o.Elems) {
			return nil, fmt.Errorf("array index %d out of bounds (length %d)", idx, len(o.Elems))
		}
		return o.Elems[idx], nil
	case values.Str:
		idx, ok := asIndex(key)
		if ok {
			r := []rune(string(o))
			if idx < 0 || idx >= len(r) {
				return nil, fmt.Errorf("string index %d out of bounds", idx)
			}
			return values.Str(string(r[idx])), nil
		}
	case values.Object:
		return u.hostGet(o, key)
	}
	return nil, &NotFoundError{Kind: "property", Name: key.String(), On: obj.Kind().String()}
}

func asIndex(key values.Value) (int, bool) {
	switch k := key.(type) {
	case values.Int64:
		return int(k), true
	case values.BigInt:
		return int(k.V.Int64()), true
	}
	return 0, false
}

// PropertyByName lets a host object short-circuit the bean/field/duck
// resolution chain below with its own lookup — the hook internal/namespace's
// sql Row and grpc ProtoMessage adapters use, since neither is a plain Go
// struct with per-column/per-field members to reflect over.
type PropertyByName interface {
	JexlProperty(name string) (values.Value, bool)
}

func (u *Uberspect) hostGet(o values.Object, key values.Value) (values.Value, error) {
	name := values.ToGoString(key)
	if pn, ok := o.Native.(PropertyByName); ok {
		if v, found := pn.JexlProperty(name); found {
			return v, nil
		}
		return nil, &NotFoundError{Kind: "property", Name: name, On: fmt.Sprintf("%T", o.Native)}
	}
	rv := reflect.ValueOf(o.Native)

	// bean getter: getName()/isName() with no arguments.
	for _, prefix := range []string{"Get", "Is"} {
		if m, err := u.ins.GetMethod(rv, prefix+capitalize(name), nil); err == nil && m != nil && m.NumOut >= 1 {
			return u.invokeGo(rv, m, nil)
		}
	}
	// public field.
	if f, ok := u.ins.GetField(rv, capitalize(name)); ok {
		fv := reflect.Indirect(rv).FieldByIndex(f.Go.Index)
		return goToValue(fv.Interface())
	}
	// duck typing: Get(key) method.
	if m, err := u.ins.GetMethod(rv, "Get", []reflect.Value{reflect.ValueOf(name)}); err == nil && m != nil {
		return u.invokeGo(rv, m, []reflect.Value{reflect.ValueOf(name)})
	}
	// IndexedContainer: integer index into a slice/array-typed host object.
	if idx, ok := asIndex(key); ok {
		elem := reflect.Indirect(rv)
		if elem.Kind() == reflect.Slice || elem.Kind() == reflect.Array {
			if idx < 0 || idx >= elem.Len() {
				return nil, fmt.Errorf("index %d out of bounds (length %d)", idx, elem.Len())
			}
			return goToValue(elem.Index(idx).Interface())
		}
	}
	return nil, &NotFoundError{Kind: "property", Name: name, On: rv.Type().String()}
}

// PropertySet implements spec.md §4.3's set-property precedence, mirroring
// PropertyGet's resolution order.
func (u *Uberspect) PropertySet(obj values.Value, key, val values.Value) error {
	switch o := obj.(type) {
	case *values.Map:
		o.Set(key, val)
		return nil
	case values.Array:
		idx, ok := asIndex(key)
		if !ok || idx < 0 || idx >= len(o.Elems) {
			return fmt.Errorf("array index %v out of bounds", key)
		}
		o.Elems[idx] = val
		return nil
	case values.Object:
		return u.hostSet(o, key, val)
	}
	return &NotFoundError{Kind: "property", Name: key.String(), On: obj.Kind().String()}
}

func (u *Uberspect) hostSet(o values.Object, key, val values.Value) error {
	rv := reflect.ValueOf(o.Native)
	name := values.ToGoString(key)

	av, err := valueToGo(val, nil)
	if err == nil {
		if m, merr := u.ins.GetMethod(rv, "Set"+capitalize(name), []reflect.Value{av}); merr == nil && m != nil {
			_, callErr := u.invokeGo(rv, m, []reflect.Value{av})
			return callErr
		}
	}
	if f, ok := u.ins.GetField(rv, capitalize(name)); ok {
		elem := reflect.Indirect(rv)
		fv := elem.FieldByIndex(f.Go.Index)
		if !fv.CanSet() {
			return fmt.Errorf("field %q is not settable", name)
		}
		gv, err := valueToGo(val, fv.Type())
		if err != nil {
			return err
		}
		fv.Set(gv)
		return nil
	}
	return &NotFoundError{Kind: "property", Name: name, On: rv.Type().String()}
}

// MethodCall resolves and invokes name on obj with the given arguments
// (spec.md §4.3 "method_call").
func (u *Uberspect) MethodCall(obj values.Value, name string, args []values.Value) (values.Value, error) {
	o, ok := obj.(values.Object)
	if !ok {
		return nil, &NotFoundError{Kind: "method", Name: name, On: obj.Kind().String()}
	}
	rv := reflect.ValueOf(o.Native)
	goArgs := make([]reflect.Value, len(args))
	for i, a := range args {
		gv, err := valueToGo(a, nil)
		if err != nil {
			return nil, err
		}
		goArgs[i] = gv
	}
	m, err := u.ins.GetMethod(rv, name, goArgs)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, &NotFoundError{Kind: "method", Name: name, On: rv.Type().String()}
	}
	return u.invokeGo(rv, m, goArgs)
}

func (u *Uberspect) invokeGo(rv reflect.Value, m *introspect.Method, args []reflect.Value) (values.Value, error) {
	recv := rv
	callArgs := append([]reflect.Value{recv}, args...)
	if recv.Kind() != reflect.Ptr && m.Go.Type.In(0).Kind() == reflect.Ptr {
		ptr := reflect.New(recv.Type())
		ptr.Elem().Set(recv)
		callArgs[0] = ptr
	}
	out := m.Func.Call(callArgs)
	return goResultsToValue(out)
}

func goResultsToValue(out []reflect.Value) (values.Value, error) {
	if len(out) == 0 {
		return values.NULL, nil
	}
	last := out[len(out)-1]
	if last.Type().Implements(errType) {
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return values.NULL, nil
	}
	return goToValue(out[0].Interface())
}

var errType = reflect.TypeOf((*error)(nil)).Elem()
