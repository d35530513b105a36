// Package values implements JEXL's tagged Value model and arithmetic
// (spec.md §3 Data Model "Value", §4.1 C1). Concrete variants are Go types
// implementing the Value interface, the same shape funxy's evaluator.Object
// interface takes (internal/evaluator/object.go) for its own tagged value
// sum.
package values

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Kind tags a Value's variant.
type Kind int

const (
	KNull Kind = iota
	KBool
	KInt64
	KFloat64
	KBigInt
	KBigDec
	KStr
	KArray
	KMap
	KSet
	KObject
	KCallable
)

func (k Kind) String() string {
	switch k {
	case KNull:
		return "Null"
	case KBool:
		return "Bool"
	case KInt64:
		return "Int64"
	case KFloat64:
		return "Float64"
	case KBigInt:
		return "BigInt"
	case KBigDec:
		return "BigDec"
	case KStr:
		return "Str"
	case KArray:
		return "Array"
	case KMap:
		return "Map"
	case KSet:
		return "Set"
	case KObject:
		return "Object"
	case KCallable:
		return "Callable"
	}
	return "?"
}

// Value is the common interface of every JEXL runtime value.
type Value interface {
	Kind() Kind
	String() string
}

// Null is the JEXL null value.
type Null struct{}

func (Null) Kind() Kind     { return KNull }
func (Null) String() string { return "null" }

// NULL is the single shared Null value.
var NULL = Null{}

type Bool bool

func (Bool) Kind() Kind       { return KBool }
func (b Bool) String() string { return fmt.Sprintf("%t", bool(b)) }

type Int64 int64

func (Int64) Kind() Kind       { return KInt64 }
func (i Int64) String() string { return fmt.Sprintf("%d", int64(i)) }

type Float64 float64

func (Float64) Kind() Kind       { return KFloat64 }
func (f Float64) String() string { return strconv64(float64(f)) }

// BigInt is an arbitrary-precision integer (spec.md §3 widening lattice
// Int→BigInt). math/big is the stdlib representation; no example repo in
// the retrieval pack provides an arbitrary-precision numeric library, so
// this one component of C1 is grounded on the standard library by
// necessity (see DESIGN.md).
type BigInt struct{ V *big.Int }

func (BigInt) Kind() Kind       { return KBigInt }
func (b BigInt) String() string { return b.V.String() }

type Str string

func (Str) Kind() Kind       { return KStr }
func (s Str) String() string { return string(s) }

// Array is an ordered sequence of Values.
type Array struct{ Elems []Value }

func (Array) Kind() Kind { return KArray }
func (a Array) String() string {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Map is an insertion-ordered Value→Value mapping (spec.md §5 ordering
// guarantees: "map and set literals preserve insertion order").
type Map struct {
	keys   []Value
	values map[string]Value
	hashes map[string]Value // hash key -> original key (for keys that aren't strings)
}

func NewMap() *Map {
	return &Map{values: make(map[string]Value), hashes: make(map[string]Value)}
}

func (*Map) Kind() Kind { return KMap }

func hashKey(v Value) string {
	return v.Kind().String() + ":" + v.String()
}

func (m *Map) Set(k, v Value) {
	hk := hashKey(k)
	if _, ok := m.values[hk]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[hk] = v
	m.hashes[hk] = k
}

func (m *Map) Get(k Value) (Value, bool) {
	v, ok := m.values[hashKey(k)]
	return v, ok
}

func (m *Map) Delete(k Value) {
	hk := hashKey(k)
	if _, ok := m.values[hk]; !ok {
		return
	}
	delete(m.values, hk)
	delete(m.hashes, hk)
	for i, existing := range m.keys {
		if hashKey(existing) == hk {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *Map) Keys() []Value { return m.keys }

func (m *Map) Len() int { return len(m.keys) }

func (m *Map) String() string {
	parts := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		v, _ := m.Get(k)
		parts = append(parts, k.String()+": "+v.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Set is an insertion-ordered collection of distinct Values.
type Set struct {
	elems []Value
	seen  map[string]bool
}

func NewSet() *Set { return &Set{seen: make(map[string]bool)} }

func (*Set) Kind() Kind { return KSet }

func (s *Set) Add(v Value) {
	hk := hashKey(v)
	if s.seen[hk] {
		return
	}
	s.seen[hk] = true
	s.elems = append(s.elems, v)
}

func (s *Set) Contains(v Value) bool { return s.seen[hashKey(v)] }

func (s *Set) Elements() []Value { return s.elems }

func (s *Set) Len() int { return len(s.elems) }

func (s *Set) String() string {
	parts := make([]string, len(s.elems))
	for i, e := range s.elems {
		parts[i] = e.String()
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}

// Object wraps an opaque host handle (spec.md §3 "Object(opaque host
// handle)"). Native holds whatever the embedding host produced; the
// uberspect package is what knows how to introspect it.
type Object struct{ Native interface{} }

func (Object) Kind() Kind { return KObject }
func (o Object) String() string {
	if o.Native == nil {
		return "<object:nil>"
	}
	return fmt.Sprintf("<object:%T %v>", o.Native, o.Native)
}

// Callable wraps a script handle — a Closure or host function value
// (spec.md §3 "Callable(script handle)"). The concrete type is supplied by
// the interp package (Closure); values only needs the marker interface.
type Callable interface {
	Value
	Call(args []Value) (Value, error)
}
