package ast

import "github.com/jexlang/jexl/internal/scope"

// Identifier is a bare name reference. If Resolved is true, Symbol names a
// frame slot (parameter/local/capture); otherwise the name is looked up in
// the Context at run time (spec.md §3 References: Identifier; §4.4
// invariant).
type Identifier struct {
	Base
	Name     string
	Resolved bool
	Symbol   scope.Symbol
	Flags    IdentFlags
}

func (n *Identifier) Children() []Node { return nil }

// VarDecl is a `var x` (optionally `= init`) declaration.
type VarDecl struct {
	Base
	Name   string
	Symbol scope.Symbol
	Init   Node // nil if no initializer
}

func (n *VarDecl) Children() []Node {
	if n.Init == nil {
		return nil
	}
	return []Node{n.Init}
}

// This is the `this` reference.
type This struct{ Base }

func (n *This) Children() []Node { return nil }

// Reference is a dotted/bracket access chain: Target.Name or Target[Key]
// when Key != nil (bracket form, which also drives ArrayAccess for pure
// integer indices).
type Reference struct {
	Base
	Target Node
	Name   string // property name when accessed via dot or string-literal bracket
	Key    Node   // non-nil for `target[expr]`; Name is "" in that case
	Safe   bool   // this hop was reached via `?.`
}

func (n *Reference) Children() []Node {
	if n.Key != nil {
		return []Node{n.Target, n.Key}
	}
	return []Node{n.Target}
}

// ArrayAccess is `target[index]` specialized for integer/array-like
// indexing (spec.md §4.3 property_get rule 2).
type ArrayAccess struct {
	Base
	Target Node
	Index  Node
}

func (n *ArrayAccess) Children() []Node { return []Node{n.Target, n.Index} }

// MethodCall is `target.name(args...)`.
type MethodCall struct {
	Base
	Target Node
	Name   string
	Args   []Node
	Safe   bool
}

func (n *MethodCall) Children() []Node {
	out := make([]Node, 0, len(n.Args)+1)
	out = append(out, n.Target)
	out = append(out, n.Args...)
	return out
}

// FunctionCall is a bare `name(args...)` or `ns:name(args...)` namespace
// call.
type FunctionCall struct {
	Base
	Namespace string // "" unless this is a namespace function call
	Name      string
	Args      []Node
}

func (n *FunctionCall) Children() []Node { return n.Args }

// ConstructorCall is `new Name(args...)` / `Engine.new_instance`.
type ConstructorCall struct {
	Base
	ClassName string
	Args      []Node
}

func (n *ConstructorCall) Children() []Node { return n.Args }

// IndirectCall invokes a Callable value produced by some expression:
// `expr(args...)`.
type IndirectCall struct {
	Base
	Callee Node
	Args   []Node
}

func (n *IndirectCall) Children() []Node {
	out := make([]Node, 0, len(n.Args)+1)
	out = append(out, n.Callee)
	out = append(out, n.Args...)
	return out
}
