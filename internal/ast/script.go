package ast

import "github.com/jexlang/jexl/internal/scope"

// Param is a single declared script/lambda parameter.
type Param struct {
	Name    string
	Symbol  scope.Symbol
	Varargs bool // spec.md §4.5 "Vararg parameters"
}

// JexlScript is the parsed root of every Expression/Script (spec.md §3
// "Script: JexlScript (root; may be a Lambda with parameters)"). A
// top-level script has no Params; a lambda expression evaluates to a
// Closure wrapping one of these.
type JexlScript struct {
	Base
	Params []Param
	Body   []Node
	Scope  *scope.Scope
	Source string
}

func (n *JexlScript) Children() []Node { return n.Body }

// Lambda is a `(params) -> body` or `name -> body` function literal
// (spec.md §4.4 "Lambdas and closures"); it evaluates to a Closure value
// capturing the enclosing Frame for its capture slots.
type Lambda struct {
	Base
	Params []Param
	Body   []Node
	Scope  *scope.Scope
}

func (n *Lambda) Children() []Node { return n.Body }

// Ambiguous is the error sentinel the parser emits when it detects a
// missing `;` (spec.md §3, §6, §7 AmbiguousStatement); the engine re-raises
// it as ParsingError with source coordinates.
type Ambiguous struct {
	Base
	Reason string
}

func (n *Ambiguous) Children() []Node { return nil }
