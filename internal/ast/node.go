// Package ast defines the JEXL abstract syntax tree: a labeled tree of
// Nodes, each carrying a kind tag, its children, an optional source image
// (the literal lexeme), optional debug info, and a single-slot evaluator
// cache used by the interpreter to memoize property/method executors
// (spec.md §3 "AST Node").
package ast

import "github.com/jexlang/jexl/internal/scope"

// Kind tags every node with its syntactic category.
type Kind int

const (
	KindProgram Kind = iota

	// literals
	KindIntLit
	KindRealLit
	KindStrLit
	KindRegexLit
	KindNullLit
	KindTrueLit
	KindFalseLit
	KindArrayLit
	KindMapLit
	KindSetLit
	KindRangeLit

	// references
	KindIdentifier
	KindVarDecl
	KindThis
	KindReference
	KindArrayAccess
	KindMethodCall
	KindFunctionCall
	KindConstructorCall
	KindIndirectCall

	// operators
	KindUnary
	KindBinaryArith
	KindBinaryCompare
	KindLogical
	KindBitwise
	KindConcat
	KindRange
	KindInNotIn
	KindShift
	KindRegexMatch
	KindAssign
	KindCompoundAssign

	// control
	KindBlock
	KindIf
	KindWhile
	KindDoWhile
	KindForEach
	KindBreak
	KindContinue
	KindReturn
	KindTernary
	KindNullCoalescing
	KindSafeAccess
	KindTryCatchFinally
	KindThrow

	// script
	KindJexlScript
	KindLambda
	KindAmbiguous
)

// DebugInfo records the source coordinates a node was parsed from.
type DebugInfo struct {
	Line   int
	Column int
	Source string
}

// ExecutorCache is the AST node's single-slot memo for a resolved
// property/method executor (spec.md §4.3, §4.5 "version check"): the class
// it was keyed against, the introspector version snapshot active when it
// was resolved, and the cached executor itself (an uberspect.Getter,
// Setter, or Invoker — stored as interface{} here to avoid an ast->uberspect
// import cycle).
type ExecutorCache struct {
	Class   string
	Version uint64
	Exec    interface{}
}

// Node is the common interface implemented by every AST node.
type Node interface {
	Kind() Kind
	Children() []Node
	Image() string
	Debug() DebugInfo
	IsConstant() bool
	SetConstant(bool)
	Cache() *ExecutorCache
	ClearCache()
}

// Base is embedded by every concrete node type and supplies the fields
// spec.md §3 requires on every AST node.
type Base struct {
	kind     Kind
	image    string
	debug    DebugInfo
	constant bool
	cache    *ExecutorCache
}

func NewBase(kind Kind, image string, debug DebugInfo) Base {
	return Base{kind: kind, image: image, debug: debug}
}

func (b *Base) Kind() Kind             { return b.kind }
func (b *Base) Image() string          { return b.image }
func (b *Base) Debug() DebugInfo       { return b.debug }
func (b *Base) IsConstant() bool       { return b.constant }
func (b *Base) SetConstant(c bool)     { b.constant = c }
func (b *Base) Cache() *ExecutorCache  { return b.cache }
func (b *Base) ClearCache()            { b.cache = nil }
func (b *Base) SetCache(c *ExecutorCache) { b.cache = c }

// ClearCacheTree walks the whole AST and clears every node's executor
// cache. Called by the interpreter when a Script's uberspect-version
// snapshot goes stale (spec.md §4.5 "version check").
func ClearCacheTree(n Node) {
	if n == nil {
		return
	}
	n.ClearCache()
	for _, c := range n.Children() {
		ClearCacheTree(c)
	}
}

// IdentFlags marks properties of a resolved Identifier reference (spec.md
// §3 "Identifier (may carry a resolved symbol index + flags)").
type IdentFlags struct {
	Captured bool
	Lexical  bool
	Shaded   bool
}

// Scope is re-exported so parser/interpreter code can refer to ast.Scope
// without importing internal/scope directly in every file that touches a
// JexlScript node.
type Scope = scope.Scope
