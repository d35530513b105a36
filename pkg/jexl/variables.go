package jexl

import "github.com/jexlang/jexl/internal/ast"

// GetVariables performs spec.md §6's "Engine.get_variables" static
// free-variable analysis: every name a running script would read from or
// write to its Context, without actually executing it. Grounded on the
// parser's own scope-resolution pass (an Identifier the parser could not
// bind to a frame slot is exactly one that falls through to the Context at
// run time) plus a local antish-chain walk mirroring
// internal/interp/antish.go's dottedChain, kept here rather than exported
// from interp to avoid a needless cross-package dependency for one helper.
func (s *Script) GetVariables() []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, stmt := range s.ast.Body {
		walkVariables(stmt, add)
	}
	return out
}

// GetVariables for a single parsed expression (Expression.GetVariables).
func (e *Expression) GetVariables() []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	walkVariables(e.node, add)
	return out
}

func walkVariables(n ast.Node, add func(string)) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *ast.Identifier:
		if !v.Resolved {
			add(v.Name)
		}
		return
	case *ast.Reference:
		if chain, ok := dottedChainLocal(v); ok {
			add(chain)
			return
		}
	}
	for _, c := range n.Children() {
		walkVariables(c, add)
	}
}

// dottedChainLocal mirrors internal/interp's antish dottedChain: a pure
// `.`-only Reference chain rooted at an unresolved Identifier names a
// single Context variable.
func dottedChainLocal(n ast.Node) (string, bool) {
	switch v := n.(type) {
	case *ast.Identifier:
		if v.Resolved {
			return "", false
		}
		return v.Name, true
	case *ast.Reference:
		if v.Key != nil {
			return "", false
		}
		base, ok := dottedChainLocal(v.Target)
		if !ok {
			return "", false
		}
		return base + "." + v.Name, true
	}
	return "", false
}
