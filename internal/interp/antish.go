package interp

import "github.com/jexlang/jexl/internal/ast"

// dottedChain walks a pure `.`-only Reference chain rooted at an Identifier
// the parser left unresolved (not bound to a frame slot) and returns its
// full dotted name. It returns ok=false the moment it meets anything antish
// can't cross (a frame-resolved head, a computed bracket index, a method
// call, a namespace call) — those always mean "not a single antish
// variable".
func dottedChain(n ast.Node) (string, bool) {
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
		base, ok := dottedChain(v.Target)
		if !ok {
			return "", false
		}
		return base + "." + v.Name, true
	}
	return "", false
}
