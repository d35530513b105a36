package parser

import (
	"github.com/jexlang/jexl/internal/ast"
	"github.com/jexlang/jexl/internal/scope"
	"github.com/jexlang/jexl/internal/token"
)

// tryParseLambda attempts to parse a `(params) -> body` lambda starting at
// the current `(`. On failure (the parens turn out to be a plain
// parenthesized expression) it rewinds the lexer and token buffer to where
// it started and reports ok=false so the caller falls through to normal
// parenthesized-expression parsing.
//
// The rewind works because lexer.Lexer holds only scalar state (string,
// ints, a rune) with no internal pointers: copying the dereferenced struct
// and writing it back restores scanning position exactly, unlike copying a
// *Parser (whose lexer field is a pointer the copy would still alias).
func (p *Parser) tryParseLambda(dbg ast.DebugInfo) (ast.Node, bool) {
	savedLex := *p.lex
	savedCur, savedPeek := p.cur, p.peek
	savedErrs := len(p.errs)

	p.advance() // consume '('
	var names []string
	valid := true
	for !p.at(token.RPAREN) {
		if !p.at(token.IDENT) {
			valid = false
			break
		}
		names = append(names, p.cur.Lexeme)
		p.advance()
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if valid && p.at(token.RPAREN) {
		p.advance() // consume ')'
		if p.at(token.ARROW) {
			p.advance()
			return p.finishLambda(names, dbg), true
		}
	}

	*p.lex = savedLex
	p.cur, p.peek = savedCur, savedPeek
	p.errs = p.errs[:savedErrs]
	return nil, false
}

// parseSingleParamLambda handles the `name -> body` shorthand (no parens
// around a single parameter).
func (p *Parser) parseSingleParamLambda(dbg ast.DebugInfo) ast.Node {
	name := p.cur.Lexeme
	p.advance() // consume ident
	p.advance() // consume '->'
	return p.finishLambda([]string{name}, dbg)
}

func (p *Parser) finishLambda(names []string, dbg ast.DebugInfo) ast.Node {
	parent := p.scope
	child := scope.NewChild(parent)
	p.scope = child

	params := make([]ast.Param, len(names))
	for i, n := range names {
		sym := child.DeclareParameter(n)
		params[i] = ast.Param{Name: n, Symbol: sym}
	}

	var body []ast.Node
	if p.at(token.LBRACE) {
		body = p.parseBlock().Statements
	} else {
		body = []ast.Node{p.parseExpr(precAssign)}
	}

	p.scope = parent
	return &ast.Lambda{Base: ast.NewBase(ast.KindLambda, "->", dbg), Params: params, Body: body, Scope: child}
}
