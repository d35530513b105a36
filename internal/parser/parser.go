// Package parser is a minimal recursive-descent front end producing the AST
// described in spec.md §3, driving an internal/scope Scope
// on every identifier reference and `var` declaration as it goes — spec.md
// treats the concrete grammar as an external collaborator ("a generated
// LALR/recursive-descent parser producing the AST ... is assumed"); this is
// that assumed collaborator, kept deliberately small so the engine has a
// real front end to drive end to end.
package parser

import (
	"fmt"

	"github.com/jexlang/jexl/internal/ast"
	"github.com/jexlang/jexl/internal/lexer"
	"github.com/jexlang/jexl/internal/scope"
	"github.com/jexlang/jexl/internal/token"
)

// ParseError reports a malformed-input condition with source coordinates
// (spec.md §7 ParsingError).
type ParseError struct {
	Msg    string
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// Parser turns a token stream into a JexlScript, resolving identifiers
// against a Scope as it parses (spec.md §3 Scope, §4.4).
type Parser struct {
	lex          *lexer.Lexer
	cur, peek    token.Token
	scope        *scope.Scope
	lexical      bool
	lexicalShade bool
	errs         []error
	source       string
}

// Option configures parser-affecting engine Options that change parse-time
// behavior (lexical redeclaration checking).
type Option func(*Parser)

func WithLexical(on bool) Option      { return func(p *Parser) { p.lexical = on } }
func WithLexicalShade(on bool) Option { return func(p *Parser) { p.lexicalShade = on } }

// New creates a Parser over source, with params pre-declared as the root
// scope's parameter slots (spec.md §4.4: "parameters occupy symbols
// [0..parmCount)").
func New(source string, params []ast.Param, opts ...Option) *Parser {
	p := &Parser{lex: lexer.New(source), scope: scope.NewScope(), source: source}
	for _, o := range opts {
		o(p)
	}
	for i := range params {
		sym := p.scope.DeclareParameter(params[i].Name)
		params[i].Symbol = sym
	}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) at(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekAt(k token.Kind) bool { return p.peek.Kind == k }

func (p *Parser) expect(k token.Kind) token.Token {
	t := p.cur
	if !p.at(k) {
		p.errorf("expected %s, got %s (%q)", k, p.cur.Kind, p.cur.Lexeme)
	}
	p.advance()
	return t
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errs = append(p.errs, &ParseError{Msg: fmt.Sprintf(format, args...), Line: p.cur.Line, Column: p.cur.Column})
}

func (p *Parser) debug() ast.DebugInfo {
	return ast.DebugInfo{Line: p.cur.Line, Column: p.cur.Column, Source: p.source}
}

// ParseScript parses a full script (sequence of statements). params have
// already been declared into the root scope by New.
func (p *Parser) ParseScript(params []ast.Param) (*ast.JexlScript, error) {
	dbg := p.debug()
	var body []ast.Node
	for !p.at(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			body = append(body, stmt)
		}
		if len(p.errs) > 50 {
			break
		}
	}
	script := &ast.JexlScript{
		Base:   ast.NewBase(ast.KindJexlScript, "", dbg),
		Params: params,
		Body:   body,
		Scope:  p.scope,
		Source: p.source,
	}
	if len(p.errs) > 0 {
		return script, p.errs[0]
	}
	return script, nil
}

// ParseExpression parses a single expression (for Engine.create_expression).
func (p *Parser) ParseExpression() (ast.Node, error) {
	expr := p.parseExpr(precAssign)
	if !p.at(token.EOF) {
		p.errorf("unexpected trailing input %q", p.cur.Lexeme)
	}
	if len(p.errs) > 0 {
		return expr, p.errs[0]
	}
	return expr, nil
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []error { return p.errs }

// Scope returns the root scope built while parsing, so a caller parsing a
// bare expression (which has no JexlScript to carry it) can still size a
// Frame for it.
func (p *Parser) Scope() *scope.Scope { return p.scope }
