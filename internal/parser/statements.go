package parser

import (
	"github.com/jexlang/jexl/internal/ast"
	"github.com/jexlang/jexl/internal/token"
)

func (p *Parser) parseStatement() ast.Node {
	switch p.cur.Kind {
	case token.SEMI:
		p.advance()
		return nil
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.FOR:
		return p.parseForEach()
	case token.VAR:
		return p.parseVarDecl()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		dbg := p.debug()
		p.advance()
		p.consumeStatementEnd()
		return &ast.Break{Base: ast.NewBase(ast.KindBreak, "break", dbg)}
	case token.CONTINUE:
		dbg := p.debug()
		p.advance()
		p.consumeStatementEnd()
		return &ast.Continue{Base: ast.NewBase(ast.KindContinue, "continue", dbg)}
	case token.THROW:
		return p.parseThrow()
	case token.TRY:
		return p.parseTry()
	default:
		expr := p.parseExpr(precAssign)
		p.consumeStatementEnd()
		return expr
	}
}

// consumeStatementEnd consumes an optional trailing `;`. A missing `;`
// between two statements that the grammar cannot otherwise disambiguate is
// the parser's job to flag as Ambiguous (spec.md §3, §7); this minimal
// front end treats `;` as always-optional statement separator instead,
// since whitespace-insensitive recovery is outside the covered core.
func (p *Parser) consumeStatementEnd() {
	if p.at(token.SEMI) {
		p.advance()
	}
}

func (p *Parser) parseBlock() *ast.Block {
	dbg := p.debug()
	p.expect(token.LBRACE)
	var stmts []ast.Node
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		s := p.parseStatement()
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	p.expect(token.RBRACE)
	return &ast.Block{Base: ast.NewBase(ast.KindBlock, "", dbg), Statements: stmts}
}

func (p *Parser) parseIf() ast.Node {
	dbg := p.debug()
	p.expect(token.IF)
	p.expect(token.LPAREN)
	cond := p.parseExpr(precAssign)
	p.expect(token.RPAREN)
	then := p.parseStatement()
	var els ast.Node
	if p.at(token.ELSE) {
		p.advance()
		els = p.parseStatement()
	}
	return &ast.If{Base: ast.NewBase(ast.KindIf, "", dbg), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhile() ast.Node {
	dbg := p.debug()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr(precAssign)
	p.expect(token.RPAREN)
	body := p.parseStatement()
	return &ast.While{Base: ast.NewBase(ast.KindWhile, "", dbg), Cond: cond, Body: body}
}

func (p *Parser) parseDoWhile() ast.Node {
	dbg := p.debug()
	p.expect(token.DO)
	body := p.parseStatement()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr(precAssign)
	p.expect(token.RPAREN)
	p.consumeStatementEnd()
	return &ast.DoWhile{Base: ast.NewBase(ast.KindDoWhile, "", dbg), Body: body, Cond: cond}
}

func (p *Parser) parseForEach() ast.Node {
	dbg := p.debug()
	p.expect(token.FOR)
	p.expect(token.LPAREN)
	p.expect(token.VAR)
	name := p.expect(token.IDENT).Lexeme
	p.expect(token.COLON)
	coll := p.parseExpr(precAssign)
	p.expect(token.RPAREN)

	// The loop variable is a local slot in the enclosing script/lambda
	// scope (spec.md §4.4: a Scope is per script or lambda, not per block;
	// Frame separation only happens at lambda boundaries).
	sym := p.scope.DeclareLocal(name)
	body := p.parseStatement()

	return &ast.ForEach{Base: ast.NewBase(ast.KindForEach, "", dbg), VarName: name, Symbol: sym, Coll: coll, Body: body}
}

func (p *Parser) parseVarDecl() ast.Node {
	dbg := p.debug()
	p.expect(token.VAR)
	name := p.expect(token.IDENT).Lexeme
	if p.lexical && p.scope.HasLocal(name) {
		p.errorf("variable %q already declared in this scope", name)
	}
	sym := p.scope.DeclareLocal(name)
	var init ast.Node
	if p.at(token.ASSIGN) {
		p.advance()
		init = p.parseExpr(precAssign)
	}
	p.consumeStatementEnd()
	return &ast.VarDecl{Base: ast.NewBase(ast.KindVarDecl, name, dbg), Name: name, Symbol: sym, Init: init}
}

func (p *Parser) parseReturn() ast.Node {
	dbg := p.debug()
	p.expect(token.RETURN)
	var val ast.Node
	if !p.at(token.SEMI) && !p.at(token.RBRACE) && !p.at(token.EOF) {
		val = p.parseExpr(precAssign)
	}
	p.consumeStatementEnd()
	return &ast.Return{Base: ast.NewBase(ast.KindReturn, "return", dbg), Value: val}
}

func (p *Parser) parseThrow() ast.Node {
	dbg := p.debug()
	p.expect(token.THROW)
	val := p.parseExpr(precAssign)
	p.consumeStatementEnd()
	return &ast.Throw{Base: ast.NewBase(ast.KindThrow, "throw", dbg), Value: val}
}

func (p *Parser) parseTry() ast.Node {
	dbg := p.debug()
	p.expect(token.TRY)
	body := p.parseBlock()
	var catch *ast.CatchClause
	if p.at(token.CATCH) {
		p.advance()
		p.expect(token.LPAREN)
		name := p.expect(token.IDENT).Lexeme
		p.expect(token.RPAREN)
		sym := p.scope.DeclareLocal(name)
		cbody := p.parseBlock()
		catch = &ast.CatchClause{Name: name, Symbol: sym, Body: cbody}
	}
	var fin ast.Node
	if p.at(token.FINALLY) {
		p.advance()
		fin = p.parseBlock()
	}
	return &ast.TryCatchFinally{Base: ast.NewBase(ast.KindTryCatchFinally, "", dbg), Body: body, Catch: catch, Finally: fin}
}
