package parser

import (
	"strconv"
	"strings"

	"github.com/jexlang/jexl/internal/ast"
	"github.com/jexlang/jexl/internal/token"
)

// Operator precedence levels, lowest to highest.
const (
	precAssign = iota
	precTernary
	precNullish
	precOr
	precAnd
	precEquality
	precRelational
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdditive
	precMultiplicative
	precPower
	precUnary
	precPostfix
	precPrimary
)

func precedenceOf(k token.Kind) int {
	switch k {
	case token.QUESTION, token.QUESTION_COLON:
		return precTernary
	case token.QUESTION_QUESTION:
		return precNullish
	case token.OR:
		return precOr
	case token.AND:
		return precAnd
	case token.EQ, token.NEQ, token.EREG, token.NREG:
		return precEquality
	case token.LT, token.LE, token.GT, token.GE, token.IN:
		return precRelational
	case token.BIT_OR:
		return precBitOr
	case token.BIT_XOR:
		return precBitXor
	case token.BIT_AND:
		return precBitAnd
	case token.SHL, token.SHR:
		return precShift
	case token.PLUS, token.MINUS:
		return precAdditive
	case token.STAR, token.SLASH, token.PERCENT:
		return precMultiplicative
	case token.POW:
		return precPower
	case token.RANGE:
		return precAdditive
	default:
		return -1
	}
}

func (p *Parser) parseExpr(minPrec int) ast.Node {
	left := p.parseUnary()

	for {
		if p.at(token.ASSIGN) && minPrec <= precAssign {
			dbg := p.debug()
			p.advance()
			val := p.parseExpr(precAssign)
			left = &ast.Assign{Base: ast.NewBase(ast.KindAssign, "=", dbg), Target: left, Value: val}
			continue
		}
		if isCompoundAssign(p.cur.Kind) && minPrec <= precAssign {
			op := compoundOp(p.cur.Kind)
			dbg := p.debug()
			p.advance()
			val := p.parseExpr(precAssign)
			left = &ast.CompoundAssign{Base: ast.NewBase(ast.KindCompoundAssign, op+"=", dbg), Op: op, Target: left, Value: val}
			continue
		}
		if p.at(token.QUESTION) && minPrec <= precTernary {
			dbg := p.debug()
			p.advance()
			then := p.parseExpr(precAssign)
			p.expect(token.COLON)
			els := p.parseExpr(precTernary)
			left = &ast.Ternary{Base: ast.NewBase(ast.KindTernary, "?:", dbg), Cond: left, Then: then, Else: els}
			continue
		}
		if p.at(token.QUESTION_COLON) && minPrec <= precTernary {
			dbg := p.debug()
			p.advance()
			els := p.parseExpr(precTernary)
			left = &ast.Ternary{Base: ast.NewBase(ast.KindTernary, "?:", dbg), Cond: left, Then: nil, Else: els}
			continue
		}
		if p.at(token.QUESTION_QUESTION) && minPrec <= precNullish {
			dbg := p.debug()
			p.advance()
			right := p.parseExpr(precNullish + 1)
			left = &ast.NullCoalescing{Base: ast.NewBase(ast.KindNullCoalescing, "??", dbg), Left: left, Right: right}
			continue
		}

		prec := precedenceOf(p.cur.Kind)
		if prec < 0 || prec < minPrec {
			break
		}

		switch p.cur.Kind {
		case token.OR, token.AND:
			op := p.cur.Lexeme
			dbg := p.debug()
			p.advance()
			right := p.parseExpr(prec + 1)
			left = &ast.LogicalOp{Base: ast.NewBase(ast.KindLogical, op, dbg), Op: op, Left: left, Right: right}
		case token.IN:
			dbg := p.debug()
			p.advance()
			right := p.parseExpr(prec + 1)
			left = &ast.InNotIn{Base: ast.NewBase(ast.KindInNotIn, "in", dbg), Left: left, Right: right}
		case token.RANGE:
			dbg := p.debug()
			p.advance()
			right := p.parseExpr(prec + 1)
			left = &ast.RangeLit{Base: ast.NewBase(ast.KindRangeLit, "..", dbg), Low: left, High: right}
		default:
			op := p.cur.Lexeme
			kind := kindForBinary(p.cur.Kind)
			dbg := p.debug()
			p.advance()
			right := p.parseExpr(prec + 1)
			left = &ast.BinaryOp{Base: ast.NewBase(kind, op, dbg), Op: op, Left: left, Right: right}
		}
	}
	return left
}

func kindForBinary(k token.Kind) ast.Kind {
	switch k {
	case token.EQ, token.NEQ, token.LT, token.LE, token.GT, token.GE:
		return ast.KindBinaryCompare
	case token.BIT_OR, token.BIT_XOR, token.BIT_AND:
		return ast.KindBitwise
	case token.SHL, token.SHR:
		return ast.KindShift
	case token.EREG, token.NREG:
		return ast.KindRegexMatch
	default:
		return ast.KindBinaryArith
	}
}

func isCompoundAssign(k token.Kind) bool {
	switch k {
	case token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN, token.PERCENT_ASSIGN:
		return true
	}
	return false
}

func compoundOp(k token.Kind) string {
	switch k {
	case token.PLUS_ASSIGN:
		return "+"
	case token.MINUS_ASSIGN:
		return "-"
	case token.STAR_ASSIGN:
		return "*"
	case token.SLASH_ASSIGN:
		return "/"
	case token.PERCENT_ASSIGN:
		return "%"
	}
	return "?"
}

func (p *Parser) parseUnary() ast.Node {
	switch p.cur.Kind {
	case token.NOT, token.MINUS, token.PLUS, token.BIT_NOT:
		op := p.cur.Lexeme
		dbg := p.debug()
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryOp{Base: ast.NewBase(ast.KindUnary, op, dbg), Op: op, Operand: operand}
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parsePostfix(expr ast.Node) ast.Node {
	for {
		switch p.cur.Kind {
		case token.DOT, token.QUESTION_DOT:
			safe := p.at(token.QUESTION_DOT)
			dbg := p.debug()
			p.advance()
			name := p.expect(token.IDENT).Lexeme
			if p.at(token.LPAREN) {
				args := p.parseArgs()
				expr = &ast.MethodCall{Base: ast.NewBase(ast.KindMethodCall, name, dbg), Target: expr, Name: name, Args: args, Safe: safe}
			} else {
				expr = &ast.Reference{Base: ast.NewBase(ast.KindReference, name, dbg), Target: expr, Name: name, Safe: safe}
			}
		case token.LBRACKET:
			dbg := p.debug()
			p.advance()
			idx := p.parseExpr(precAssign)
			p.expect(token.RBRACKET)
			if lit, ok := idx.(*ast.StrLit); ok {
				expr = &ast.Reference{Base: ast.NewBase(ast.KindReference, lit.Value, dbg), Target: expr, Name: lit.Value}
			} else {
				expr = &ast.ArrayAccess{Base: ast.NewBase(ast.KindArrayAccess, "", dbg), Target: expr, Index: idx}
			}
		case token.LPAREN:
			dbg := p.debug()
			args := p.parseArgs()
			expr = &ast.IndirectCall{Base: ast.NewBase(ast.KindIndirectCall, "", dbg), Callee: expr, Args: args}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgs() []ast.Node {
	p.expect(token.LPAREN)
	var args []ast.Node
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		args = append(args, p.parseExpr(precAssign))
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parsePrimary() ast.Node {
	dbg := p.debug()
	switch p.cur.Kind {
	case token.INT:
		lit := p.cur.Lexeme
		p.advance()
		return parseIntLit(lit, dbg)
	case token.FLOAT:
		lit := p.cur.Lexeme
		p.advance()
		return parseRealLit(lit, dbg)
	case token.STRING:
		s := p.cur.Lexeme
		p.advance()
		n := &ast.StrLit{Base: ast.NewBase(ast.KindStrLit, s, dbg), Value: s}
		n.SetConstant(true)
		return n
	case token.TRUE:
		p.advance()
		n := &ast.TrueLit{Base: ast.NewBase(ast.KindTrueLit, "true", dbg)}
		n.SetConstant(true)
		return n
	case token.FALSE:
		p.advance()
		n := &ast.FalseLit{Base: ast.NewBase(ast.KindFalseLit, "false", dbg)}
		n.SetConstant(true)
		return n
	case token.NULL:
		p.advance()
		n := &ast.NullLit{Base: ast.NewBase(ast.KindNullLit, "null", dbg)}
		n.SetConstant(true)
		return n
	case token.THIS:
		p.advance()
		return &ast.This{Base: ast.NewBase(ast.KindThis, "this", dbg)}
	case token.LPAREN:
		if node, ok := p.tryParseLambda(dbg); ok {
			return node
		}
		p.advance()
		expr := p.parseExpr(precAssign)
		p.expect(token.RPAREN)
		return expr
	case token.LBRACKET:
		return p.parseArrayLit()
	case token.LBRACE:
		return p.parseMapOrSetLit()
	case token.IDENT:
		if p.peekAt(token.ARROW) {
			return p.parseSingleParamLambda(dbg)
		}
		return p.parseIdentOrCall()
	default:
		p.errorf("unexpected token %s (%q)", p.cur.Kind, p.cur.Lexeme)
		p.advance()
		return &ast.NullLit{Base: ast.NewBase(ast.KindNullLit, "null", dbg)}
	}
}

func parseIntLit(lit string, dbg ast.DebugInfo) ast.Node {
	clean := strings.TrimRight(lit, "LlHh")
	base := 10
	if strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X") {
		base = 16
		clean = clean[2:]
	}
	v, err := strconv.ParseInt(clean, base, 64)
	n := &ast.IntLit{Base: ast.NewBase(ast.KindIntLit, lit, dbg)}
	n.SetConstant(true)
	if err != nil {
		big := bigFromString(clean, base)
		n.Big = big
		return n
	}
	n.Value = v
	return n
}

func parseRealLit(lit string, dbg ast.DebugInfo) ast.Node {
	suffix := lit[len(lit)-1]
	bigDec := suffix == 'B' || suffix == 'b'
	clean := lit
	if suffix == 'F' || suffix == 'f' || suffix == 'D' || suffix == 'd' || bigDec {
		clean = lit[:len(lit)-1]
	}
	v, _ := strconv.ParseFloat(clean, 64)
	n := &ast.RealLit{Base: ast.NewBase(ast.KindRealLit, lit, dbg), Value: v, BigDec: bigDec}
	n.SetConstant(true)
	return n
}

func (p *Parser) parseArrayLit() ast.Node {
	dbg := p.debug()
	p.expect(token.LBRACKET)
	var elems []ast.Node
	for !p.at(token.RBRACKET) && !p.at(token.EOF) {
		elems = append(elems, p.parseExpr(precAssign))
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayLit{Base: ast.NewBase(ast.KindArrayLit, "", dbg), Elements: elems}
}

func (p *Parser) parseMapOrSetLit() ast.Node {
	dbg := p.debug()
	p.expect(token.LBRACE)
	if p.at(token.RBRACE) {
		p.advance()
		return &ast.MapLit{Base: ast.NewBase(ast.KindMapLit, "", dbg)}
	}
	first := p.parseExpr(precAssign)
	if p.at(token.COLON) {
		p.advance()
		val := p.parseExpr(precAssign)
		entries := []ast.MapEntry{{Key: first, Value: val}}
		for p.at(token.COMMA) {
			p.advance()
			if p.at(token.RBRACE) {
				break
			}
			k := p.parseExpr(precAssign)
			p.expect(token.COLON)
			v := p.parseExpr(precAssign)
			entries = append(entries, ast.MapEntry{Key: k, Value: v})
		}
		p.expect(token.RBRACE)
		return &ast.MapLit{Base: ast.NewBase(ast.KindMapLit, "", dbg), Entries: entries}
	}
	elems := []ast.Node{first}
	for p.at(token.COMMA) {
		p.advance()
		if p.at(token.RBRACE) {
			break
		}
		elems = append(elems, p.parseExpr(precAssign))
	}
	p.expect(token.RBRACE)
	return &ast.SetLit{Base: ast.NewBase(ast.KindSetLit, "", dbg), Elements: elems}
}

// parseIdentOrCall parses a bare identifier, a namespace call `ns:fn(...)`,
// a bare function call `fn(...)`, or resolves a plain identifier against
// the current Scope (spec.md §4.4).
func (p *Parser) parseIdentOrCall() ast.Node {
	dbg := p.debug()
	name := p.cur.Lexeme
	p.advance()

	if p.at(token.COLON) && p.peekAt(token.IDENT) {
		p.advance()
		fn := p.cur.Lexeme
		p.advance()
		args := p.parseArgs()
		return &ast.FunctionCall{Base: ast.NewBase(ast.KindFunctionCall, fn, dbg), Namespace: name, Name: fn, Args: args}
	}

	if p.at(token.LPAREN) {
		args := p.parseArgs()
		return &ast.FunctionCall{Base: ast.NewBase(ast.KindFunctionCall, name, dbg), Name: name, Args: args}
	}

	id := &ast.Identifier{Base: ast.NewBase(ast.KindIdentifier, name, dbg), Name: name}
	if sym, ok := p.scope.Resolve(name); ok {
		id.Resolved = true
		id.Symbol = sym
		id.Flags.Lexical = p.scope.IsLexical(sym)
		if _, isCap := p.scope.IsCapture(sym); isCap {
			id.Flags.Captured = true
		}
		if p.lexicalShade {
			id.Flags.Shaded = id.Flags.Lexical
		}
	}
	return id
}
