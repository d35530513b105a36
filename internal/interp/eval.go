package interp

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/jexlang/jexl/internal/ast"
	"github.com/jexlang/jexl/internal/introspect"
	"github.com/jexlang/jexl/internal/scope"
	"github.com/jexlang/jexl/internal/values"
)

// eval evaluates an expression node to a Value (spec.md §4.5). Statement
// forms (If/While/...) are handled by execStmt and never reach here except
// through the default case of execStmt, which is itself only hit for
// expression-statements.
func (it *Interpreter) eval(n ast.Node, frame *scope.Frame) (values.Value, error) {
	switch node := n.(type) {
	case *ast.IntLit:
		if node.Big != nil {
			return values.BigInt{V: node.Big}, nil
		}
		return values.Int64(node.Value), nil
	case *ast.RealLit:
		if node.BigDec {
			return values.NewBigDecFromFloat(node.Value), nil
		}
		return values.Float64(node.Value), nil
	case *ast.StrLit:
		return values.Str(node.Value), nil
	case *ast.RegexLit:
		return values.Str(node.Pattern), nil
	case *ast.NullLit:
		return values.NULL, nil
	case *ast.TrueLit:
		return values.Bool(true), nil
	case *ast.FalseLit:
		return values.Bool(false), nil
	case *ast.ArrayLit:
		elems := make([]values.Value, len(node.Elements))
		for i, e := range node.Elements {
			v, err := it.eval(e, frame)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return values.Array{Elems: elems}, nil
	case *ast.MapLit:
		m := values.NewMap()
		for _, entry := range node.Entries {
			k, err := it.eval(entry.Key, frame)
			if err != nil {
				return nil, err
			}
			v, err := it.eval(entry.Value, frame)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	case *ast.SetLit:
		s := values.NewSet()
		for _, e := range node.Elements {
			v, err := it.eval(e, frame)
			if err != nil {
				return nil, err
			}
			s.Add(v)
		}
		return s, nil
	case *ast.RangeLit:
		return it.evalRange(node, frame)
	case *ast.This:
		return it.this, nil
	case *ast.Identifier:
		return it.evalIdentifier(node, frame)
	case *ast.VarDecl:
		var v values.Value = values.NULL
		if node.Init != nil {
			var err error
			v, err = it.eval(node.Init, frame)
			if err != nil {
				return nil, err
			}
		}
		frame.Set(node.Symbol, v)
		return v, nil
	case *ast.Reference:
		return it.evalReference(node, frame)
	case *ast.ArrayAccess:
		return it.evalArrayAccess(node, frame)
	case *ast.MethodCall:
		return it.evalMethodCall(node, frame)
	case *ast.FunctionCall:
		return it.evalFunctionCall(node, frame)
	case *ast.ConstructorCall:
		return it.evalConstructorCall(node, frame)
	case *ast.IndirectCall:
		return it.evalIndirectCall(node, frame)
	case *ast.Lambda:
		return &Closure{it: it, lambda: node, outer: frame, this: it.this}, nil
	case *ast.UnaryOp:
		return it.evalUnary(node, frame)
	case *ast.BinaryOp:
		return it.evalBinary(node, frame)
	case *ast.LogicalOp:
		return it.evalLogical(node, frame)
	case *ast.InNotIn:
		return it.evalInNotIn(node, frame)
	case *ast.Assign:
		return it.evalAssign(node, frame)
	case *ast.CompoundAssign:
		return it.evalCompoundAssign(node, frame)
	case *ast.Ternary:
		return it.evalTernary(node, frame)
	case *ast.NullCoalescing:
		left, err := it.eval(node.Left, frame)
		if err != nil {
			return nil, err
		}
		if _, isNull := left.(values.Null); !isNull {
			return left, nil
		}
		return it.eval(node.Right, frame)
	case *ast.SafeAccess:
		return it.eval(node.Chain, frame)
	}
	return values.NULL, nil
}

func (it *Interpreter) evalRange(node *ast.RangeLit, frame *scope.Frame) (values.Value, error) {
	lo, err := it.eval(node.Low, frame)
	if err != nil {
		return nil, err
	}
	hi, err := it.eval(node.High, frame)
	if err != nil {
		return nil, err
	}
	loi, err := values.ToInteger(lo, values.Strict(it.Opts.Strict))
	if err != nil {
		return nil, err
	}
	hii, err := values.ToInteger(hi, values.Strict(it.Opts.Strict))
	if err != nil {
		return nil, err
	}
	var elems []values.Value
	if loi <= hii {
		for i := loi; i <= hii; i++ {
			elems = append(elems, values.Int64(i))
		}
	} else {
		for i := loi; i >= hii; i-- {
			elems = append(elems, values.Int64(i))
		}
	}
	return values.Array{Elems: elems}, nil
}

// evalIdentifier resolves a frame slot when the parser bound one, or falls
// back to the Context (spec.md §4.4 invariant (b)). Antish dotted lookups
// are not made here; evalReference tries them for a whole `.`-chain.
func (it *Interpreter) evalIdentifier(node *ast.Identifier, frame *scope.Frame) (values.Value, error) {
	if node.Resolved {
		if frame.Has(node.Symbol) {
			return asFrameValue(frame.Get(node.Symbol)), nil
		}
		if it.Opts.Lexical {
			return values.NULL, nil
		}
	}
	if v, ok := it.Ctx.Get(node.Name); ok {
		return v, nil
	}
	if it.Opts.Safe || it.Opts.Silent {
		return values.NULL, nil
	}
	if it.Opts.Strict {
		return nil, &VariableError{baseError{node.Debug()}, node.Name}
	}
	return values.NULL, nil
}

func asFrameValue(raw interface{}) values.Value {
	if _, isUndef := raw.(scope.Undefined); isUndef {
		return values.NULL
	}
	if v, ok := raw.(values.Value); ok {
		return v
	}
	return values.NULL
}

// evalReference evaluates `target.name` / `target['name']` (spec.md §4.3
// property_get), trying an antish full-dotted-path lookup in the Context
// first when the whole chain is plain dots and the head is an unresolved
// identifier (spec.md §4.5 "antish resolution").
func (it *Interpreter) evalReference(node *ast.Reference, frame *scope.Frame) (values.Value, error) {
	if it.Opts.Antish {
		if dotted, ok := dottedChain(node); ok {
			if v, found := it.Ctx.Get(dotted); found {
				return v, nil
			}
		}
	}
	target, err := it.eval(node.Target, frame)
	if err != nil {
		return nil, err
	}
	if _, isNull := target.(values.Null); isNull {
		if node.Safe || it.Opts.Safe {
			return values.NULL, nil
		}
		if it.Opts.Strict {
			return nil, &NullOperandError{baseError{node.Debug()}, "null target for ." + node.Name}
		}
		return values.NULL, nil
	}
	name := node.Name
	var key values.Value = values.Str(name)
	if node.Key != nil {
		key, err = it.eval(node.Key, frame)
		if err != nil {
			return nil, err
		}
	}
	v, err := it.Uber.PropertyGet(target, key)
	if err != nil {
		if node.Safe {
			return values.NULL, nil
		}
		if it.Opts.Silent {
			return values.NULL, nil
		}
		if wrapped := it.wrapPropertyErr(node.Debug(), name, err); wrapped != nil {
			return nil, wrapped
		}
		return values.NULL, nil
	}
	return v, nil
}

func (it *Interpreter) wrapPropertyErr(dbg ast.DebugInfo, name string, err error) error {
	if !it.Opts.Strict {
		return nil
	}
	return &PropertyError{baseError{dbg}, name}
}

func (it *Interpreter) evalArrayAccess(node *ast.ArrayAccess, frame *scope.Frame) (values.Value, error) {
	target, err := it.eval(node.Target, frame)
	if err != nil {
		return nil, err
	}
	if _, isNull := target.(values.Null); isNull {
		if it.Opts.Safe || !it.Opts.Strict {
			return values.NULL, nil
		}
		return nil, &NullOperandError{baseError{node.Debug()}, "null target for index"}
	}
	idx, err := it.eval(node.Index, frame)
	if err != nil {
		return nil, err
	}
	v, err := it.Uber.PropertyGet(target, idx)
	if err != nil {
		if it.Opts.Silent || !it.Opts.Strict {
			return values.NULL, nil
		}
		return nil, &PropertyError{baseError{node.Debug()}, idx.String()}
	}
	return v, nil
}

func (it *Interpreter) evalUnary(node *ast.UnaryOp, frame *scope.Frame) (values.Value, error) {
	v, err := it.eval(node.Operand, frame)
	if err != nil {
		return nil, err
	}
	switch node.Op {
	case "!":
		return values.Bool(!values.ToBoolean(v)), nil
	case "-":
		r, err := it.arith.Negate(v)
		return r, it.wrapArithErr(node.Debug(), err)
	case "+":
		return v, nil
	case "~":
		r, err := it.arith.BitNot(v)
		return r, it.wrapArithErr(node.Debug(), err)
	}
	return values.NULL, nil
}

func (it *Interpreter) wrapArithErr(dbg ast.DebugInfo, err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*values.ArithmeticError); ok {
		switch ae.Kind {
		case values.ErrNullOperand:
			if it.Opts.Strict {
				return &NullOperandError{baseError{dbg}, ae.Detail}
			}
			return nil
		case values.ErrDivideByZero:
			return &ArithmeticException{baseError{dbg}, ae.Detail}
		default:
			if it.Opts.Strict {
				return &CoercionError{baseError{dbg}, ae.Detail}
			}
			return nil
		}
	}
	return err
}

func (it *Interpreter) evalBinary(node *ast.BinaryOp, frame *scope.Frame) (values.Value, error) {
	l, err := it.eval(node.Left, frame)
	if err != nil {
		return nil, err
	}
	r, err := it.eval(node.Right, frame)
	if err != nil {
		return nil, err
	}
	switch node.Op {
	case "+":
		v, err := it.arith.Add(l, r)
		return v, it.wrapArithErr(node.Debug(), err)
	case "-":
		v, err := it.arith.Sub(l, r)
		return v, it.wrapArithErr(node.Debug(), err)
	case "*":
		v, err := it.arith.Mul(l, r)
		return v, it.wrapArithErr(node.Debug(), err)
	case "/":
		v, err := it.arith.Div(l, r)
		return v, it.wrapArithErr(node.Debug(), err)
	case "%":
		v, err := it.arith.Mod(l, r)
		return v, it.wrapArithErr(node.Debug(), err)
	case "**":
		return it.evalPow(l, r, node.Debug())
	case "&":
		v, err := it.arith.BitAnd(l, r)
		return v, it.wrapArithErr(node.Debug(), err)
	case "|":
		v, err := it.arith.BitOr(l, r)
		return v, it.wrapArithErr(node.Debug(), err)
	case "^":
		v, err := it.arith.BitXor(l, r)
		return v, it.wrapArithErr(node.Debug(), err)
	case "<<":
		v, err := it.arith.Shl(l, r)
		return v, it.wrapArithErr(node.Debug(), err)
	case ">>":
		v, err := it.arith.Shr(l, r)
		return v, it.wrapArithErr(node.Debug(), err)
	case "==":
		return values.Bool(values.Equal(l, r)), nil
	case "!=":
		return values.Bool(!values.Equal(l, r)), nil
	case "<", "<=", ">", ">=":
		cmp, err := values.Compare(l, r)
		if err != nil {
			if wrapped := it.wrapArithErr(node.Debug(), err); wrapped != nil {
				return nil, wrapped
			}
			return values.Bool(false), nil
		}
		return values.Bool(compareOk(node.Op, cmp)), nil
	case "=~":
		return it.evalRegexMatch(l, r, false)
	case "!~":
		return it.evalRegexMatch(l, r, true)
	}
	return values.NULL, nil
}

func compareOk(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

func (it *Interpreter) evalPow(l, r values.Value, dbg ast.DebugInfo) (values.Value, error) {
	lf, err := values.ToDouble(l, values.Strict(it.Opts.Strict))
	if err != nil {
		return nil, it.wrapArithErr(dbg, err)
	}
	rf, err := values.ToDouble(r, values.Strict(it.Opts.Strict))
	if err != nil {
		return nil, it.wrapArithErr(dbg, err)
	}
	return values.Float64(math.Pow(lf, rf)), nil
}

func (it *Interpreter) evalRegexMatch(l, r values.Value, negate bool) (values.Value, error) {
	pattern := values.ToGoString(r)
	subject := values.ToGoString(l)
	re, err := regexp.Compile(pattern)
	if err != nil {
		if it.Opts.Strict {
			return nil, &CoercionError{Detail: "invalid regex " + pattern}
		}
		return values.Bool(false), nil
	}
	matched := re.MatchString(subject)
	if negate {
		matched = !matched
	}
	return values.Bool(matched), nil
}

func containsStr(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

func (it *Interpreter) evalLogical(node *ast.LogicalOp, frame *scope.Frame) (values.Value, error) {
	l, err := it.eval(node.Left, frame)
	if err != nil {
		return nil, err
	}
	if node.Op == "&&" {
		if !values.ToBoolean(l) {
			return values.Bool(false), nil
		}
		r, err := it.eval(node.Right, frame)
		if err != nil {
			return nil, err
		}
		return values.Bool(values.ToBoolean(r)), nil
	}
	if values.ToBoolean(l) {
		return values.Bool(true), nil
	}
	r, err := it.eval(node.Right, frame)
	if err != nil {
		return nil, err
	}
	return values.Bool(values.ToBoolean(r)), nil
}

func (it *Interpreter) evalInNotIn(node *ast.InNotIn, frame *scope.Frame) (values.Value, error) {
	l, err := it.eval(node.Left, frame)
	if err != nil {
		return nil, err
	}
	r, err := it.eval(node.Right, frame)
	if err != nil {
		return nil, err
	}
	found := false
	switch coll := r.(type) {
	case values.Array:
		for _, e := range coll.Elems {
			if values.Equal(l, e) {
				found = true
				break
			}
		}
	case *values.Set:
		found = coll.Contains(l)
	case *values.Map:
		_, found = coll.Get(l)
	case values.Str:
		found = containsStr(string(coll), values.ToGoString(l))
	}
	if node.Negate {
		found = !found
	}
	return values.Bool(found), nil
}

func (it *Interpreter) evalTernary(node *ast.Ternary, frame *scope.Frame) (values.Value, error) {
	cond, err := it.eval(node.Cond, frame)
	if err != nil {
		return nil, err
	}
	if node.Then == nil {
		// Elvis: `cond ?: else`
		if values.ToBoolean(cond) {
			return cond, nil
		}
		return it.eval(node.Else, frame)
	}
	if values.ToBoolean(cond) {
		return it.eval(node.Then, frame)
	}
	return it.eval(node.Else, frame)
}

func (it *Interpreter) evalAssign(node *ast.Assign, frame *scope.Frame) (values.Value, error) {
	v, err := it.eval(node.Value, frame)
	if err != nil {
		return nil, err
	}
	return v, it.assignTo(node.Target, v, frame)
}

func (it *Interpreter) evalCompoundAssign(node *ast.CompoundAssign, frame *scope.Frame) (values.Value, error) {
	cur, err := it.eval(node.Target, frame)
	if err != nil {
		return nil, err
	}
	rhs, err := it.eval(node.Value, frame)
	if err != nil {
		return nil, err
	}
	var result values.Value
	switch node.Op {
	case "+":
		result, err = it.arith.Add(cur, rhs)
	case "-":
		result, err = it.arith.Sub(cur, rhs)
	case "*":
		result, err = it.arith.Mul(cur, rhs)
	case "/":
		result, err = it.arith.Div(cur, rhs)
	case "%":
		result, err = it.arith.Mod(cur, rhs)
	}
	if err != nil {
		return nil, it.wrapArithErr(node.Debug(), err)
	}
	return result, it.assignTo(node.Target, result, frame)
}

// assignTo writes v into target, which must be an Identifier (frame slot
// or Context variable), a Reference (property set), or an ArrayAccess
// (indexed set). Assigning through an unresolved antish dotted chain
// creates the Context variable under that full name (spec.md §4.5
// "antish-create-on-assign").
func (it *Interpreter) assignTo(target ast.Node, v values.Value, frame *scope.Frame) error {
	switch t := target.(type) {
	case *ast.Identifier:
		if t.Resolved {
			frame.Set(t.Symbol, v)
			return nil
		}
		return it.Ctx.Set(t.Name, v)
	case *ast.Reference:
		if it.Opts.Antish {
			if dotted, ok := dottedChain(t); ok {
				return it.Ctx.Set(dotted, v)
			}
		}
		targetVal, err := it.eval(t.Target, frame)
		if err != nil {
			return err
		}
		var key values.Value = values.Str(t.Name)
		if t.Key != nil {
			key, err = it.eval(t.Key, frame)
			if err != nil {
				return err
			}
		}
		return it.Uber.PropertySet(targetVal, key, v)
	case *ast.ArrayAccess:
		targetVal, err := it.eval(t.Target, frame)
		if err != nil {
			return err
		}
		idx, err := it.eval(t.Index, frame)
		if err != nil {
			return err
		}
		return it.Uber.PropertySet(targetVal, idx, v)
	}
	return nil
}

func (it *Interpreter) evalMethodCall(node *ast.MethodCall, frame *scope.Frame) (values.Value, error) {
	target, err := it.eval(node.Target, frame)
	if err != nil {
		return nil, err
	}
	if _, isNull := target.(values.Null); isNull {
		if node.Safe || it.Opts.Safe {
			return values.NULL, nil
		}
		if it.Opts.Strict {
			return nil, &NullOperandError{baseError{node.Debug()}, "null target for ." + node.Name + "()"}
		}
		return values.NULL, nil
	}
	args := make([]values.Value, len(node.Args))
	for i, a := range node.Args {
		v, err := it.eval(a, frame)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	// size()/empty() are pseudo-methods available on every value (spec.md
	// §4.1 "size", "empty"), resolved before falling to Uberspect dispatch.
	if len(args) == 0 {
		switch node.Name {
		case "size":
			if n, ok := values.Size(target); ok {
				return values.Int64(n), nil
			}
		case "isEmpty", "empty":
			if b, ok := values.Empty(target); ok {
				return values.Bool(b), nil
			}
		}
	}
	v, err := it.Uber.MethodCall(target, node.Name, args)
	if err != nil {
		if it.Opts.Silent {
			return values.NULL, nil
		}
		var amb *introspect.AmbiguousMethodError
		if errors.As(err, &amb) {
			return nil, &MethodError{baseError{node.Debug()}, node.Name, true, amb.Severity}
		}
		if it.Opts.Strict {
			return nil, &MethodError{baseError{node.Debug()}, node.Name, false, false}
		}
		return values.NULL, nil
	}
	return v, nil
}

func (it *Interpreter) evalFunctionCall(node *ast.FunctionCall, frame *scope.Frame) (values.Value, error) {
	args := make([]values.Value, len(node.Args))
	for i, a := range node.Args {
		v, err := it.eval(a, frame)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	if node.Namespace == "" {
		switch node.Name {
		case "empty":
			if len(args) == 1 {
				if b, ok := values.Empty(args[0]); ok {
					return values.Bool(b), nil
				}
				return values.Bool(args[0] == nil), nil
			}
		case "size":
			if len(args) == 1 {
				if n, ok := values.Size(args[0]); ok {
					return values.Int64(n), nil
				}
			}
		}
	}
	if it.Funcs != nil {
		v, ok, err := it.Funcs.Call(node.Namespace, node.Name, args)
		if ok {
			return v, err
		}
	}
	if it.Opts.Strict {
		return nil, &MethodError{baseError{node.Debug()}, node.Name, false, false}
	}
	return values.NULL, nil
}

func (it *Interpreter) evalConstructorCall(node *ast.ConstructorCall, frame *scope.Frame) (values.Value, error) {
	args := make([]values.Value, len(node.Args))
	for i, a := range node.Args {
		v, err := it.eval(a, frame)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	if it.Classes != nil {
		v, ok, err := it.Classes.New(node.ClassName, args)
		if ok {
			return v, err
		}
	}
	if it.Opts.Strict {
		return nil, &MethodError{baseError{node.Debug()}, "new " + node.ClassName, false, false}
	}
	return values.NULL, nil
}

func (it *Interpreter) evalIndirectCall(node *ast.IndirectCall, frame *scope.Frame) (values.Value, error) {
	callee, err := it.eval(node.Callee, frame)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(values.Callable)
	if !ok {
		if it.Opts.Strict {
			return nil, &MethodError{baseError{node.Debug()}, node.Callee.Image(), false, false}
		}
		return values.NULL, nil
	}
	args := make([]values.Value, len(node.Args))
	for i, a := range node.Args {
		v, err := it.eval(a, frame)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn.Call(args)
}
